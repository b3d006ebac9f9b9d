// Package presets builds the demo scenes listed in a YAML catalog.
//
// A catalog entry names the camera pose, the meshes to load (from a model file or from one of the
// inline geometries), the shader each mesh is drawn with and the textures assigned to its slots.
package presets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

type CameraPose struct {
	Origin [3]float32 `yaml:"origin"`
	// Fov is the vertical field of view in degrees
	Fov float32 `yaml:"fov"`
}

type TextureSet struct {
	Diffuse  string `yaml:"diffuse"`
	Normal   string `yaml:"normal"`
	Specular string `yaml:"specular"`
	Gloss    string `yaml:"gloss"`
}

type MeshDesc struct {
	Name   string `yaml:"name"`
	Shader string `yaml:"shader"`

	// Exactly one of Model and Inline is set
	Model  string `yaml:"model"`
	Inline string `yaml:"inline"`

	Textures TextureSet `yaml:"textures"`

	// Transparent meshes are drawn double sided without writing depth
	Transparent bool `yaml:"transparent"`
}

type PresetDesc struct {
	Camera CameraPose `yaml:"camera"`
	// AutoRotate is the name of the mesh spun around the Y axis, if any
	AutoRotate string     `yaml:"auto_rotate"`
	Meshes     []MeshDesc `yaml:"meshes"`
}

type Catalog struct {
	// BaseDir is what relative asset paths are resolved against
	BaseDir string                `yaml:"-"`
	Presets map[string]PresetDesc `yaml:"presets"`
}

func LoadCatalog(path string) (*Catalog, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset catalog: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("preset catalog '%s': %w", path, err)
	}

	c.BaseDir = filepath.Dir(path)
	return c, nil
}

// ParseCatalog decodes and validates a catalog. Unknown fields are an error.
func ParseCatalog(data []byte) (*Catalog, error) {

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	c := &Catalog{}
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) Validate() error {

	if len(c.Presets) == 0 {
		return errors.New("no presets defined")
	}

	for _, name := range c.Names() {

		p := c.Presets[name]
		if err := p.validate(); err != nil {
			return fmt.Errorf("preset '%s': %w", name, err)
		}
	}

	return nil
}

func (p *PresetDesc) validate() error {

	if p.Camera.Fov <= 0 || p.Camera.Fov >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %v", p.Camera.Fov)
	}

	if len(p.Meshes) == 0 {
		return errors.New("no meshes")
	}

	autoRotateFound := p.AutoRotate == ""
	seen := make(map[string]bool, len(p.Meshes))
	for i := 0; i < len(p.Meshes); i++ {

		m := &p.Meshes[i]
		if m.Name == "" {
			return fmt.Errorf("mesh %d has no name", i)
		}

		if seen[m.Name] {
			return fmt.Errorf("mesh name '%s' is used more than once", m.Name)
		}
		seen[m.Name] = true

		if m.Shader == "" {
			return fmt.Errorf("mesh '%s' has no shader", m.Name)
		}

		if (m.Model == "") == (m.Inline == "") {
			return fmt.Errorf("mesh '%s' must have exactly one of 'model' and 'inline'", m.Name)
		}

		if m.Inline != "" {
			if _, ok := inlineGeometries[m.Inline]; !ok {
				return fmt.Errorf("mesh '%s' uses unknown inline geometry '%s'", m.Name, m.Inline)
			}
		}

		if m.Name == p.AutoRotate {
			autoRotateFound = true
		}
	}

	if !autoRotateFound {
		return fmt.Errorf("auto_rotate names unknown mesh '%s'", p.AutoRotate)
	}

	return nil
}

// Names returns the preset names sorted
func (c *Catalog) Names() []string {

	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// resolve makes a relative asset path relative to the catalog's directory
func (c *Catalog) resolve(path string) string {

	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}

	return filepath.Join(c.BaseDir, path)
}
