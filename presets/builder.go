package presets

import (
	"fmt"

	"github.com/bloeys/nrend/assets"
	"github.com/bloeys/nrend/camera"
	"github.com/bloeys/nrend/effects"
	"github.com/bloeys/nrend/engine"
	"github.com/bloeys/nrend/input"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/meshes"
	"github.com/bloeys/nrend/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraSettings are applied to the camera of every preset
type CameraSettings struct {
	Input       input.Source
	MoveSpeed   float32
	RotSpeed    float32
	BoostFactor float32
}

// NewCamera places a camera at the preset's pose with an aspect ratio of width/height
func (p *PresetDesc) NewCamera(width, height int32, cs CameraSettings) camera.Camera {

	origin := mgl32.Vec3{p.Camera.Origin[0], p.Camera.Origin[1], p.Camera.Origin[2]}
	cam := camera.New(origin, p.Camera.Fov, float32(width)/float32(height), cs.Input)

	if cs.MoveSpeed > 0 {
		cam.MoveSpeed = cs.MoveSpeed
	}

	if cs.RotSpeed > 0 {
		cam.RotSpeed = cs.RotSpeed
	}

	if cs.BoostFactor > 0 {
		cam.BoostFactor = cs.BoostFactor
	}

	return cam
}

// Preset returns the builder for the named preset. Building needs a current GL context,
// which the renderer guarantees by only calling it once its device is ready.
func (c *Catalog) Preset(name string, cs CameraSettings) (engine.Preset, error) {

	desc, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset '%s'. Available presets: %v", name, c.Names())
	}

	return func(width, height int32) (engine.SceneSetup, error) {

		if err := assets.InitDefaultTextures(); err != nil {
			return engine.SceneSetup{}, fmt.Errorf("preset '%s': %w", name, err)
		}

		s := scene.New(desc.NewCamera(width, height, cs))
		setup := engine.SceneSetup{
			Scene:   s,
			Release: releaseTextures,
		}

		for i := 0; i < len(desc.Meshes); i++ {

			md := &desc.Meshes[i]
			model, err := c.buildModel(md)
			if err != nil {
				logging.ErrLog.Printf("Preset '%s': skipping mesh '%s'. Err: %v\n", name, md.Name, err)
				continue
			}

			s.AddMesh(model)
			if md.Name == desc.AutoRotate {
				setup.AutoRotate = model
			}
		}

		logging.InfoLog.Printf("Preset '%s' built with %d mesh(es)\n", name, len(s.Meshes))
		return setup, nil
	}, nil
}

func (c *Catalog) buildModel(md *MeshDesc) (*meshes.Model, error) {

	var mesh meshes.Mesh
	var err error
	if md.Inline != "" {
		mesh, err = inlineGeometries[md.Inline](md.Name)
	} else {
		mesh, err = meshes.NewMesh(md.Name, c.resolve(md.Model), meshes.LeftHandedLoadFlags)
	}

	if err != nil {
		return nil, err
	}

	// A mesh without an effect is still added, the scene reports it and it is not drawn
	effect, err := effects.NewEffect(md.Name, c.resolve(md.Shader))
	if err != nil {
		logging.ErrLog.Printf("Mesh '%s' has no effect. Err: %v\n", md.Name, err)
		return meshes.NewModel(mesh, nil), nil
	}

	effect.Transparent = md.Transparent
	c.assignTextures(effect, &md.Textures)
	return meshes.NewModel(mesh, effect), nil
}

func (c *Catalog) assignTextures(effect *effects.Effect, ts *TextureSet) {

	slots := []struct {
		path string
		slot effects.TextureSlot
	}{
		{ts.Diffuse, effects.TextureSlot_Diffuse},
		{ts.Normal, effects.TextureSlot_Normal},
		{ts.Specular, effects.TextureSlot_Specular},
		{ts.Gloss, effects.TextureSlot_Gloss},
	}

	for _, s := range slots {

		if s.path == "" {
			continue
		}

		// Shading is done on the stored values and the render target is not srgb
		tex, err := assets.LoadTexture(c.resolve(s.path), &assets.TextureLoadOptions{
			TryLoadFromCache: true,
			WriteToCache:     true,
			GenMipMaps:       true,
			NoSrgba:          true,
		})
		if err != nil {
			logging.ErrLog.Printf("Effect '%s': %v\n", effect.Name, err)
			continue
		}

		if err := effect.SetTexture(s.slot, tex); err != nil {
			logging.WarnLog.Println(err)
		}
	}
}

func releaseTextures() {

	for path, tex := range assets.Textures {
		tex.Delete()
		delete(assets.Textures, path)
	}

	assets.DeleteDefaultTextures()
}
