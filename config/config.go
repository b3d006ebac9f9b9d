// Package config loads the renderer settings from a TOML file.
//
// Every field has a default, so a missing file or a partial file is fine: values
// present in the file override the defaults, everything else is kept.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "./nrend.toml"

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type CameraConfig struct {
	MoveSpeed   float32 `toml:"move_speed"`
	RotSpeed    float32 `toml:"rot_speed"`
	BoostFactor float32 `toml:"boost"`
}

type RendererConfig struct {
	ClearColor  [4]float32 `toml:"clear_color"`
	Preset      string     `toml:"preset"`
	Catalog     string     `toml:"catalog"`
	AutoRotate  bool       `toml:"auto_rotate"`
	RotateSpeed float32    `toml:"rotate_speed"`
}

// KeyBindings holds SDL key names, as returned by SDL_GetKeyName
type KeyBindings struct {
	Forward       string `toml:"forward"`
	Backward      string `toml:"backward"`
	StrafeLeft    string `toml:"strafe_left"`
	StrafeRight   string `toml:"strafe_right"`
	Boost         string `toml:"boost"`
	Exit          string `toml:"exit"`
	ToggleSampler string `toml:"toggle_sampler"`
}

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Camera   CameraConfig   `toml:"camera"`
	Renderer RendererConfig `toml:"renderer"`
	Keys     KeyBindings    `toml:"keys"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "nrend",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			MoveSpeed:   10,
			RotSpeed:    1,
			BoostFactor: 4,
		},
		Renderer: RendererConfig{
			ClearColor:  [4]float32{0, 0, 0.3, 1},
			Preset:      "triangle",
			Catalog:     "./res/presets.yaml",
			AutoRotate:  true,
			RotateSpeed: math32.Pi / 2,
		},
		Keys: KeyBindings{
			Forward:       "W",
			Backward:      "S",
			StrafeLeft:    "A",
			StrafeRight:   "D",
			Boost:         "Left Shift",
			Exit:          "Escape",
			ToggleSampler: "F2",
		},
	}
}

// Parse decodes TOML on top of the defaults. Unknown keys are an error.
func Parse(data []byte) (Config, error) {

	cfg := Default()
	err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads the config at path. A missing file yields the defaults and exists=false.
func Load(path string) (cfg Config, exists bool, err error) {

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}

	if err != nil {
		return Config{}, false, fmt.Errorf("reading config '%s': %w", path, err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return Config{}, true, fmt.Errorf("config '%s': %w", path, err)
	}

	return cfg, true, nil
}

func Save(path string, cfg Config) error {

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Camera.MoveSpeed <= 0 || c.Camera.RotSpeed <= 0 {
		return errors.New("camera move_speed and rot_speed must be positive")
	}

	if c.Camera.BoostFactor < 1 {
		return errors.New("camera boost must be at least 1")
	}

	if c.Renderer.RotateSpeed < 0 {
		return errors.New("renderer rotate_speed can not be negative")
	}

	for _, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("renderer clear_color components must be in [0, 1], got %v", c.Renderer.ClearColor)
		}
	}

	keys := []struct{ name, val string }{
		{"forward", c.Keys.Forward},
		{"backward", c.Keys.Backward},
		{"strafe_left", c.Keys.StrafeLeft},
		{"strafe_right", c.Keys.StrafeRight},
		{"boost", c.Keys.Boost},
		{"exit", c.Keys.Exit},
		{"toggle_sampler", c.Keys.ToggleSampler},
	}
	for _, k := range keys {
		if k.val == "" {
			return errors.New("key binding '" + k.name + "' is empty")
		}
	}

	return nil
}

func (c *Config) AspectRatio() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}
