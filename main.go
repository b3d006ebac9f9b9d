package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/bloeys/nrend/config"
	"github.com/bloeys/nrend/engine"
	"github.com/bloeys/nrend/input"
	"github.com/bloeys/nrend/input/sdlinput"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/presets"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/renderer/rend3dgl"
	"github.com/bloeys/nrend/timing"
)

/*
@TODO:
	- Recreate the swap chain framebuffer on window resize instead of stretching the blit
*/

var (
	configPath  = flag.String("config", config.DefaultPath, "path of the TOML config. Created with defaults when missing")
	presetName  = flag.String("preset", "", "preset to show, overrides the config")
	listPresets = flag.Bool("list-presets", false, "print the presets in the catalog and exit")
	cpuProfile  = flag.String("cpuprofile", "", "write a cpu profile to this file")
)

type Game struct {
	Win      *engine.Window
	Cfg      config.Config
	Input    *sdlinput.Source
	Preset   engine.Preset
	Renderer *engine.Renderer
}

func main() {

	flag.Parse()

	cfg, exists, err := config.Load(*configPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load config. Err:", err)
	}

	if !exists {
		if err := config.Save(*configPath, cfg); err != nil {
			logging.WarnLog.Printf("Failed to write default config to '%s'. Err: %v\n", *configPath, err)
		}
	}

	if *presetName != "" {
		cfg.Renderer.Preset = *presetName
	}

	catalog, err := presets.LoadCatalog(cfg.Renderer.Catalog)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load presets. Err:", err)
	}

	if *listPresets {
		for _, name := range catalog.Names() {
			fmt.Println(name)
		}
		return
	}

	//Init engine
	err = engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init nrend. Err:", err)
	}
	defer engine.DeInit()

	bindings, err := sdlinput.BindingsFromConfig(cfg.Keys)
	if err != nil {
		logging.ErrLog.Printf("Invalid key bindings, using the defaults. Err: %v\n", err)
		bindings = sdlinput.DefaultBindings()
	}

	//Create window
	window, err := engine.CreateOpenGLWindowCentered(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, engine.WindowFlags_ALLOW_HIGHDPI)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer window.Destroy()

	game := &Game{
		Win:   window,
		Cfg:   cfg,
		Input: sdlinput.NewSource(bindings),
	}

	game.Preset, err = catalog.Preset(cfg.Renderer.Preset, presets.CameraSettings{
		Input:       game.Input,
		MoveSpeed:   cfg.Camera.MoveSpeed,
		RotSpeed:    cfg.Camera.RotSpeed,
		BoostFactor: cfg.Camera.BoostFactor,
	})
	if err != nil {
		logging.ErrLog.Println(err)
	}

	if *cpuProfile != "" {

		pf, err := os.Create(*cpuProfile)
		if err == nil {
			defer pf.Close()
			pprof.StartCPUProfile(pf)
			defer pprof.StopCPUProfile()
		} else {
			logging.ErrLog.Printf("Creating '%s' failed. CPU profiling will not run. Err=%v\n", *cpuProfile, err)
		}
	}

	engine.Run(game, window)
}

func (g *Game) Init() {

	cc := g.Cfg.Renderer.ClearColor
	dev := rend3dgl.NewDevice(g.Win.SDLWin, g.Cfg.Window.VSync)

	g.Renderer = engine.NewRenderer(g.Win, dev, engine.RendererOptions{
		Preset:            g.Preset,
		ClearColor:        renderer.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
		AutoRotateSpeed:   g.Cfg.Renderer.RotateSpeed,
		DisableAutoRotate: !g.Cfg.Renderer.AutoRotate,
	})
}

func (g *Game) Update() {

	if sdlinput.IsQuitClicked() || g.Input.KeyClicked(input.Key_Exit) {
		engine.Quit()
	}

	if g.Input.KeyClicked(input.Key_ToggleSampler) {
		g.Renderer.ToggleSamplerStates()
	}

	g.Renderer.Update(timing.DT())
}

func (g *Game) Render() {
	g.Renderer.Render()
}

func (g *Game) FrameEnd() {
}

func (g *Game) DeInit() {
	g.Renderer.Destroy()
}
