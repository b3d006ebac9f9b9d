package engine

import (
	"fmt"

	"github.com/bloeys/nrend/camera"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type RendererState int

const (
	RendererState_Uninitialized RendererState = iota
	RendererState_Initializing
	RendererState_Ready
	RendererState_Failed
)

func (s RendererState) String() string {

	switch s {
	case RendererState_Uninitialized:
		return "Uninitialized"
	case RendererState_Initializing:
		return "Initializing"
	case RendererState_Ready:
		return "Ready"
	case RendererState_Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

var DefaultClearColor = renderer.Color{R: 0, G: 0, B: 0.3, A: 1}

const DefaultAutoRotateSpeed = math32.Pi / 2

// WindowSizer is anything the renderer can take its backbuffer size from
type WindowSizer interface {
	Size() (width, height int32)
}

// SceneSetup is what a preset builds
type SceneSetup struct {
	Scene *scene.Scene

	// AutoRotate is optional. When set it is spun around the Y axis every update.
	AutoRotate scene.Mesh

	// Release is optional. It frees what the scene's meshes share (e.g. textures) and runs
	// after the scene is destroyed but before any device resource is released.
	Release func()
}

type Preset func(width, height int32) (SceneSetup, error)

type RendererOptions struct {
	// Preset builds the scene once the device is ready. Nil gives an empty scene.
	Preset Preset

	// ClearColor defaults to DefaultClearColor when zero
	ClearColor renderer.Color

	// AutoRotateSpeed is in radians per second, defaults to DefaultAutoRotateSpeed when zero
	AutoRotateSpeed   float32
	DisableAutoRotate bool
}

// Renderer owns a device, the GPU objects created from it and the active scene.
//
// Resources are released in the reverse order they were acquired in
// (views, then buffers, then the swap chain, then the device/context),
// because each one holds references to the ones created before it.
type Renderer struct {
	Width  int32
	Height int32
	State  RendererState

	Scene           *scene.Scene
	AutoRotate      scene.Mesh
	sceneRelease    func()
	AutoRotateSpeed float32
	ClearColor      renderer.Color

	Dev       renderer.Device
	resources []renderer.Resource
}

// NewRenderer never fails. When device setup fails the returned renderer is disabled:
// IsReady is false and Update/Render do nothing.
func NewRenderer(win WindowSizer, dev renderer.Device, opts RendererOptions) *Renderer {

	r := &Renderer{
		State:           RendererState_Uninitialized,
		ClearColor:      opts.ClearColor,
		AutoRotateSpeed: opts.AutoRotateSpeed,
		Dev:             dev,
		resources:       make([]renderer.Resource, 0, 6),
	}
	r.Width, r.Height = win.Size()

	if r.ClearColor == (renderer.Color{}) {
		r.ClearColor = DefaultClearColor
	}

	if r.AutoRotateSpeed == 0 {
		r.AutoRotateSpeed = DefaultAutoRotateSpeed
	}

	r.State = RendererState_Initializing
	err := r.initDevice()
	if err != nil {
		r.releaseResources()
		r.State = RendererState_Failed
		logging.ErrLog.Printf("Renderer initialization failed, nothing will be drawn. Err: %v\n", err)
		return r
	}

	r.Scene, r.AutoRotate, r.sceneRelease = r.buildScene(opts.Preset)
	if opts.DisableAutoRotate {
		r.AutoRotate = nil
	}

	r.State = RendererState_Ready
	logging.InfoLog.Printf("Renderer is initialized and ready (%dx%d)\n", r.Width, r.Height)
	return r
}

func (r *Renderer) initDevice() error {

	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", r.Width, r.Height)
	}

	steps := []struct {
		name   string
		create func() (renderer.Resource, error)
	}{
		{"device", r.Dev.CreateDevice},
		{"swap chain", func() (renderer.Resource, error) { return r.Dev.CreateSwapChain(r.Width, r.Height) }},
		{"depth-stencil buffer", func() (renderer.Resource, error) { return r.Dev.CreateDepthStencilBuffer(r.Width, r.Height) }},
		{"depth-stencil view", r.Dev.CreateDepthStencilView},
		{"render target buffer", func() (renderer.Resource, error) { return r.Dev.CreateRenderTargetBuffer(r.Width, r.Height) }},
		{"render target view", r.Dev.CreateRenderTargetView},
	}

	for _, s := range steps {

		res, err := s.create()
		if err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}

		r.resources = append(r.resources, res)
	}

	r.Dev.BindTargets()
	r.Dev.SetViewport(0, 0, r.Width, r.Height)
	return nil
}

func (r *Renderer) buildScene(preset Preset) (*scene.Scene, scene.Mesh, func()) {

	if preset != nil {

		setup, err := preset(r.Width, r.Height)
		if err == nil && setup.Scene != nil {
			return setup.Scene, setup.AutoRotate, setup.Release
		}

		if setup.Scene != nil {
			setup.Scene.Destroy()
		}
		if setup.Release != nil {
			setup.Release()
		}

		if err == nil {
			err = fmt.Errorf("preset returned no scene")
		}
		logging.ErrLog.Printf("Failed to build scene, using an empty one. Err: %v\n", err)
	}

	cam := camera.Default()
	cam.SetAspectRatio(float32(r.Width) / float32(r.Height))
	return scene.New(cam), nil, nil
}

func (r *Renderer) releaseResources() {

	for i := len(r.resources) - 1; i >= 0; i-- {
		r.resources[i].Release()
		r.resources[i] = nil
	}

	r.resources = r.resources[:0]
}

func (r *Renderer) IsReady() bool {
	return r.State == RendererState_Ready
}

func (r *Renderer) Update(dt float32) {

	if !r.IsReady() {
		return
	}

	// Matrices are pushed before rotating, so a rotation shows up on the next frame
	r.Scene.Update(dt)

	if r.AutoRotate != nil {
		r.AutoRotate.Rotate(mgl32.Vec3{0, r.AutoRotateSpeed * dt, 0})
	}
}

func (r *Renderer) Render() {

	if !r.IsReady() {
		return
	}

	r.Dev.Clear(r.ClearColor, 1, 0)

	ctx := r.Dev.Context()
	r.Scene.Render(ctx)
	ctx.FrameEnd()

	r.Dev.Present()
}

func (r *Renderer) ToggleSamplerStates() {

	if !r.IsReady() {
		return
	}

	r.Scene.ToggleSamplerState()
}

// Destroy deletes the scene then releases device resources newest first.
// Calling it more than once is fine.
func (r *Renderer) Destroy() {

	if r.Scene != nil {
		r.Scene.Destroy()
		r.Scene = nil
	}
	r.AutoRotate = nil

	if r.sceneRelease != nil {
		r.sceneRelease()
		r.sceneRelease = nil
	}

	r.releaseResources()

	if r.State == RendererState_Ready {
		r.State = RendererState_Uninitialized
	}
}
