package rend3dgl

import (
	"errors"
	"fmt"

	"github.com/bloeys/nrend/buffers"
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

type resource struct {
	kind    renderer.ResourceKind
	release func()
}

func (r *resource) Kind() renderer.ResourceKind {
	return r.kind
}

func (r *resource) Release() {

	if r.release == nil {
		return
	}

	r.release()
	r.release = nil
}

var _ renderer.Device = &Device{}

// Device renders into an offscreen framebuffer that is blitted to the window on Present.
//
// The framebuffer stands in for the swap chain's back buffer, and its two renderbuffers
// are the render target and depth-stencil buffers. Attaching a renderbuffer creates its view.
type Device struct {
	Win   *sdl.Window
	GlCtx sdl.GLContext
	VSync bool

	Fbo          buffers.Framebuffer
	DepthStencil buffers.Renderbuffer
	RenderTarget buffers.Renderbuffer

	Rend *Rend3DGL
}

func NewDevice(win *sdl.Window, vsync bool) *Device {
	return &Device{
		Win:   win,
		VSync: vsync,
		Rend:  NewRend3DGL(),
	}
}

func (d *Device) CreateDevice() (renderer.Resource, error) {

	if d.Win == nil {
		return nil, errors.New("no window to create an OpenGL context for")
	}

	glCtx, err := d.Win.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL context: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glCtx)
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}

	d.GlCtx = glCtx
	initOpenGL()

	return &resource{
		kind: renderer.ResourceKind_Device,
		release: func() {
			gl.Flush()
			sdl.GLDeleteContext(d.GlCtx)
			d.GlCtx = nil
		},
	}, nil
}

func initOpenGL() {

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// Geometry is wound clockwise in a left-handed world
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CW)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.ClearColor(0, 0, 0, 1)
}

func (d *Device) CreateSwapChain(width, height int32) (renderer.Resource, error) {

	fbo, err := buffers.NewFramebuffer(width, height)
	if err != nil {
		return nil, err
	}

	d.Fbo = fbo
	d.applyVSync()

	return &resource{
		kind:    renderer.ResourceKind_SwapChain,
		release: d.Fbo.Delete,
	}, nil
}

func (d *Device) applyVSync() {

	if d.VSync {
		sdl.GLSetSwapInterval(1)
	} else {
		sdl.GLSetSwapInterval(0)
	}
}

func (d *Device) CreateDepthStencilBuffer(width, height int32) (renderer.Resource, error) {

	rb, err := buffers.NewRenderbuffer(buffers.FramebufferAttachmentDataFormat_Depth24Stencil8, width, height)
	if err != nil {
		return nil, fmt.Errorf("depth-stencil buffer: %w", err)
	}

	d.DepthStencil = rb
	return &resource{
		kind:    renderer.ResourceKind_DepthStencilBuffer,
		release: d.DepthStencil.Delete,
	}, nil
}

func (d *Device) CreateDepthStencilView() (renderer.Resource, error) {

	if err := d.Fbo.AttachRenderbuffer(&d.DepthStencil); err != nil {
		return nil, fmt.Errorf("depth-stencil view: %w", err)
	}

	return &resource{
		kind:    renderer.ResourceKind_DepthStencilView,
		release: func() { d.Fbo.DetachRenderbuffer(&d.DepthStencil) },
	}, nil
}

func (d *Device) CreateRenderTargetBuffer(width, height int32) (renderer.Resource, error) {

	rb, err := buffers.NewRenderbuffer(buffers.FramebufferAttachmentDataFormat_RGBA8, width, height)
	if err != nil {
		return nil, fmt.Errorf("render target buffer: %w", err)
	}

	d.RenderTarget = rb
	return &resource{
		kind:    renderer.ResourceKind_RenderTargetBuffer,
		release: d.RenderTarget.Delete,
	}, nil
}

func (d *Device) CreateRenderTargetView() (renderer.Resource, error) {

	if err := d.Fbo.AttachRenderbuffer(&d.RenderTarget); err != nil {
		return nil, fmt.Errorf("render target view: %w", err)
	}

	if !d.Fbo.IsComplete() {
		d.Fbo.DetachRenderbuffer(&d.RenderTarget)
		return nil, fmt.Errorf("framebuffer %d is incomplete", d.Fbo.Id)
	}

	return &resource{
		kind:    renderer.ResourceKind_RenderTargetView,
		release: func() { d.Fbo.DetachRenderbuffer(&d.RenderTarget) },
	}, nil
}

func (d *Device) BindTargets() {
	d.Fbo.Bind()
}

func (d *Device) SetViewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) Clear(color renderer.Color, depth float32, stencil uint8) {

	// Masks also gate clears
	gl.DepthMask(true)
	gl.StencilMask(0xFF)
	gl.ColorMask(true, true, true, true)

	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.ClearDepth(float64(depth))
	gl.ClearStencil(int32(stencil))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (d *Device) Context() renderer.Render {
	return d.Rend
}

// Present shows the frame without waiting for vblank unless vsync is on
func (d *Device) Present() {

	winWidth, winHeight := d.Win.GLGetDrawableSize()
	d.Fbo.BlitToDefault(winWidth, winHeight)
	d.Win.GLSwap()

	d.Fbo.Bind()
}
