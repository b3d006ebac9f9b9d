// Package renderer holds the interfaces between the frame loop and a graphics backend.
//
// Render is the per-frame draw context handed to meshes. Device owns the GPU objects
// the frame loop needs (context, swap chain, depth-stencil and render targets).
// renderer/rend3dgl implements both on top of OpenGL.
package renderer

type SubMesh struct {
	BaseVertex int32
	BaseIndex  uint32
	IndexCount int32
}

// Geometry is a vertex array plus the index ranges to draw from it
type Geometry interface {
	VaoId() uint32
	BindVao()
	SubMeshes() []SubMesh
}

// Material binds a shader program with its textures and sampler state
type Material interface {
	MaterialId() uint32
	Bind()
}

type Render interface {
	DrawMesh(geo Geometry, mat Material)
	FrameEnd()
}

type Color struct {
	R, G, B, A float32
}

type ResourceKind int

const (
	ResourceKind_Unknown ResourceKind = iota
	ResourceKind_Device
	ResourceKind_SwapChain
	ResourceKind_DepthStencilBuffer
	ResourceKind_DepthStencilView
	ResourceKind_RenderTargetBuffer
	ResourceKind_RenderTargetView
)

func (k ResourceKind) String() string {

	switch k {
	case ResourceKind_Device:
		return "Device"
	case ResourceKind_SwapChain:
		return "SwapChain"
	case ResourceKind_DepthStencilBuffer:
		return "DepthStencilBuffer"
	case ResourceKind_DepthStencilView:
		return "DepthStencilView"
	case ResourceKind_RenderTargetBuffer:
		return "RenderTargetBuffer"
	case ResourceKind_RenderTargetView:
		return "RenderTargetView"
	default:
		return "Unknown"
	}
}

// Resource is a GPU object acquired during device setup.
// Release must only be called after every resource acquired after it was released.
type Resource interface {
	Kind() ResourceKind
	Release()
}

// Device creates and drives the GPU objects of one window.
//
// The Create* calls are made in declaration order, each one may rely on the ones before it.
type Device interface {
	CreateDevice() (Resource, error)
	CreateSwapChain(width, height int32) (Resource, error)
	CreateDepthStencilBuffer(width, height int32) (Resource, error)
	CreateDepthStencilView() (Resource, error)
	CreateRenderTargetBuffer(width, height int32) (Resource, error)
	CreateRenderTargetView() (Resource, error)

	BindTargets()
	SetViewport(x, y, width, height int32)

	Clear(color Color, depth float32, stencil uint8)
	Context() Render
	Present()
}
