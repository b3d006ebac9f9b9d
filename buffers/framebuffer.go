package buffers

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type FramebufferAttachmentDataFormat int32

const (
	FramebufferAttachmentDataFormat_Unknown FramebufferAttachmentDataFormat = iota
	FramebufferAttachmentDataFormat_RGBA8
	FramebufferAttachmentDataFormat_SRGBA8
	FramebufferAttachmentDataFormat_Depth24Stencil8
)

func (f FramebufferAttachmentDataFormat) IsColorFormat() bool {
	return f == FramebufferAttachmentDataFormat_RGBA8 ||
		f == FramebufferAttachmentDataFormat_SRGBA8
}

func (f FramebufferAttachmentDataFormat) IsDepthFormat() bool {
	return f == FramebufferAttachmentDataFormat_Depth24Stencil8
}

func (f FramebufferAttachmentDataFormat) GlInternalFormat() uint32 {

	switch f {
	case FramebufferAttachmentDataFormat_RGBA8:
		return gl.RGBA8
	case FramebufferAttachmentDataFormat_SRGBA8:
		return gl.SRGB8_ALPHA8
	case FramebufferAttachmentDataFormat_Depth24Stencil8:
		return gl.DEPTH24_STENCIL8
	default:
		return 0
	}
}

// Renderbuffer is GPU storage that can be attached to a framebuffer but not sampled
type Renderbuffer struct {
	Id     uint32
	Format FramebufferAttachmentDataFormat
	Width  int32
	Height int32
}

func (rb *Renderbuffer) Delete() {

	if rb.Id == 0 {
		return
	}

	gl.DeleteRenderbuffers(1, &rb.Id)
	rb.Id = 0
}

func NewRenderbuffer(format FramebufferAttachmentDataFormat, width, height int32) (Renderbuffer, error) {

	if !format.IsColorFormat() && !format.IsDepthFormat() {
		return Renderbuffer{}, fmt.Errorf("unknown renderbuffer data format. Format=%d", format)
	}

	if width <= 0 || height <= 0 {
		return Renderbuffer{}, fmt.Errorf("invalid renderbuffer size %dx%d", width, height)
	}

	rb := Renderbuffer{
		Format: format,
		Width:  width,
		Height: height,
	}

	gl.GenRenderbuffers(1, &rb.Id)
	if rb.Id == 0 {
		return Renderbuffer{}, fmt.Errorf("failed to generate renderbuffer. GlError=%d", gl.GetError())
	}

	gl.BindRenderbuffer(gl.RENDERBUFFER, rb.Id)
	gl.RenderbufferStorage(gl.RENDERBUFFER, format.GlInternalFormat(), width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		rb.Delete()
		return Renderbuffer{}, fmt.Errorf("failed to allocate renderbuffer storage. GlError=%d", glErr)
	}

	return rb, nil
}

type Framebuffer struct {
	Id     uint32
	Width  int32
	Height int32

	// Attachment points currently in use, keyed by GL attachment enum
	Attachments map[uint32]uint32
}

func (fbo *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.Id)
}

func (fbo *Framebuffer) BindWithViewport() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.Id)
	gl.Viewport(0, 0, fbo.Width, fbo.Height)
}

func (fbo *Framebuffer) UnBind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// IsComplete returns true if OpenGL reports that the fbo is complete/usable.
// Note that this function binds and then unbinds the fbo
func (fbo *Framebuffer) IsComplete() bool {
	fbo.Bind()
	isComplete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
	fbo.UnBind()
	return isComplete
}

func attachmentPoint(format FramebufferAttachmentDataFormat) uint32 {

	if format.IsDepthFormat() {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}

	return gl.COLOR_ATTACHMENT0
}

// AttachRenderbuffer attaches rb to the color or depth-stencil point depending on its format
func (fbo *Framebuffer) AttachRenderbuffer(rb *Renderbuffer) error {

	if rb.Id == 0 {
		return fmt.Errorf("can not attach a deleted renderbuffer to framebuffer %d", fbo.Id)
	}

	if rb.Width != fbo.Width || rb.Height != fbo.Height {
		return fmt.Errorf("renderbuffer size %dx%d does not match framebuffer size %dx%d", rb.Width, rb.Height, fbo.Width, fbo.Height)
	}

	point := attachmentPoint(rb.Format)
	if _, ok := fbo.Attachments[point]; ok {
		return fmt.Errorf("framebuffer %d already has an attachment at 0x%x", fbo.Id, point)
	}

	fbo.Bind()
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, point, gl.RENDERBUFFER, rb.Id)
	fbo.UnBind()

	fbo.Attachments[point] = rb.Id
	return nil
}

// DetachRenderbuffer removes rb from the framebuffer without deleting it
func (fbo *Framebuffer) DetachRenderbuffer(rb *Renderbuffer) {

	point := attachmentPoint(rb.Format)
	if id, ok := fbo.Attachments[point]; !ok || id != rb.Id {
		return
	}

	fbo.Bind()
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, point, gl.RENDERBUFFER, 0)
	fbo.UnBind()

	delete(fbo.Attachments, point)
}

// BlitToDefault copies the color attachment to the window's framebuffer
func (fbo *Framebuffer) BlitToDefault(dstWidth, dstHeight int32) {

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo.Id)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fbo.Width, fbo.Height, 0, 0, dstWidth, dstHeight, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (fbo *Framebuffer) Delete() {

	if fbo.Id == 0 {
		return
	}

	gl.DeleteFramebuffers(1, &fbo.Id)
	fbo.Id = 0
	clear(fbo.Attachments)
}

func NewFramebuffer(width, height int32) (Framebuffer, error) {

	// All attachments share the framebuffer's size
	fbo := Framebuffer{
		Width:       width,
		Height:      height,
		Attachments: make(map[uint32]uint32, 2),
	}

	gl.GenFramebuffers(1, &fbo.Id)
	if fbo.Id == 0 {
		return Framebuffer{}, fmt.Errorf("failed to generate framebuffer. GlError=%d", gl.GetError())
	}

	return fbo, nil
}
