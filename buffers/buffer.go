package buffers

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glBuffer is a GL buffer object that is always bound to the same target
type glBuffer struct {
	Id     uint32
	target uint32
}

func newGlBuffer(target uint32) (glBuffer, error) {

	b := glBuffer{target: target}

	gl.GenBuffers(1, &b.Id)
	if b.Id == 0 {
		return glBuffer{}, fmt.Errorf("failed to create OpenGL buffer for target 0x%x. GlError=%d", target, gl.GetError())
	}

	return b, nil
}

func (b *glBuffer) Bind() {
	gl.BindBuffer(b.target, b.Id)
}

func (b *glBuffer) UnBind() {
	gl.BindBuffer(b.target, 0)
}

func (b *glBuffer) Delete() {

	if b.Id == 0 {
		return
	}

	gl.DeleteBuffers(1, &b.Id)
	b.Id = 0
}

// bufferData binds b and replaces its whole store with values
func bufferData[T uint32 | float32](b *glBuffer, values []T, usage BufUsage) {

	b.Bind()

	if len(values) == 0 {
		gl.BufferData(b.target, 0, nil, usage.ToGL())
		return
	}

	// Both element types are 4 bytes
	gl.BufferData(b.target, len(values)*4, gl.Ptr(&values[0]), usage.ToGL())
}
