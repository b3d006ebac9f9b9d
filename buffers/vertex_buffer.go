package buffers

import "github.com/go-gl/gl/v4.1-core/gl"

// VertexBuffer holds interleaved float32 vertices described by its layout
type VertexBuffer struct {
	glBuffer
	Stride int32
	layout []Element
}

func (vb *VertexBuffer) SetData(vertices []float32, usage BufUsage) {
	bufferData(&vb.glBuffer, vertices, usage)
}

// GetLayout returns a copy of the layout with computed offsets
func (vb *VertexBuffer) GetLayout() []Element {
	e := make([]Element, len(vb.layout))
	copy(e, vb.layout)
	return e
}

// SetLayout computes offsets and the stride of the interleaved layout. It makes no GL calls.
func (vb *VertexBuffer) SetLayout(layout ...Element) {

	vb.layout = make([]Element, len(layout))
	copy(vb.layout, layout)

	vb.Stride = 0
	for i := 0; i < len(vb.layout); i++ {
		vb.layout[i].Offset = int(vb.Stride)
		vb.Stride += vb.layout[i].Size()
	}
}

func NewVertexBuffer(layout ...Element) (VertexBuffer, error) {

	b, err := newGlBuffer(gl.ARRAY_BUFFER)
	if err != nil {
		return VertexBuffer{}, err
	}

	vb := VertexBuffer{glBuffer: b}
	vb.SetLayout(layout...)
	return vb, nil
}
