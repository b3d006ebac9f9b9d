package buffers

import "github.com/go-gl/gl/v4.1-core/gl"

// IndexBuffer holds uint32 indices. Count is updated by SetData.
type IndexBuffer struct {
	glBuffer
	Count int32
}

func (ib *IndexBuffer) SetData(indices []uint32) {
	ib.Count = int32(len(indices))
	bufferData(&ib.glBuffer, indices, BufUsage_Static_Draw)
}

func NewIndexBuffer() (IndexBuffer, error) {

	b, err := newGlBuffer(gl.ELEMENT_ARRAY_BUFFER)
	if err != nil {
		return IndexBuffer{}, err
	}

	return IndexBuffer{glBuffer: b}, nil
}
