package buffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementSizes(t *testing.T) {

	tests := []struct {
		dt    ElementType
		count int32
		size  int32
	}{
		{DataTypeFloat32, 1, 4},
		{DataTypeVec2, 2, 8},
		{DataTypeVec3, 3, 12},
		{DataTypeVec4, 4, 16},
		{DataTypeUint32, 1, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.count, tt.dt.CompCount(), tt.dt.String())
		assert.Equal(t, tt.size, tt.dt.Size(), tt.dt.String())
	}
}

func TestSetLayoutOffsetsAndStride(t *testing.T) {

	var vb VertexBuffer
	vb.SetLayout(
		Element{ElementType: DataTypeVec3},
		Element{ElementType: DataTypeVec3},
		Element{ElementType: DataTypeVec3},
		Element{ElementType: DataTypeVec2},
	)

	assert.Equal(t, int32(44), vb.Stride)

	layout := vb.GetLayout()
	offsets := make([]int, len(layout))
	for i := range layout {
		offsets[i] = layout[i].Offset
	}
	assert.Equal(t, []int{0, 12, 24, 36}, offsets)

	// GetLayout returns a copy
	layout[0].Offset = 100
	assert.Equal(t, 0, vb.GetLayout()[0].Offset)
}

func TestFramebufferFormats(t *testing.T) {

	assert.True(t, FramebufferAttachmentDataFormat_RGBA8.IsColorFormat())
	assert.True(t, FramebufferAttachmentDataFormat_SRGBA8.IsColorFormat())
	assert.False(t, FramebufferAttachmentDataFormat_Depth24Stencil8.IsColorFormat())
	assert.True(t, FramebufferAttachmentDataFormat_Depth24Stencil8.IsDepthFormat())
	assert.False(t, FramebufferAttachmentDataFormat_Unknown.IsColorFormat())
	assert.False(t, FramebufferAttachmentDataFormat_Unknown.IsDepthFormat())
}

func TestLayoutStride(t *testing.T) {

	assert.Equal(t, int32(0), LayoutStride(nil))
	assert.Equal(t, int32(28), LayoutStride([]Element{{ElementType: DataTypeVec3}, {ElementType: DataTypeVec4}}))
	assert.Equal(t, int32(20), LayoutStride([]Element{{ElementType: DataTypeVec3}, {ElementType: DataTypeVec2}}))
}
