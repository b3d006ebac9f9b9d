package buffers

import (
	"github.com/bloeys/nrend/assert"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Element is one vertex attribute inside an interleaved buffer (e.g. a Vec3 at an offset of 12 bytes)
type Element struct {
	Offset int
	ElementType
}

// ElementType is the type of a vertex attribute
type ElementType uint8

const (
	DataTypeUnknown ElementType = iota

	DataTypeUint32
	DataTypeInt32
	DataTypeFloat32

	DataTypeVec2
	DataTypeVec3
	DataTypeVec4
)

func (dt ElementType) GLType() uint32 {

	switch dt {
	case DataTypeUint32:
		return gl.UNSIGNED_INT
	case DataTypeInt32:
		return gl.INT
	case DataTypeFloat32, DataTypeVec2, DataTypeVec3, DataTypeVec4:
		return gl.FLOAT
	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// CompSize returns the size in bytes of one component of the type (e.g. for Vec2 its 4)
func (dt ElementType) CompSize() int32 {

	switch dt {
	case DataTypeUint32, DataTypeInt32, DataTypeFloat32, DataTypeVec2, DataTypeVec3, DataTypeVec4:
		return 4
	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// CompCount returns the number of components in the type (e.g. for Vec2 its 2)
func (dt ElementType) CompCount() int32 {

	switch dt {
	case DataTypeUint32, DataTypeInt32, DataTypeFloat32:
		return 1
	case DataTypeVec2:
		return 2
	case DataTypeVec3:
		return 3
	case DataTypeVec4:
		return 4
	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// Size returns the total size in bytes (e.g. for vec3 its 12)
func (dt ElementType) Size() int32 {
	return dt.CompSize() * dt.CompCount()
}

func (dt ElementType) String() string {

	switch dt {
	case DataTypeUint32:
		return "uint32"
	case DataTypeInt32:
		return "int32"
	case DataTypeFloat32:
		return "float32"
	case DataTypeVec2:
		return "Vec2"
	case DataTypeVec3:
		return "Vec3"
	case DataTypeVec4:
		return "Vec4"
	default:
		return "Unknown"
	}
}

// LayoutStride is the size in bytes of one interleaved vertex with the given layout
func LayoutStride(layout []Element) int32 {

	stride := int32(0)
	for i := 0; i < len(layout); i++ {
		stride += layout[i].Size()
	}

	return stride
}
