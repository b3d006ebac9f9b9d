package meshes

import (
	"errors"
	"fmt"

	"github.com/bloeys/nrend/buffers"
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

type VertexPosCol struct {
	Pos   mgl32.Vec3
	Color mgl32.Vec3
}

type VertexPosUV struct {
	Pos mgl32.Vec3
	UV  mgl32.Vec2
}

var (
	PosColLayout = []buffers.Element{
		{ElementType: buffers.DataTypeVec3},
		{ElementType: buffers.DataTypeVec3},
	}

	PosUVLayout = []buffers.Element{
		{ElementType: buffers.DataTypeVec3},
		{ElementType: buffers.DataTypeVec2},
	}
)

func NewPosColMesh(name string, vertices []VertexPosCol, indices []uint32) (Mesh, error) {

	data, err := posColMeshData(vertices, indices)
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh '%s': %w", name, err)
	}

	return uploadMesh(name, data)
}

func NewPosUVMesh(name string, vertices []VertexPosUV, indices []uint32) (Mesh, error) {

	data, err := posUVMeshData(vertices, indices)
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh '%s': %w", name, err)
	}

	return uploadMesh(name, data)
}

func posColMeshData(vertices []VertexPosCol, indices []uint32) (meshData, error) {

	if err := validateIndices(len(vertices), indices); err != nil {
		return meshData{}, err
	}

	floats := make([]float32, 0, len(vertices)*6)
	for i := 0; i < len(vertices); i++ {
		floats = append(floats, vertices[i].Pos[:]...)
		floats = append(floats, vertices[i].Color[:]...)
	}

	return inlineMeshData(PosColLayout, floats, indices), nil
}

func posUVMeshData(vertices []VertexPosUV, indices []uint32) (meshData, error) {

	if err := validateIndices(len(vertices), indices); err != nil {
		return meshData{}, err
	}

	floats := make([]float32, 0, len(vertices)*5)
	for i := 0; i < len(vertices); i++ {
		floats = append(floats, vertices[i].Pos[:]...)
		floats = append(floats, vertices[i].UV[:]...)
	}

	return inlineMeshData(PosUVLayout, floats, indices), nil
}

func inlineMeshData(layout []buffers.Element, vertices []float32, indices []uint32) meshData {

	l := make([]buffers.Element, len(layout))
	copy(l, layout)

	return meshData{
		layout:   l,
		vertices: vertices,
		indices:  indices,
		subMeshes: []renderer.SubMesh{
			{BaseVertex: 0, BaseIndex: 0, IndexCount: int32(len(indices))},
		},
	}
}

func validateIndices(vertexCount int, indices []uint32) error {

	if vertexCount == 0 {
		return errors.New("no vertices given")
	}

	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("index count must be a non-zero multiple of 3, got %d", len(indices))
	}

	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("index %d at position %d is out of range for %d vertices", idx, i, vertexCount)
		}
	}

	return nil
}
