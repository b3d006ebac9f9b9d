package presets

import (
	"github.com/bloeys/nrend/meshes"
	"github.com/go-gl/mathgl/mgl32"
)

var inlineGeometries = map[string]func(name string) (meshes.Mesh, error){
	"triangle":  newTriangleMesh,
	"quad_grid": newQuadGridMesh,
}

// Clockwise when seen from -Z
var (
	triangleVertices = []meshes.VertexPosCol{
		{Pos: mgl32.Vec3{0, 3, 2}, Color: mgl32.Vec3{1, 0, 0}},
		{Pos: mgl32.Vec3{3, -3, 2}, Color: mgl32.Vec3{0, 0, 1}},
		{Pos: mgl32.Vec3{-3, -3, 2}, Color: mgl32.Vec3{0, 1, 0}},
	}
	triangleIndices = []uint32{0, 1, 2}
)

// A 3x3 grid of vertices making a 6x6 quad out of 8 triangles, UV (0,0) at the top left
var (
	quadGridVertices = []meshes.VertexPosUV{
		{Pos: mgl32.Vec3{-3, 3, -2}, UV: mgl32.Vec2{0, 0}},
		{Pos: mgl32.Vec3{0, 3, -2}, UV: mgl32.Vec2{0.5, 0}},
		{Pos: mgl32.Vec3{3, 3, -2}, UV: mgl32.Vec2{1, 0}},
		{Pos: mgl32.Vec3{-3, 0, -2}, UV: mgl32.Vec2{0, 0.5}},
		{Pos: mgl32.Vec3{0, 0, -2}, UV: mgl32.Vec2{0.5, 0.5}},
		{Pos: mgl32.Vec3{3, 0, -2}, UV: mgl32.Vec2{1, 0.5}},
		{Pos: mgl32.Vec3{-3, -3, -2}, UV: mgl32.Vec2{0, 1}},
		{Pos: mgl32.Vec3{0, -3, -2}, UV: mgl32.Vec2{0.5, 1}},
		{Pos: mgl32.Vec3{3, -3, -2}, UV: mgl32.Vec2{1, 1}},
	}
	quadGridIndices = []uint32{
		3, 0, 1, 1, 4, 3, 4, 1, 2,
		2, 5, 4, 6, 3, 4, 4, 7, 6,
		7, 4, 5, 5, 8, 7,
	}
)

func newTriangleMesh(name string) (meshes.Mesh, error) {
	return meshes.NewPosColMesh(name, triangleVertices, triangleIndices)
}

func newQuadGridMesh(name string) (meshes.Mesh, error) {
	return meshes.NewPosUVMesh(name, quadGridVertices, quadGridIndices)
}
