package meshes

import (
	"errors"
	"fmt"

	"github.com/bloeys/assimp-go/asig"
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/assert"
	"github.com/bloeys/nrend/buffers"
	"github.com/bloeys/nrend/renderer"
)

type Mesh struct {
	Name string
	/*
		Vao of a loaded model has the following shader attribute layout:
			- Loc0: Pos
			- Loc1: Normal
			- Loc2: Tangent
			- Loc3: UV0
			- (Optional) Loc4: Color

		Inline meshes use Loc0 for the position and Loc1 for either a color or a UV.
	*/
	Vao           buffers.VertexArray
	SubMeshesList []renderer.SubMesh
}

var _ renderer.Geometry = &Mesh{}

func (m *Mesh) VaoId() uint32 {
	return m.Vao.Id
}

func (m *Mesh) BindVao() {
	m.Vao.Bind()
}

func (m *Mesh) SubMeshes() []renderer.SubMesh {
	return m.SubMeshesList
}

func (m *Mesh) Delete() {
	m.Vao.Delete()
	m.SubMeshesList = nil
}

var (
	// DefaultMeshLoadFlags are the flags always applied when loading a new mesh regardless
	// of what post process flags are used when loading a mesh.
	//
	// Defaults to: asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace | asig.PostProcessFlipUVs;
	// Note: the shading shader expects tangents to be there, and textures are uploaded top row first
	DefaultMeshLoadFlags asig.PostProcess = asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace | asig.PostProcessFlipUVs

	// LeftHandedLoadFlags convert right-handed, counter clockwise files (e.g. OBJ) into the
	// left-handed, clockwise convention the renderer draws with
	LeftHandedLoadFlags asig.PostProcess = asig.PostProcessMakeLeftHanded | asig.PostProcessFlipWindingOrder
)

// meshData is the cpu side of a mesh before upload
type meshData struct {
	layout    []buffers.Element
	vertices  []float32
	indices   []uint32
	subMeshes []renderer.SubMesh
}

func NewMesh(name, modelPath string, postProcessFlags asig.PostProcess) (Mesh, error) {

	finalPostProcessFlags := DefaultMeshLoadFlags | postProcessFlags

	scene, release, err := asig.ImportFile(modelPath, finalPostProcessFlags)
	if err != nil {
		return Mesh{}, fmt.Errorf("failed to load model '%s': %w", modelPath, err)
	}
	defer release()

	data, err := buildMeshData(scene.Meshes)
	if err != nil {
		return Mesh{}, fmt.Errorf("model '%s': %w", modelPath, err)
	}

	return uploadMesh(name, data)
}

func buildMeshData(sceneMeshes []*asig.Mesh) (meshData, error) {

	if len(sceneMeshes) == 0 {
		return meshData{}, errors.New("no meshes found")
	}

	// Estimate a useful prealloc capacity based on the first submesh that has vertex pos+normals+tangents+texCoords
	vertexBufDataCapacity := len(sceneMeshes[0].Vertices) * (3 + 3 + 3 + 2)

	// Increase capacity depending on what the mesh has
	if len(sceneMeshes[0].ColorSets) > 0 && len(sceneMeshes[0].ColorSets[0]) > 0 {
		vertexBufDataCapacity += len(sceneMeshes[0].Vertices) * 4
	}

	data := meshData{
		vertices:  make([]float32, 0, vertexBufDataCapacity),
		indices:   make([]uint32, 0, len(sceneMeshes[0].Faces)*3),
		subMeshes: make([]renderer.SubMesh, 0, len(sceneMeshes)),
	}

	stride := int32(0)
	for i := 0; i < len(sceneMeshes); i++ {

		sceneMesh := sceneMeshes[i]
		if len(sceneMesh.Vertices) == 0 || len(sceneMesh.Faces) == 0 {
			return meshData{}, fmt.Errorf("submesh %d has no vertices or faces", i)
		}

		// We always want normals, tangents and UV0
		if len(sceneMesh.Normals) == 0 {
			sceneMesh.Normals = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		if len(sceneMesh.Tangents) == 0 {
			sceneMesh.Tangents = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		if len(sceneMesh.TexCoords[0]) == 0 {
			sceneMesh.TexCoords[0] = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		hasColorSet0 := len(sceneMesh.ColorSets) > 0 && len(sceneMesh.ColorSets[0]) > 0

		layoutToUse := []buffers.Element{
			{ElementType: buffers.DataTypeVec3}, // Position
			{ElementType: buffers.DataTypeVec3}, // Normals
			{ElementType: buffers.DataTypeVec3}, // Tangents
			{ElementType: buffers.DataTypeVec2}, // UV0
		}

		if hasColorSet0 {
			layoutToUse = append(layoutToUse, buffers.Element{ElementType: buffers.DataTypeVec4})
		}

		if i == 0 {
			data.layout = layoutToUse
			stride = buffers.LayoutStride(data.layout)
		} else if !sameLayout(data.layout, layoutToUse) {

			// @NOTE: This requirement is because we are using one VAO+VBO for all
			// the meshes and so the buffer must have one format.
			return meshData{}, fmt.Errorf("vertex layout of submesh %d does not equal vertex layout of the first submesh. Original layout: %v; This layout: %v", i, data.layout, layoutToUse)
		}

		arrs := []arrToInterleave{
			{V3s: sceneMesh.Vertices},
			{V3s: sceneMesh.Normals},
			{V3s: sceneMesh.Tangents},
			{V2s: v3sToV2s(sceneMesh.TexCoords[0])},
		}

		if hasColorSet0 {
			arrs = append(arrs, arrToInterleave{V4s: sceneMesh.ColorSets[0]})
		}

		indices, err := flattenFaces(sceneMesh.Faces)
		if err != nil {
			return meshData{}, fmt.Errorf("submesh %d: %w", i, err)
		}

		data.subMeshes = append(data.subMeshes, renderer.SubMesh{

			// Index of the vertex to start from (e.g. if index buffer says use vertex 5, and BaseVertex=3, the vertex used will be vertex 8)
			BaseVertex: int32(len(data.vertices)*4) / stride,
			// Which index (in the index buffer) to start from
			BaseIndex: uint32(len(data.indices)),
			// How many indices in this submesh
			IndexCount: int32(len(indices)),
		})

		data.vertices = append(data.vertices, interleave(arrs...)...)
		data.indices = append(data.indices, indices...)
	}

	return data, nil
}

func uploadMesh(name string, data meshData) (Mesh, error) {

	vao, err := buffers.NewVertexArray()
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh '%s': %w", name, err)
	}

	vbo, err := buffers.NewVertexBuffer(data.layout...)
	if err != nil {
		vao.Delete()
		return Mesh{}, fmt.Errorf("mesh '%s': %w", name, err)
	}

	ibo, err := buffers.NewIndexBuffer()
	if err != nil {
		vbo.Delete()
		vao.Delete()
		return Mesh{}, fmt.Errorf("mesh '%s': %w", name, err)
	}

	vbo.SetData(data.vertices, buffers.BufUsage_Static_Draw)
	ibo.SetData(data.indices)

	vao.AddVertexBuffer(vbo)
	vao.SetIndexBuffer(ibo)

	// This is needed so that if you load meshes one after the other the
	// following mesh doesn't attach its vbo/ibo to this vao
	vao.UnBind()

	return Mesh{
		Name:          name,
		Vao:           vao,
		SubMeshesList: data.subMeshes,
	}, nil
}

func sameLayout(a, b []buffers.Element) bool {

	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		if a[i].ElementType != b[i].ElementType {
			return false
		}
	}

	return true
}

func v3sToV2s(v3s []gglm.Vec3) []gglm.Vec2 {

	v2s := make([]gglm.Vec2, len(v3s))
	for i := 0; i < len(v3s); i++ {
		v2s[i] = gglm.Vec2{
			Data: [2]float32{v3s[i].X(), v3s[i].Y()},
		}
	}

	return v2s
}

type arrToInterleave struct {
	V2s []gglm.Vec2
	V3s []gglm.Vec3
	V4s []gglm.Vec4
}

func (a *arrToInterleave) len() int {

	if len(a.V2s) > 0 {
		return len(a.V2s)
	} else if len(a.V3s) > 0 {
		return len(a.V3s)
	}

	return len(a.V4s)
}

func (a *arrToInterleave) get(i int) []float32 {

	assert.T(len(a.V2s) == 0 || len(a.V3s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")
	assert.T(len(a.V2s) == 0 || len(a.V4s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")
	assert.T(len(a.V3s) == 0 || len(a.V4s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")

	if len(a.V2s) > 0 {
		return a.V2s[i].Data[:]
	} else if len(a.V3s) > 0 {
		return a.V3s[i].Data[:]
	} else {
		return a.V4s[i].Data[:]
	}
}

func interleave(arrs ...arrToInterleave) []float32 {

	assert.T(len(arrs) > 0, "No input sent to interleave")

	elementCount := arrs[0].len()
	assert.T(elementCount > 0, "Interleave arrays are empty")

	//Calculate final size of the float buffer
	totalSize := 0
	for i := 0; i < len(arrs); i++ {

		assert.T(arrs[i].len() == elementCount, "Mesh vertex data given to interleave is not the same length")

		if len(arrs[i].V2s) > 0 {
			totalSize += len(arrs[i].V2s) * 2
		} else if len(arrs[i].V3s) > 0 {
			totalSize += len(arrs[i].V3s) * 3
		} else {
			totalSize += len(arrs[i].V4s) * 4
		}
	}

	out := make([]float32, 0, totalSize)
	for i := 0; i < elementCount; i++ {
		for arrToUse := 0; arrToUse < len(arrs); arrToUse++ {
			out = append(out, arrs[arrToUse].get(i)...)
		}
	}

	return out
}

func flattenFaces(faces []asig.Face) ([]uint32, error) {

	uints := make([]uint32, len(faces)*3)
	for i := 0; i < len(faces); i++ {

		if len(faces[i].Indices) != 3 {
			return nil, fmt.Errorf("face %d doesn't have 3 indices. Index count: %d", i, len(faces[i].Indices))
		}

		uints[i*3+0] = uint32(faces[i].Indices[0])
		uints[i*3+1] = uint32(faces[i].Indices[1])
		uints[i*3+2] = uint32(faces[i].Indices[2])
	}

	return uints, nil
}
