package rend3dgl

import (
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ renderer.Render = &Rend3DGL{}

// Rend3DGL draws indexed geometry, skipping vao and material binds that are already current
type Rend3DGL struct {
	BoundVaoId uint32
	BoundMatId uint32
}

func (r *Rend3DGL) DrawMesh(geo renderer.Geometry, mat renderer.Material) {

	if geo.VaoId() != r.BoundVaoId {
		geo.BindVao()
		r.BoundVaoId = geo.VaoId()
	}

	if mat.MaterialId() != r.BoundMatId {
		mat.Bind()
		r.BoundMatId = mat.MaterialId()
	}

	subMeshes := geo.SubMeshes()
	for i := 0; i < len(subMeshes); i++ {
		// Offset is in bytes of uint32 indices
		gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, subMeshes[i].IndexCount, gl.UNSIGNED_INT, uintptr(subMeshes[i].BaseIndex)*4, subMeshes[i].BaseVertex)
	}
}

// FrameEnd forgets bound state since materials may be rebound or toggled between frames
func (r3d *Rend3DGL) FrameEnd() {
	r3d.BoundVaoId = 0
	r3d.BoundMatId = 0
}

func NewRend3DGL() *Rend3DGL {
	return &Rend3DGL{}
}
