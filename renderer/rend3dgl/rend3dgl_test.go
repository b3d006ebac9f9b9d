package rend3dgl

import (
	"testing"

	"github.com/bloeys/nrend/renderer"
	"github.com/stretchr/testify/assert"
)

type fakeGeometry struct {
	id    uint32
	binds int
}

func (g *fakeGeometry) VaoId() uint32 { return g.id }
func (g *fakeGeometry) BindVao() { g.binds++ }
func (g *fakeGeometry) SubMeshes() []renderer.SubMesh { return nil }

type fakeMaterial struct {
	id    uint32
	binds int
}

func (m *fakeMaterial) MaterialId() uint32 { return m.id }
func (m *fakeMaterial) Bind() { m.binds++ }

func TestDrawMeshSkipsRedundantBinds(t *testing.T) {

	r := NewRend3DGL()
	geoA := &fakeGeometry{id: 1}
	geoB := &fakeGeometry{id: 2}
	mat := &fakeMaterial{id: 5}

	r.DrawMesh(geoA, mat)
	r.DrawMesh(geoA, mat)
	assert.Equal(t, 1, geoA.binds)
	assert.Equal(t, 1, mat.binds)

	r.DrawMesh(geoB, mat)
	assert.Equal(t, 1, geoB.binds)
	assert.Equal(t, 1, mat.binds)

	r.FrameEnd()
	assert.Equal(t, uint32(0), r.BoundVaoId)
	assert.Equal(t, uint32(0), r.BoundMatId)

	r.DrawMesh(geoB, mat)
	assert.Equal(t, 2, geoB.binds)
	assert.Equal(t, 2, mat.binds)
}

func TestResourceReleaseOnce(t *testing.T) {

	calls := 0
	res := &resource{
		kind:    renderer.ResourceKind_SwapChain,
		release: func() { calls++ },
	}

	assert.Equal(t, renderer.ResourceKind_SwapChain, res.Kind())

	res.Release()
	res.Release()
	assert.Equal(t, 1, calls)
}

func TestCreateDeviceWithoutWindow(t *testing.T) {

	d := NewDevice(nil, false)
	res, err := d.CreateDevice()

	assert.Error(t, err)
	assert.Nil(t, res)
}
