package scene

import (
	"bytes"
	"testing"

	"github.com/bloeys/nrend/camera"
	"github.com/bloeys/nrend/input"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	wvpCalls     int
	worldCalls   int
	invViewCalls int
	toggles      int

	wvp     mgl32.Mat4
	world   mgl32.Mat4
	invView mgl32.Mat4
}

func (f *fakeSink) SetWorldViewProjectionMatrix(m *mgl32.Mat4) {
	f.wvpCalls++
	f.wvp = *m
}

func (f *fakeSink) SetWorldMatrix(m *mgl32.Mat4) {
	f.worldCalls++
	f.world = *m
}

func (f *fakeSink) SetInverseViewMatrix(m *mgl32.Mat4) {
	f.invViewCalls++
	f.invView = *m
}

func (f *fakeSink) ToggleTechnique() {
	f.toggles++
}

type fakeMesh struct {
	name    string
	world   mgl32.Mat4
	sink    *fakeSink
	log     *[]string
	deleted int
}

func newFakeMesh(name string, world mgl32.Mat4, log *[]string) *fakeMesh {
	return &fakeMesh{name: name, world: world, sink: &fakeSink{}, log: log}
}

func (f *fakeMesh) WorldMatrix() mgl32.Mat4 {
	return f.world
}

func (f *fakeMesh) Sink() EffectSink {

	if f.sink == nil {
		return nil
	}

	return f.sink
}

func (f *fakeMesh) Render(ctx renderer.Render) {
	*f.log = append(*f.log, f.name)
}

func (f *fakeMesh) ToggleSamplerState() {
	if f.sink != nil {
		f.sink.ToggleTechnique()
	}
}

func (f *fakeMesh) Translate(v mgl32.Vec3) {
	f.world = mgl32.Translate3D(v.X(), v.Y(), v.Z()).Mul4(f.world)
}

func (f *fakeMesh) Rotate(v mgl32.Vec3) {}

func (f *fakeMesh) Delete() {
	f.deleted++
}

func TestUpdateEmptySceneMovesCamera(t *testing.T) {

	src := &input.Snapshot{}
	src.Down[input.Key_Forward] = true

	s := New(camera.New(mgl32.Vec3{}, 45, 1, src))
	require.NotPanics(t, func() { s.Update(1) })

	assert.InDelta(t, camera.DefaultMoveSpeed, s.Camera.Origin.Z(), 1e-5)
}

func TestUpdatePushesEachMatrixOncePerMesh(t *testing.T) {

	var drawn []string
	s := New(camera.New(mgl32.Vec3{0, 0, -10}, 45, 1.5, nil))

	meshes := []*fakeMesh{
		newFakeMesh("a", mgl32.Ident4(), &drawn),
		newFakeMesh("b", mgl32.Translate3D(1, 2, 3), &drawn),
		newFakeMesh("c", mgl32.Scale3D(2, 2, 2), &drawn),
	}
	for _, m := range meshes {
		s.AddMesh(m)
	}

	s.Update(0.016)

	viewProj := s.Camera.ViewProjection()
	for _, m := range meshes {
		assert.Equal(t, 1, m.sink.wvpCalls, m.name)
		assert.Equal(t, 1, m.sink.worldCalls, m.name)
		assert.Equal(t, 1, m.sink.invViewCalls, m.name)

		assert.Equal(t, m.world, m.sink.world, m.name)
		assert.Equal(t, s.Camera.InvViewMatrix(), m.sink.invView, m.name)
		assert.True(t, viewProj.Mul4(m.world).ApproxEqualThreshold(m.sink.wvp, 1e-5), m.name)
	}

	s.Update(0.016)
	for _, m := range meshes {
		assert.Equal(t, 2, m.sink.wvpCalls, m.name)
		assert.Equal(t, 2, m.sink.worldCalls, m.name)
		assert.Equal(t, 2, m.sink.invViewCalls, m.name)
	}
}

func TestUpdateDoesNotAccumulateAcrossMeshes(t *testing.T) {

	var drawn []string
	s := New(camera.New(mgl32.Vec3{0, 0, -10}, 45, 1, nil))

	first := s.AddMesh(newFakeMesh("first", mgl32.Translate3D(5, 0, 0), &drawn)).(*fakeMesh)
	second := s.AddMesh(newFakeMesh("second", mgl32.Ident4(), &drawn)).(*fakeMesh)

	s.Update(0)

	assert.True(t, s.Camera.ViewProjection().ApproxEqualThreshold(second.sink.wvp, 1e-6))
	assert.False(t, first.sink.wvp.ApproxEqualThreshold(second.sink.wvp, 1e-6))
}

func TestUpdateRecomputesAfterMeshMoves(t *testing.T) {

	var drawn []string
	s := New(camera.Default())
	m := s.AddMesh(newFakeMesh("m", mgl32.Ident4(), &drawn)).(*fakeMesh)

	s.Update(0)
	before := m.sink.wvp

	m.Translate(mgl32.Vec3{0, 0, 5})
	s.Update(0)

	assert.NotEqual(t, before, m.sink.wvp)
	assert.Equal(t, mgl32.Translate3D(0, 0, 5), m.sink.world)
}

func TestIdentityMeshEndToEnd(t *testing.T) {

	var drawn []string
	s := New(camera.New(mgl32.Vec3{}, 90, 1, &input.Snapshot{}))
	m := s.AddMesh(newFakeMesh("m", mgl32.Ident4(), &drawn)).(*fakeMesh)

	s.Update(0)

	assert.Equal(t, mgl32.Ident4(), m.sink.world)
	assert.Equal(t, s.Camera.ProjectionMatrix().Mul4(s.Camera.ViewMatrix()), m.sink.wvp)
	assert.Equal(t, s.Camera.ViewProjection(), m.sink.wvp)
}

func TestMissingSinkIsTolerated(t *testing.T) {

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.ResetOutput()

	var drawn []string
	s := New(camera.Default())

	broken := newFakeMesh("broken", mgl32.Ident4(), &drawn)
	broken.sink = nil
	s.AddMesh(broken)
	ok := s.AddMesh(newFakeMesh("ok", mgl32.Ident4(), &drawn)).(*fakeMesh)

	require.NotPanics(t, func() {
		s.Update(0)
		s.Update(0)
		s.ToggleSamplerState()
		s.Render(nil)
	})

	assert.Equal(t, 2, ok.sink.wvpCalls)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("has no effect")))
	assert.Equal(t, []string{"broken", "ok"}, drawn)
}

func TestRenderInInsertionOrder(t *testing.T) {

	var drawn []string
	s := New(camera.Default())
	for _, name := range []string{"vehicle", "fire", "overlay"} {
		s.AddMesh(newFakeMesh(name, mgl32.Ident4(), &drawn))
	}

	s.Render(nil)
	s.Render(nil)

	assert.Equal(t, []string{"vehicle", "fire", "overlay", "vehicle", "fire", "overlay"}, drawn)
}

func TestToggleSamplerStateForwardsToAllMeshes(t *testing.T) {

	var drawn []string
	s := New(camera.Default())
	a := s.AddMesh(newFakeMesh("a", mgl32.Ident4(), &drawn)).(*fakeMesh)
	b := s.AddMesh(newFakeMesh("b", mgl32.Ident4(), &drawn)).(*fakeMesh)

	s.ToggleSamplerState()
	s.ToggleSamplerState()

	assert.Equal(t, 2, a.sink.toggles)
	assert.Equal(t, 2, b.sink.toggles)
}

func TestDestroyDeletesMeshesOnce(t *testing.T) {

	var drawn []string
	s := New(camera.Default())
	a := s.AddMesh(newFakeMesh("a", mgl32.Ident4(), &drawn)).(*fakeMesh)
	b := s.AddMesh(newFakeMesh("b", mgl32.Ident4(), &drawn)).(*fakeMesh)

	s.Destroy()
	s.Destroy()

	assert.Equal(t, 1, a.deleted)
	assert.Equal(t, 1, b.deleted)
	assert.Empty(t, s.Meshes)
}
