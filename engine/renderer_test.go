package engine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bloeys/nrend/camera"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	w, h int32
}

func (f fakeWindow) Size() (int32, int32) {
	return f.w, f.h
}

type fakeResource struct {
	kind renderer.ResourceKind
	dev  *fakeDevice
}

func (f *fakeResource) Kind() renderer.ResourceKind {
	return f.kind
}

func (f *fakeResource) Release() {
	f.dev.calls = append(f.dev.calls, "release "+f.kind.String())
}

type fakeContext struct {
	dev *fakeDevice
}

func (f *fakeContext) DrawMesh(geo renderer.Geometry, mat renderer.Material) {}

func (f *fakeContext) FrameEnd() {
	f.dev.calls = append(f.dev.calls, "frame end")
}

type fakeDevice struct {
	failOn renderer.ResourceKind
	calls  []string

	clearColor renderer.Color
	clearDepth float32
	viewport   [4]int32
}

func (f *fakeDevice) create(kind renderer.ResourceKind) (renderer.Resource, error) {

	if kind == f.failOn {
		f.calls = append(f.calls, "fail "+kind.String())
		return nil, errors.New("no " + kind.String())
	}

	f.calls = append(f.calls, "create "+kind.String())
	return &fakeResource{kind: kind, dev: f}, nil
}

func (f *fakeDevice) CreateDevice() (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_Device)
}

func (f *fakeDevice) CreateSwapChain(width, height int32) (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_SwapChain)
}

func (f *fakeDevice) CreateDepthStencilBuffer(width, height int32) (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_DepthStencilBuffer)
}

func (f *fakeDevice) CreateDepthStencilView() (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_DepthStencilView)
}

func (f *fakeDevice) CreateRenderTargetBuffer(width, height int32) (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_RenderTargetBuffer)
}

func (f *fakeDevice) CreateRenderTargetView() (renderer.Resource, error) {
	return f.create(renderer.ResourceKind_RenderTargetView)
}

func (f *fakeDevice) BindTargets() {
	f.calls = append(f.calls, "bind targets")
}

func (f *fakeDevice) SetViewport(x, y, width, height int32) {
	f.calls = append(f.calls, "viewport")
	f.viewport = [4]int32{x, y, width, height}
}

func (f *fakeDevice) Clear(color renderer.Color, depth float32, stencil uint8) {
	f.calls = append(f.calls, "clear")
	f.clearColor = color
	f.clearDepth = depth
}

func (f *fakeDevice) Context() renderer.Render {
	return &fakeContext{dev: f}
}

func (f *fakeDevice) Present() {
	f.calls = append(f.calls, "present")
}

type recordingSink struct {
	worlds []mgl32.Mat4
}

func (r *recordingSink) SetWorldViewProjectionMatrix(m *mgl32.Mat4) {}

func (r *recordingSink) SetWorldMatrix(m *mgl32.Mat4) {
	r.worlds = append(r.worlds, *m)
}

func (r *recordingSink) SetInverseViewMatrix(m *mgl32.Mat4) {}

func (r *recordingSink) ToggleTechnique() {}

type fakeMesh struct {
	dev      *fakeDevice
	sink     scene.EffectSink
	rotation mgl32.Vec3
	toggles  int
}

func (f *fakeMesh) WorldMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(f.rotation.Y())
}

func (f *fakeMesh) Sink() scene.EffectSink {
	return f.sink
}

func (f *fakeMesh) Render(ctx renderer.Render) {
	f.dev.calls = append(f.dev.calls, "draw mesh")
}

func (f *fakeMesh) ToggleSamplerState() {
	f.toggles++
}

func (f *fakeMesh) Translate(v mgl32.Vec3) {}

func (f *fakeMesh) Rotate(v mgl32.Vec3) {
	f.rotation = f.rotation.Add(v)
}

func (f *fakeMesh) Delete() {
	f.dev.calls = append(f.dev.calls, "delete mesh")
}

func quietLogs(t *testing.T) *bytes.Buffer {

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(logging.ResetOutput)
	return &buf
}

func meshPreset(m *fakeMesh, rotate bool) Preset {
	return func(width, height int32) (SceneSetup, error) {

		s := scene.New(camera.New(mgl32.Vec3{0, 0, -50}, 45, float32(width)/float32(height), nil))
		s.AddMesh(m)

		setup := SceneSetup{Scene: s}
		if rotate {
			setup.AutoRotate = m
		}

		return setup, nil
	}
}

var acquireOrder = []string{
	"create Device",
	"create SwapChain",
	"create DepthStencilBuffer",
	"create DepthStencilView",
	"create RenderTargetBuffer",
	"create RenderTargetView",
	"bind targets",
	"viewport",
}

func TestRendererInit(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, false)})

	require.True(t, r.IsReady())
	assert.Equal(t, RendererState_Ready, r.State)
	assert.Equal(t, int32(640), r.Width)
	assert.Equal(t, int32(480), r.Height)
	assert.Equal(t, acquireOrder, dev.calls)
	assert.Equal(t, [4]int32{0, 0, 640, 480}, dev.viewport)

	require.NotNil(t, r.Scene)
	assert.Len(t, r.Scene.Meshes, 1)
	assert.Nil(t, r.AutoRotate)
	assert.Equal(t, DefaultClearColor, r.ClearColor)
}

func TestRendererRenderSequence(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, false)})
	dev.calls = nil

	r.Render()

	assert.Equal(t, []string{"clear", "draw mesh", "frame end", "present"}, dev.calls)
	assert.Equal(t, renderer.Color{R: 0, G: 0, B: 0.3, A: 1}, dev.clearColor)
	assert.Equal(t, float32(1), dev.clearDepth)
}

func TestRendererInitFailure(t *testing.T) {

	tests := []struct {
		failOn   renderer.ResourceKind
		acquired []string
	}{
		{renderer.ResourceKind_Device, nil},
		{renderer.ResourceKind_SwapChain, []string{"Device"}},
		{renderer.ResourceKind_DepthStencilBuffer, []string{"Device", "SwapChain"}},
		{renderer.ResourceKind_DepthStencilView, []string{"Device", "SwapChain", "DepthStencilBuffer"}},
		{renderer.ResourceKind_RenderTargetBuffer, []string{"Device", "SwapChain", "DepthStencilBuffer", "DepthStencilView"}},
		{renderer.ResourceKind_RenderTargetView, []string{"Device", "SwapChain", "DepthStencilBuffer", "DepthStencilView", "RenderTargetBuffer"}},
	}

	for _, tt := range tests {
		t.Run(tt.failOn.String(), func(t *testing.T) {

			logs := quietLogs(t)

			presetCalled := false
			preset := func(width, height int32) (SceneSetup, error) {
				presetCalled = true
				return SceneSetup{}, nil
			}

			dev := &fakeDevice{failOn: tt.failOn}
			r := NewRenderer(fakeWindow{800, 600}, dev, RendererOptions{Preset: preset})

			assert.False(t, r.IsReady())
			assert.Equal(t, RendererState_Failed, r.State)
			assert.False(t, presetCalled)
			assert.Nil(t, r.Scene)
			assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("[ERR]")))

			// Everything acquired before the failure is released, newest first
			var want []string
			for _, k := range tt.acquired {
				want = append(want, "create "+k)
			}
			want = append(want, "fail "+tt.failOn.String())
			for i := len(tt.acquired) - 1; i >= 0; i-- {
				want = append(want, "release "+tt.acquired[i])
			}
			assert.Equal(t, want, dev.calls)

			dev.calls = nil
			r.Update(1)
			r.Render()
			r.ToggleSamplerStates()
			r.Destroy()
			assert.Empty(t, dev.calls)
			assert.Equal(t, RendererState_Failed, r.State)
		})
	}
}

func TestRendererInvalidWindowSize(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	r := NewRenderer(fakeWindow{0, 480}, dev, RendererOptions{})

	assert.Equal(t, RendererState_Failed, r.State)
	assert.Empty(t, dev.calls)
}

func TestRendererDestroyOrder(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, true)})
	dev.calls = nil

	r.Destroy()

	assert.Equal(t, []string{
		"delete mesh",
		"release RenderTargetView",
		"release RenderTargetBuffer",
		"release DepthStencilView",
		"release DepthStencilBuffer",
		"release SwapChain",
		"release Device",
	}, dev.calls)
	assert.Nil(t, r.Scene)
	assert.False(t, r.IsReady())

	dev.calls = nil
	r.Destroy()
	r.Render()
	assert.Empty(t, dev.calls)
}

func TestRendererPresetFailureGivesEmptyScene(t *testing.T) {

	logs := quietLogs(t)

	dev := &fakeDevice{}
	preset := func(width, height int32) (SceneSetup, error) {
		return SceneSetup{}, errors.New("vehicle.obj not found")
	}
	r := NewRenderer(fakeWindow{1000, 500}, dev, RendererOptions{Preset: preset})

	require.True(t, r.IsReady())
	require.NotNil(t, r.Scene)
	assert.Empty(t, r.Scene.Meshes)
	assert.InDelta(t, 2, r.Scene.Camera.AspectRatio, 1e-6)
	assert.Contains(t, logs.String(), "vehicle.obj not found")

	dev.calls = nil
	r.Render()
	assert.Equal(t, []string{"clear", "frame end", "present"}, dev.calls)
}

func TestRendererAutoRotate(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, true)})
	require.Equal(t, scene.Mesh(mesh), r.AutoRotate)

	r.Update(0.5)
	r.Update(0.5)

	assert.InDelta(t, math32.Pi/2, mesh.rotation.Y(), 1e-6)
	assert.Zero(t, mesh.rotation.X())
	assert.Zero(t, mesh.rotation.Z())

	other := &fakeMesh{dev: dev}
	r2 := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{
		Preset:            meshPreset(other, true),
		DisableAutoRotate: true,
	})
	r2.Update(1)
	assert.Nil(t, r2.AutoRotate)
	assert.Zero(t, other.rotation.Y())
}

func TestRendererCustomOptions(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{
		Preset:          meshPreset(mesh, true),
		ClearColor:      renderer.Color{R: 1, G: 1, B: 1, A: 1},
		AutoRotateSpeed: 2,
	})

	r.Update(0.25)
	assert.InDelta(t, 0.5, mesh.rotation.Y(), 1e-6)

	r.Render()
	assert.Equal(t, renderer.Color{R: 1, G: 1, B: 1, A: 1}, dev.clearColor)
}

func TestRendererToggleSamplerStates(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, false)})

	r.ToggleSamplerStates()
	r.ToggleSamplerStates()
	r.ToggleSamplerStates()

	assert.Equal(t, 3, mesh.toggles)
}

func TestRendererSceneReleaseRunsBeforeDevice(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	preset := func(width, height int32) (SceneSetup, error) {
		s := scene.New(camera.Default())
		s.AddMesh(mesh)
		return SceneSetup{
			Scene:   s,
			Release: func() { dev.calls = append(dev.calls, "release scene assets") },
		}, nil
	}

	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: preset})
	dev.calls = nil

	r.Destroy()
	r.Destroy()

	require.Len(t, dev.calls, 8)
	assert.Equal(t, []string{"delete mesh", "release scene assets", "release RenderTargetView"}, dev.calls[:3])
	assert.Equal(t, "release Device", dev.calls[7])
}

func TestRendererPresetFailureRunsRelease(t *testing.T) {

	quietLogs(t)

	released := false
	preset := func(width, height int32) (SceneSetup, error) {
		return SceneSetup{Release: func() { released = true }}, errors.New("shader compile failed")
	}

	r := NewRenderer(fakeWindow{640, 480}, &fakeDevice{}, RendererOptions{Preset: preset})
	assert.True(t, r.IsReady())
	assert.True(t, released)
}

func TestRendererUpdateRotatesAfterPush(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	sink := &recordingSink{}
	mesh := &fakeMesh{dev: dev, sink: sink}
	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: meshPreset(mesh, true)})

	r.Update(0.5)

	require.Len(t, sink.worlds, 1)
	assert.Equal(t, mgl32.Ident4(), sink.worlds[0])
	assert.InDelta(t, math32.Pi/4, mesh.rotation.Y(), 1e-6)

	r.Update(0.5)

	require.Len(t, sink.worlds, 2)
	assert.True(t, mgl32.HomogRotate3DY(math32.Pi/4).ApproxEqual(sink.worlds[1]))
	assert.InDelta(t, math32.Pi/2, mesh.rotation.Y(), 1e-6)
}

func TestRendererPresetFailureDestroysScene(t *testing.T) {

	quietLogs(t)

	dev := &fakeDevice{}
	mesh := &fakeMesh{dev: dev}
	preset := func(width, height int32) (SceneSetup, error) {
		s := scene.New(camera.Default())
		s.AddMesh(mesh)
		return SceneSetup{
			Scene:   s,
			Release: func() { dev.calls = append(dev.calls, "release scene assets") },
		}, errors.New("texture missing")
	}

	r := NewRenderer(fakeWindow{640, 480}, dev, RendererOptions{Preset: preset})

	require.True(t, r.IsReady())
	assert.Empty(t, r.Scene.Meshes)
	assert.Equal(t, append(append([]string{}, acquireOrder...), "delete mesh", "release scene assets"), dev.calls)
}
