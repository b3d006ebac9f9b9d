package scene

import (
	"github.com/bloeys/nrend/camera"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// EffectSink receives the per-frame matrices of a mesh's shader
type EffectSink interface {
	SetWorldViewProjectionMatrix(m *mgl32.Mat4)
	SetWorldMatrix(m *mgl32.Mat4)
	SetInverseViewMatrix(m *mgl32.Mat4)
	ToggleTechnique()
}

type Mesh interface {
	WorldMatrix() mgl32.Mat4
	// Sink returns nil when the mesh's effect failed to load
	Sink() EffectSink
	Render(ctx renderer.Render)
	ToggleSamplerState()
	Translate(v mgl32.Vec3)
	Rotate(v mgl32.Vec3)
	Delete()
}

// Scene owns a camera and an ordered list of meshes, drawn in insertion order
type Scene struct {
	Camera camera.Camera
	Meshes []Mesh

	// Indices of meshes already reported as missing an effect
	sinkWarned map[int]bool
}

func New(cam camera.Camera) *Scene {
	return &Scene{
		Camera:     cam,
		Meshes:     make([]Mesh, 0),
		sinkWarned: make(map[int]bool),
	}
}

// AddMesh transfers ownership of m to the scene
func (s *Scene) AddMesh(m Mesh) Mesh {
	s.Meshes = append(s.Meshes, m)
	return m
}

// Update moves the camera then pushes fresh matrices to every mesh
func (s *Scene) Update(dt float32) {

	s.Camera.Update(dt)

	viewProj := s.Camera.ViewProjection()
	invView := s.Camera.InvViewMatrix()

	for i := 0; i < len(s.Meshes); i++ {

		m := s.Meshes[i]

		sink := m.Sink()
		if sink == nil {

			if s.sinkWarned == nil {
				s.sinkWarned = make(map[int]bool)
			}

			if !s.sinkWarned[i] {
				logging.WarnLog.Printf("Mesh %d has no effect, its matrices will not be set\n", i)
				s.sinkWarned[i] = true
			}

			continue
		}

		world := m.WorldMatrix()
		wvp := viewProj.Mul4(world)

		sink.SetWorldViewProjectionMatrix(&wvp)
		sink.SetWorldMatrix(&world)
		sink.SetInverseViewMatrix(&invView)
	}
}

func (s *Scene) Render(ctx renderer.Render) {
	for i := 0; i < len(s.Meshes); i++ {
		s.Meshes[i].Render(ctx)
	}
}

func (s *Scene) ToggleSamplerState() {
	for i := 0; i < len(s.Meshes); i++ {
		s.Meshes[i].ToggleSamplerState()
	}
}

// Destroy deletes every owned mesh. The scene is empty afterwards.
func (s *Scene) Destroy() {

	for i := 0; i < len(s.Meshes); i++ {
		s.Meshes[i].Delete()
	}

	clear(s.Meshes)
	s.Meshes = s.Meshes[:0]
	clear(s.sinkWarned)
}
