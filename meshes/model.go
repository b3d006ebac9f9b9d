package meshes

import (
	"github.com/bloeys/nrend/effects"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Model is a mesh drawn with an effect at a position, rotation and scale.
//
// Rotation holds euler angles in radians as (pitch, yaw, roll).
type Model struct {
	Mesh     Mesh
	Effect   *effects.Effect
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

var _ scene.Mesh = &Model{}

func NewModel(mesh Mesh, effect *effects.Effect) *Model {
	return &Model{
		Mesh:   mesh,
		Effect: effect,
		Scale:  mgl32.Vec3{1, 1, 1},
	}
}

// WorldMatrix is T * Ry(yaw) * Rx(pitch) * Rz(roll) * S
func (m *Model) WorldMatrix() mgl32.Mat4 {

	rot := mgl32.HomogRotate3DY(m.Rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(m.Rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(m.Rotation.Z()))

	return mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z()))
}

func (m *Model) Sink() scene.EffectSink {

	// A nil *Effect inside the interface would not compare equal to nil
	if m.Effect == nil {
		return nil
	}

	return m.Effect
}

func (m *Model) Render(ctx renderer.Render) {

	if m.Effect == nil || m.Mesh.Vao.Id == 0 {
		return
	}

	ctx.DrawMesh(&m.Mesh, m.Effect)
}

func (m *Model) ToggleSamplerState() {
	if m.Effect != nil {
		m.Effect.ToggleTechnique()
	}
}

func (m *Model) Translate(v mgl32.Vec3) {
	m.Position = m.Position.Add(v)
}

func (m *Model) Rotate(v mgl32.Vec3) {
	m.Rotation = m.Rotation.Add(v)
}

func (m *Model) SetPosition(v mgl32.Vec3) {
	m.Position = v
}

func (m *Model) SetRotation(v mgl32.Vec3) {
	m.Rotation = v
}

func (m *Model) SetScale(v mgl32.Vec3) {
	m.Scale = v
}

// Delete frees the mesh and the effect, both are owned by the model
func (m *Model) Delete() {

	m.Mesh.Delete()

	if m.Effect != nil {
		m.Effect.Delete()
		m.Effect = nil
	}
}
