// Package camera implements a free-fly perspective camera.
//
// The camera is left-handed: it looks down +Z with +Y up and +X to the right.
// Orientation is stored as accumulated pitch and yaw, and the basis vectors are
// rebuilt from those angles whenever the camera moves.
package camera

import (
	"github.com/bloeys/nrend/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultNear        = 0.1
	DefaultFar         = 100
	DefaultMoveSpeed   = 10
	DefaultRotSpeed    = 1
	DefaultBoostFactor = 4
)

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	WorldForward = mgl32.Vec3{0, 0, 1}
)

type Camera struct {
	Origin  mgl32.Vec3
	Forward mgl32.Vec3
	Up      mgl32.Vec3
	Right   mgl32.Vec3

	// FovAngle is the vertical field of view in degrees, Fov is tan(FovAngle/2)
	FovAngle    float32
	Fov         float32
	AspectRatio float32

	TotalPitch float32
	TotalYaw   float32

	Near float32
	Far  float32

	MoveSpeed   float32
	RotSpeed    float32
	BoostFactor float32

	Input input.Source

	viewMat    mgl32.Mat4
	invViewMat mgl32.Mat4
	projMat    mgl32.Mat4
}

// New creates a camera at origin looking down +Z. src may be nil, in which case Update does nothing.
func New(origin mgl32.Vec3, fovAngle, aspectRatio float32, src input.Source) Camera {

	c := Camera{
		Origin:      origin,
		Forward:     WorldForward,
		FovAngle:    fovAngle,
		Fov:         fovTan(fovAngle),
		AspectRatio: aspectRatio,
		Near:        DefaultNear,
		Far:         DefaultFar,
		MoveSpeed:   DefaultMoveSpeed,
		RotSpeed:    DefaultRotSpeed,
		BoostFactor: DefaultBoostFactor,
		Input:       src,
	}

	c.calcViewMat()
	c.calcProjMat()
	return c
}

// Default is a camera at the world origin with a 90 degree fov and a square aspect ratio
func Default() Camera {
	return New(mgl32.Vec3{}, 90, 1, nil)
}

// Update integrates this frame's input. Without movement keys or mouse buttons it leaves
// the camera untouched.
func (c *Camera) Update(dt float32) {

	if c.Input == nil {
		return
	}

	mouseX, mouseY, btns := c.Input.RelativeMouse()

	fwdDown := c.Input.KeyDown(input.Key_Forward)
	backDown := c.Input.KeyDown(input.Key_Backward)
	leftDown := c.Input.KeyDown(input.Key_StrafeLeft)
	rightDown := c.Input.KeyDown(input.Key_StrafeRight)

	if btns == input.MouseButtons_None && !fwdDown && !backDown && !leftDown && !rightDown {
		return
	}

	moveSpeed := c.MoveSpeed * dt
	if c.Input.KeyDown(input.Key_Boost) {
		moveSpeed *= c.BoostFactor
	}
	rotSpeed := c.RotSpeed * dt

	if fwdDown {
		c.Origin = c.Origin.Add(c.Forward.Mul(moveSpeed))
	}

	if backDown {
		c.Origin = c.Origin.Sub(c.Forward.Mul(moveSpeed))
	}

	if rightDown {
		c.Origin = c.Origin.Add(c.Right.Mul(moveSpeed))
	}

	if leftDown {
		c.Origin = c.Origin.Sub(c.Right.Mul(moveSpeed))
	}

	switch btns {
	case input.MouseButtons_Left:
		c.Origin = c.Origin.Sub(c.Forward.Mul(moveSpeed * mouseY))
		c.TotalYaw += rotSpeed * mouseX
	case input.MouseButtons_Right:
		c.TotalPitch -= rotSpeed * mouseY
		c.TotalYaw += rotSpeed * mouseX
	case input.MouseButtons_Both:
		c.Origin = c.Origin.Sub(c.Up.Mul(moveSpeed * mouseY))
	}

	c.UpdateRotation()
}

// UpdateRotation rebuilds the forward vector from the accumulated pitch and yaw
// (pitch applied first) and recomputes the basis and view matrix.
func (c *Camera) UpdateRotation() {

	rot := mgl32.Rotate3DY(c.TotalYaw).Mul3(mgl32.Rotate3DX(c.TotalPitch))
	c.Forward = rot.Mul3x1(WorldForward)
	c.calcViewMat()
}

func (c *Camera) SetFovAngle(fovAngle float32) {
	c.FovAngle = fovAngle
	c.Fov = fovTan(fovAngle)
	c.calcProjMat()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.calcProjMat()
}

// SetClipPlanes changes the near and far distances and recomputes the projection
func (c *Camera) SetClipPlanes(near, far float32) {
	c.Near = near
	c.Far = far
	c.calcProjMat()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.viewMat
}

func (c *Camera) InvViewMatrix() mgl32.Mat4 {
	return c.invViewMat
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projMat
}

// ViewProjection returns projection * view. Matrices are column major, so this is the
// transform that applies view first.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projMat.Mul4(c.viewMat)
}

func (c *Camera) calcViewMat() {

	c.Forward = c.Forward.Normalize()
	c.Right = WorldUp.Cross(c.Forward).Normalize()
	c.Up = c.Forward.Cross(c.Right).Normalize()

	c.viewMat = LookTo(c.Origin, c.Right, c.Up, c.Forward)
	c.invViewMat = mgl32.Mat4FromCols(
		c.Right.Vec4(0),
		c.Up.Vec4(0),
		c.Forward.Vec4(0),
		c.Origin.Vec4(1),
	)
}

func (c *Camera) calcProjMat() {
	c.projMat = PerspectiveLH(c.Fov, c.AspectRatio, c.Near, c.Far)
}

// LookTo builds a left-handed view matrix from an orthonormal basis and an eye position
func LookTo(eye, right, up, forward mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4FromRows(
		right.Vec4(-right.Dot(eye)),
		up.Vec4(-up.Dot(eye)),
		forward.Vec4(-forward.Dot(eye)),
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// PerspectiveLH builds a left-handed projection for a camera looking down +Z.
// fovTan is the tangent of half the vertical fov. Depth maps to [-1, 1] as OpenGL expects.
func PerspectiveLH(fovTan, aspectRatio, near, far float32) mgl32.Mat4 {

	depth := far - near
	return mgl32.Mat4FromRows(
		mgl32.Vec4{1 / (aspectRatio * fovTan), 0, 0, 0},
		mgl32.Vec4{0, 1 / fovTan, 0, 0},
		mgl32.Vec4{0, 0, (far + near) / depth, -2 * far * near / depth},
		mgl32.Vec4{0, 0, 1, 0},
	)
}

func fovTan(fovAngle float32) float32 {
	return math32.Tan(mgl32.DegToRad(fovAngle) / 2)
}
