// Package camera provides the camera model mutated by the orbit controls.
package camera

import (
	gomath "math"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Kind tags the projection variant of a Camera.
type Kind int

const (
	Perspective Kind = iota
	Orthographic
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Camera holds position, orientation and projection parameters. The orbit
// controls mutate Position, Quaternion and Zoom in place; the camera is owned
// by the embedding application.
type Camera struct {
	Kind       Kind
	Position   math.Vec3
	Quaternion math.Quat
	Up         math.Vec3

	// Perspective parameters
	FovY   float32 // vertical field of view, radians
	Aspect float32

	// Orthographic parameters (frustum extents at Zoom 1)
	Left, Right, Top, Bottom float32

	Zoom float32
	Near float32
	Far  float32
}

// NewPerspective creates a perspective camera looking down -Z with Y up.
func NewPerspective(fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Kind:       Perspective,
		Quaternion: math.QuatIdentity(),
		Up:         math.Vec3{Y: 1},
		FovY:       fovY,
		Aspect:     aspect,
		Zoom:       1,
		Near:       near,
		Far:        far,
	}
}

// NewOrthographic creates an orthographic camera looking down -Z with Y up.
func NewOrthographic(left, right, top, bottom, near, far float32) *Camera {
	return &Camera{
		Kind:       Orthographic,
		Quaternion: math.QuatIdentity(),
		Up:         math.Vec3{Y: 1},
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Zoom:       1,
		Near:       near,
		Far:        far,
	}
}

// LookAt orients the camera toward target using the camera's up vector.
func (c *Camera) LookAt(target math.Vec3) {
	c.Quaternion = math.LookAtQuat(c.Position, target, c.Up)
}

// Forward returns the world-space view direction (local -Z).
func (c *Camera) Forward() math.Vec3 {
	return math.Vec3{Z: -1}.ApplyQuat(c.Quaternion)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	rot := c.Quaternion.Invert().ToMat4()
	return rot.Mul(math.Translate(-c.Position.X, -c.Position.Y, -c.Position.Z))
}

// ProjectionMatrix returns the projection for the current parameters.
// For orthographic cameras Zoom shrinks the frustum extents around its center.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	if c.Kind == Orthographic {
		dx := (c.Right - c.Left) / (2 * c.Zoom)
		dy := (c.Top - c.Bottom) / (2 * c.Zoom)
		cx := (c.Right + c.Left) / 2
		cy := (c.Top + c.Bottom) / 2
		return math.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, c.Near, c.Far)
	}
	fov := 2 * float32(gomath.Atan(gomath.Tan(float64(c.FovY)/2)/float64(c.Zoom)))
	return math.Perspective(fov, c.Aspect, c.Near, c.Far)
}

// Project transforms a world point into normalized device coordinates.
func (c *Camera) Project(p math.Vec3) math.Vec3 {
	vp := c.ProjectionMatrix().Mul(c.ViewMatrix())
	v := vp.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if v[3] != 0 {
		return math.Vec3{X: v[0] / v[3], Y: v[1] / v[3], Z: v[2] / v[3]}
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Unproject transforms normalized device coordinates back into world space.
func (c *Camera) Unproject(ndc math.Vec3) math.Vec3 {
	inv := c.ProjectionMatrix().Mul(c.ViewMatrix()).Inverse()
	v := inv.MulVec4(math.Vec4{ndc.X, ndc.Y, ndc.Z, 1})
	if v[3] != 0 {
		return math.Vec3{X: v[0] / v[3], Y: v[1] / v[3], Z: v[2] / v[3]}
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
