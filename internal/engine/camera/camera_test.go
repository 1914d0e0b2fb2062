package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/sceneview/pkg/math"
)

func TestLookAtForward(t *testing.T) {
	c := NewPerspective(gomath.Pi/3, 16.0/9.0, 0.1, 100)
	c.Position = math.Vec3{X: 0, Y: 5, Z: 5}
	c.LookAt(math.Vec3{})

	want := math.Vec3{X: 0, Y: -1, Z: -1}.Normalize()
	got := c.Forward()
	if got.Distance(want) > 1e-5 {
		t.Errorf("Forward() = %v, want %v", got, want)
	}
}

func TestProjectUnprojectPerspective(t *testing.T) {
	c := NewPerspective(gomath.Pi/3, 1.5, 0.1, 100)
	c.Position = math.Vec3{X: 2, Y: 3, Z: 8}
	c.LookAt(math.Vec3{})

	p := math.Vec3{X: 0.5, Y: -0.25, Z: 1}
	ndc := c.Project(p)
	back := c.Unproject(ndc)
	if back.Distance(p) > 1e-3 {
		t.Errorf("unproject(project(p)) = %v, want %v", back, p)
	}
}

func TestProjectUnprojectOrthographic(t *testing.T) {
	c := NewOrthographic(-4, 4, 3, -3, 0.1, 100)
	c.Position = math.Vec3{X: 0, Y: 0, Z: 10}
	c.LookAt(math.Vec3{})
	c.Zoom = 2

	p := math.Vec3{X: 1, Y: -1, Z: 2}
	ndc := c.Project(p)
	back := c.Unproject(ndc)
	if back.Distance(p) > 1e-4 {
		t.Errorf("unproject(project(p)) = %v, want %v", back, p)
	}
}

func TestOrthographicZoomNarrowsFrustum(t *testing.T) {
	c := NewOrthographic(-4, 4, 3, -3, 0.1, 100)
	c.Position = math.Vec3{X: 0, Y: 0, Z: 10}
	c.LookAt(math.Vec3{})

	p := math.Vec3{X: 2, Y: 0, Z: 0}
	before := c.Project(p)
	c.Zoom = 2
	after := c.Project(p)

	if after.X <= before.X {
		t.Errorf("zooming in should move off-center points outward: before %v, after %v", before.X, after.X)
	}
}

func TestKindString(t *testing.T) {
	if Perspective.String() != "perspective" || Orthographic.String() != "orthographic" {
		t.Error("kind names wrong")
	}
	if Kind(42).String() != "unknown" {
		t.Error("unknown kind should stringify as unknown")
	}
}
