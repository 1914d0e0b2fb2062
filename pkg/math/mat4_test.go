package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestOrthoCenterMapsToOrigin(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, 0.1, 100)
	center := m.MulVec4(Vec4{0, 0, -1, 1})
	if absf(center[0]) > 1e-6 || absf(center[1]) > 1e-6 {
		t.Errorf("frustum center should project to NDC origin, got %v", center)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Perspective(float32(math.Pi/3), 1.5, 0.1, 100).Mul(Translate(3, -2, 7))
	inv := m.Inverse()

	p := Vec4{0.3, -0.2, 0.5, 1}
	q := m.MulVec4(p)
	back := inv.MulVec4(q)

	for i := 0; i < 4; i++ {
		if absf(back[i]-p[i]) > 1e-4 {
			t.Errorf("inverse round-trip component %d: got %v, want %v", i, back[i], p[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if zero.Inverse() != Identity() {
		t.Error("singular matrix should invert to identity")
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
