package math

import "math"

// Spherical holds a point in spherical coordinates relative to an origin,
// using the Y axis as the pole. Phi is the polar angle measured from +Y
// (0 at the north pole, pi at the south pole); Theta is the azimuth around
// the Y axis measured from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SetFromVec3 re-derives the spherical coordinates from a cartesian offset.
func (s *Spherical) SetFromVec3(v Vec3) {
	s.Radius = v.Length()
	if s.Radius == 0 {
		s.Theta = 0
		s.Phi = 0
		return
	}
	s.Theta = float32(math.Atan2(float64(v.X), float64(v.Z)))
	s.Phi = float32(math.Acos(clamp64(float64(v.Y)/float64(s.Radius), -1, 1)))
}

// Vec3 converts the spherical coordinates back to a cartesian offset.
func (s Spherical) Vec3() Vec3 {
	sinPhi := float32(math.Sin(float64(s.Phi)))
	return Vec3{
		X: s.Radius * sinPhi * float32(math.Sin(float64(s.Theta))),
		Y: s.Radius * float32(math.Cos(float64(s.Phi))),
		Z: s.Radius * sinPhi * float32(math.Cos(float64(s.Theta))),
	}
}

// MakeSafe nudges Phi away from the exact poles so that a look-at with a
// Y-aligned up vector stays well-defined.
func (s *Spherical) MakeSafe(eps float32) {
	if s.Phi < eps {
		s.Phi = eps
	}
	if s.Phi > math.Pi-eps {
		s.Phi = math.Pi - eps
	}
}

func clamp64(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
