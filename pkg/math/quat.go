package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromUnitVectors returns the shortest rotation taking unit vector from
// onto unit vector to. Antiparallel inputs rotate 180 degrees around an
// arbitrary perpendicular axis.
func QuatFromUnitVectors(from, to Vec3) Quat {
	r := from.Dot(to) + 1
	if r < 1e-7 {
		// 180 degrees apart; pick the more stable perpendicular axis
		if abs32(from.X) > abs32(from.Z) {
			return Quat{X: -from.Y, Y: from.X, Z: 0, W: 0}.Normalize()
		}
		return Quat{X: 0, Y: -from.Z, Z: from.Y, W: 0}.Normalize()
	}
	c := from.Cross(to)
	return Quat{X: c.X, Y: c.Y, Z: c.Z, W: r}.Normalize()
}

// QuatFromBasis builds a quaternion from three orthonormal basis vectors
// forming the columns of a rotation matrix.
func QuatFromBasis(x, y, z Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / float32(math.Sqrt(float64(trace+1)))
		return Quat{
			X: (m21 - m12) * s,
			Y: (m02 - m20) * s,
			Z: (m10 - m01) * s,
			W: 0.25 / s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * float32(math.Sqrt(float64(1+m00-m11-m22)))
		return Quat{
			X: 0.25 * s,
			Y: (m01 + m10) / s,
			Z: (m02 + m20) / s,
			W: (m21 - m12) / s,
		}
	case m11 > m22:
		s := 2 * float32(math.Sqrt(float64(1+m11-m00-m22)))
		return Quat{
			X: (m01 + m10) / s,
			Y: 0.25 * s,
			Z: (m12 + m21) / s,
			W: (m02 - m20) / s,
		}
	default:
		s := 2 * float32(math.Sqrt(float64(1+m22-m00-m11)))
		return Quat{
			X: (m02 + m20) / s,
			Y: (m12 + m21) / s,
			Z: 0.25 * s,
			W: (m10 - m01) / s,
		}
	}
}

// LookAtQuat returns the orientation of a camera at eye looking toward target
// with the given up direction. The camera looks down its local -Z axis.
func LookAtQuat(eye, target, up Vec3) Quat {
	z := eye.Sub(target)
	if z.LengthSq() == 0 {
		// eye and target coincide
		z = Vec3{Z: 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LengthSq() == 0 {
		// up parallel to view direction; nudge and retry
		if abs32(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return QuatFromBasis(x, y, z)
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Invert returns the inverse rotation. Assumes a unit quaternion, so the
// inverse is the conjugate.
func (q Quat) Invert() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
