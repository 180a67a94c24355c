package math

import "math"

// Basis builds an orthonormal frame from a forward vector and an approximate
// up vector. ok is false when up is parallel to forward (or either is zero),
// in which case the returned vectors are not a valid frame.
func Basis(forward, up Vec3) (right, trueUp, fwd Vec3, ok bool) {
	fwd = forward.Normalize()
	right = up.Cross(fwd)
	if right.LengthSquared() < 1e-12 {
		return Vec3{}, Vec3{}, fwd, false
	}
	right = right.Normalize()
	trueUp = fwd.Cross(right).Normalize()
	return right, trueUp, fwd, true
}

// QuatFromForwardUp returns the rotation that maps the local X, Y and Z axes
// onto right, up and forward of the frame built by Basis.
//
// The matrix rows are m0 = right, m1 = up, m2 = forward. Branch selection:
// positive trace first, then the dominant diagonal, compared m00 against m11
// and m22, then m11 against m22.
func QuatFromForwardUp(forward, up Vec3) Quat {
	right, trueUp, fwd, _ := Basis(forward, up)

	m00, m01, m02 := right.X, right.Y, right.Z
	m10, m11, m12 := trueUp.X, trueUp.Y, trueUp.Z
	m20, m21, m22 := fwd.X, fwd.Y, fwd.Z

	trace := m00 + m11 + m22
	if trace > 0 {
		num := float32(math.Sqrt(float64(trace + 1)))
		w := num * 0.5
		num = 0.5 / num
		return Quat{
			X: (m12 - m21) * num,
			Y: (m20 - m02) * num,
			Z: (m01 - m10) * num,
			W: w,
		}
	}
	if m00 >= m11 && m00 >= m22 {
		num := float32(math.Sqrt(float64(1 + m00 - m11 - m22)))
		inv := 0.5 / num
		return Quat{
			X: 0.5 * num,
			Y: (m01 + m10) * inv,
			Z: (m02 + m20) * inv,
			W: (m12 - m21) * inv,
		}
	}
	if m11 > m22 {
		num := float32(math.Sqrt(float64(1 + m11 - m00 - m22)))
		inv := 0.5 / num
		return Quat{
			X: (m10 + m01) * inv,
			Y: 0.5 * num,
			Z: (m21 + m12) * inv,
			W: (m20 - m02) * inv,
		}
	}
	num := float32(math.Sqrt(float64(1 + m22 - m00 - m11)))
	inv := 0.5 / num
	return Quat{
		X: (m20 + m02) * inv,
		Y: (m21 + m12) * inv,
		Z: 0.5 * num,
		W: (m01 - m10) * inv,
	}
}

// Frame is a rigid projection frame: an origin and an orientation.
type Frame struct {
	Origin   Vec3
	Rotation Quat
}

// NewFrame returns the frame at origin looking along forward with the given up.
func NewFrame(origin, forward, up Vec3) Frame {
	return Frame{Origin: origin, Rotation: QuatFromForwardUp(forward, up)}
}

// ToLocal expresses a world-space point in frame coordinates.
func (f Frame) ToLocal(p Vec3) Vec3 {
	return f.Rotation.Conjugate().Rotate(p.Sub(f.Origin))
}
