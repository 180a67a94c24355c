package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	expected := Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if m != expected {
		t.Errorf("Identity() = %v, want %v", m, expected)
	}
}

func TestMulIdentity(t *testing.T) {
	a := Translate(1, 2, 3)
	got := a.Mul(Identity())
	if got != a {
		t.Errorf("A * I = %v, want %v", got, a)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 22, 32}
	if got != want {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(5, 5, 5)
	got := m.TransformDirection(Vec3{0, 0, 1})
	if got != (Vec3{0, 0, 1}) {
		t.Errorf("TransformDirection = %v, want (0,0,1)", got)
	}
}

func TestTransformNormalNonUniformScale(t *testing.T) {
	// A 45° face normal must stay perpendicular to the face after stretching X.
	m := Scale(4, 1, 1)
	tangent := m.TransformDirection(Vec3{1, -1, 0})
	n := m.TransformNormal(Vec3{1, 1, 0}.Normalize())

	if d := abs(n.Dot(tangent)); d > 1e-5 {
		t.Errorf("normal not perpendicular after scale: dot = %v", d)
	}
	if l := n.Length(); abs(l-1) > 1e-5 {
		t.Errorf("normal length = %v, want 1", l)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, 2, 3).Mul(QuatFromAxisAngle(Vec3{Z: 1}, 0.7).ToMat4()).Mul(Scale(2, 3, 4))
	got := m.Mul(m.Inverse())
	id := Identity()
	for i := range got {
		if abs(got[i]-id[i]) > 1e-5 {
			t.Fatalf("M * M^-1 element %d = %v, want %v", i, got[i], id[i])
		}
	}
}

func TestRotationMatrix90(t *testing.T) {
	m := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2)).ToMat4()
	got := m.TransformPoint(Vec3{1, 0, 0})
	if abs(got.X) > 1e-6 || abs(got.Y-1) > 1e-6 {
		t.Errorf("90° about Z * (1,0,0) = %v, want (0,1,0)", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
