package math

import "testing"

func sumWeights(w []float32) float32 {
	var s float32
	for _, v := range w {
		s += v
	}
	return s
}

func TestPolyWeightsPartitionOfUnity(t *testing.T) {
	tri := []Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}
	quad := []Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	pent := []Vec3{{0, -1, 1}, {1, -0.3, 1}, {0.6, 0.8, 1}, {-0.6, 0.8, 1}, {-1, -0.3, 1}}

	tests := []struct {
		name  string
		verts []Vec3
		p     Vec3
	}{
		{"triangle", tri, Vec3{0.5, 0.5, 0}},
		{"quad centre", quad, Vec3{0, 0, 0}},
		{"quad off centre", quad, Vec3{0.3, -0.7, 0}},
		{"pentagon", pent, Vec3{0.1, 0.2, 1}},
		{"quad hit above plane", quad, Vec3{0.2, 0.2, 0.001}},
	}
	for _, tc := range tests {
		w := PolyWeights(tc.p, tc.verts)
		if len(w) != len(tc.verts) {
			t.Fatalf("%s: got %d weights, want %d", tc.name, len(w), len(tc.verts))
		}
		if s := sumWeights(w); abs(s-1) > 1e-5 {
			t.Errorf("%s: weights sum to %v, want 1", tc.name, s)
		}
		for i, v := range w {
			if v < -1e-6 {
				t.Errorf("%s: weight %d negative for interior point: %v", tc.name, i, v)
			}
		}
	}
}

func TestPolyWeightsReproducePosition(t *testing.T) {
	quad := []Vec3{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, 0}}
	p := Vec3{1.5, 0.25, 0}
	w := PolyWeights(p, quad)

	var got Vec3
	for i, v := range quad {
		got = got.Add(v.Scale(w[i]))
	}
	if got.Distance(p) > 1e-5 {
		t.Errorf("weighted vertex sum = %v, want %v", got, p)
	}
}

func TestPolyWeightsOnVertexAndEdge(t *testing.T) {
	quad := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

	w := PolyWeights(Vec3{1, 1, 0}, quad)
	if w[2] != 1 {
		t.Errorf("weights on vertex = %v, want full weight on index 2", w)
	}

	w = PolyWeights(Vec3{0.5, 0, 0}, quad)
	if abs(w[0]-0.5) > 1e-6 || abs(w[1]-0.5) > 1e-6 {
		t.Errorf("weights on edge = %v, want 0.5/0.5 on first edge", w)
	}
}

func TestInterpolateUVTriangle(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uvs := []Vec2{{0, 0}, {1, 0}, {0, 1}}

	got := InterpolateUV(Vec3{0.25, 0.5, 0}, verts, uvs)
	if got.Distance(Vec2{0.25, 0.5}) > 1e-6 {
		t.Errorf("InterpolateUV = %v, want (0.25,0.5)", got)
	}
}

func TestInterpolateUVDeterministic(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {3, 0, 0}, {3.5, 2, 0}, {1, 3, 0}, {-0.5, 1.5, 0}}
	uvs := []Vec2{{0, 0}, {1, 0}, {1, 0.7}, {0.4, 1}, {0, 0.5}}
	p := Vec3{1.2, 1.1, 0}

	a := InterpolateUV(p, verts, uvs)
	b := InterpolateUV(p, verts, uvs)
	if a != b {
		t.Errorf("InterpolateUV not reproducible: %v vs %v", a, b)
	}
}

func TestPolyNormal(t *testing.T) {
	quad := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	if n := PolyNormal(quad); n.Distance(Vec3{0, 0, 1}) > 1e-6 {
		t.Errorf("PolyNormal = %v, want (0,0,1)", n)
	}
}
