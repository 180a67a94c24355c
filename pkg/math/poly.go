package math

import "math"

// PolyNormal returns the unit normal of a planar polygon using Newell's method.
func PolyNormal(verts []Vec3) Vec3 {
	var n Vec3
	for i := range verts {
		cur := verts[i]
		next := verts[(i+1)%len(verts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// PolyWeights returns interpolation weights of p against the polygon verts.
// Triangles use true barycentric coordinates; larger polygons use mean value
// coordinates evaluated in the polygon plane. Weights sum to 1. Degenerate
// polygons put the full weight on the nearest vertex.
func PolyWeights(p Vec3, verts []Vec3) []float32 {
	switch {
	case len(verts) == 0:
		return nil
	case len(verts) < 3:
		return nearestVertexWeights(p, verts)
	case len(verts) == 3:
		if w, ok := barycentric(p, verts[0], verts[1], verts[2]); ok {
			return w
		}
		return nearestVertexWeights(p, verts)
	}
	if w, ok := meanValue(p, verts); ok {
		return w
	}
	return nearestVertexWeights(p, verts)
}

// InterpolateUV returns the UV at p as the weighted sum of the loop UVs.
func InterpolateUV(p Vec3, verts []Vec3, uvs []Vec2) Vec2 {
	weights := PolyWeights(p, verts)
	var uv Vec2
	for i, w := range weights {
		if i >= len(uvs) {
			break
		}
		uv = uv.Add(uvs[i].Scale(w))
	}
	return uv
}

func barycentric(p, a, b, c Vec3) ([]float32, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	denom := float64(n.LengthSquared())
	if denom < 1e-20 {
		return nil, false
	}

	wa := float64(c.Sub(b).Cross(p.Sub(b)).Dot(n)) / denom
	wb := float64(a.Sub(c).Cross(p.Sub(c)).Dot(n)) / denom
	wc := 1 - wa - wb

	return []float32{float32(wa), float32(wb), float32(wc)}, true
}

type vec3d struct{ x, y, z float64 }

func toD(v Vec3) vec3d { return vec3d{float64(v.X), float64(v.Y), float64(v.Z)} }

func (a vec3d) sub(b vec3d) vec3d     { return vec3d{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3d) scale(s float64) vec3d { return vec3d{a.x * s, a.y * s, a.z * s} }
func (a vec3d) dot(b vec3d) float64   { return a.x*b.x + a.y*b.y + a.z*b.z }
func (a vec3d) cross(b vec3d) vec3d {
	return vec3d{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x}
}
func (a vec3d) length() float64 { return math.Sqrt(a.dot(a)) }

func meanValue(p Vec3, verts []Vec3) ([]float32, bool) {
	n := toD(PolyNormal(verts))
	if n.length() == 0 {
		return nil, false
	}

	count := len(verts)
	s := make([]vec3d, count)
	r := make([]float64, count)
	pd := toD(p)

	const eps = 1e-12
	for i, v := range verts {
		d := toD(v).sub(pd)
		// drop the out-of-plane component
		d = d.sub(n.scale(d.dot(n)))
		s[i] = d
		r[i] = d.length()
		if r[i] < eps {
			w := make([]float32, count)
			w[i] = 1
			return w, true
		}
	}

	tanHalf := make([]float64, count)
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		area := s[i].cross(s[j]).dot(n)
		dot := s[i].dot(s[j])
		if math.Abs(area) < eps && dot < 0 {
			// p lies on edge i-j
			w := make([]float32, count)
			t := r[i] / (r[i] + r[j])
			w[i] = float32(1 - t)
			w[j] = float32(t)
			return w, true
		}
		tanHalf[i] = area / (r[i]*r[j] + dot)
	}

	weights := make([]float64, count)
	var sum float64
	for i := 0; i < count; i++ {
		prev := (i + count - 1) % count
		weights[i] = (tanHalf[prev] + tanHalf[i]) / r[i]
		sum += weights[i]
	}
	if math.Abs(sum) < eps {
		return nil, false
	}

	out := make([]float32, count)
	for i := range weights {
		out[i] = float32(weights[i] / sum)
	}
	return out, true
}

func nearestVertexWeights(p Vec3, verts []Vec3) []float32 {
	w := make([]float32, len(verts))
	best := 0
	bestDist := float32(math.Inf(1))
	for i, v := range verts {
		if d := p.Distance(v); d < bestDist {
			bestDist = d
			best = i
		}
	}
	w[best] = 1
	return w
}
