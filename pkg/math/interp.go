package math

import "math"

// InverseLerp returns v as the t value between a and b.
// Returns 0 when a == b.
func InverseLerp(a, b, v float32, clamp bool) float32 {
	if a == b {
		return 0
	}

	t := (v - a) / (b - a)
	if clamp {
		t = Clamp01(t)
	}
	return t
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32, clamp bool) float32 {
	if clamp {
		t = Clamp01(t)
	}
	return a + (b-a)*t
}

// LerpVec2 linearly interpolates between two 2D points.
func LerpVec2(a, b Vec2, t float32, clamp bool) Vec2 {
	return Vec2{Lerp(a.X, b.X, t, clamp), Lerp(a.Y, b.Y, t, clamp)}
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float32) float32 {
	if t > 1 {
		return 1
	}
	if t < 0 {
		return 0
	}
	return t
}

// Rotate2D rotates point about pivot by angle degrees (counter-clockwise).
func Rotate2D(point, pivot Vec2, degrees float32) Vec2 {
	rad := float64(degrees) * math.Pi / 180
	s := float32(math.Sin(rad))
	c := float32(math.Cos(rad))

	x := point.X - pivot.X
	y := point.Y - pivot.Y

	return Vec2{
		X: x*c - y*s + pivot.X,
		Y: x*s + y*c + pivot.Y,
	}
}

// NearestCorner returns the corner closest to p.
// Corners are ordered top-left, top-right, bottom-left, bottom-right and ties
// resolve to the earlier corner.
func NearestCorner(p Vec2, corners [4]Vec2) Vec2 {
	best := 0
	bestDist := float32(math.Inf(1))
	for i, c := range corners {
		if d := p.Distance(c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return corners[best]
}

// TriangleCenter returns the pivot used for triangle UV rotation: the
// midpoint of the edge selected by comparing consecutive side lengths.
func TriangleCenter(a, b, c Vec2) Vec2 {
	ab := a.Distance(b)
	bc := b.Distance(c)
	ca := c.Distance(a)

	switch {
	case ab > bc:
		return a.Add(b).Scale(0.5)
	case bc > ca:
		return b.Add(c).Scale(0.5)
	default:
		return c.Add(a).Scale(0.5)
	}
}

// Bilinear maps (u, v) in [0,1]² onto the quad given by its four corners.
// v = 0 lies on the bottom edge, v = 1 on the top edge.
func Bilinear(topLeft, topRight, bottomLeft, bottomRight Vec2, u, v float32) Vec2 {
	bottom := LerpVec2(bottomLeft, bottomRight, u, true)
	top := LerpVec2(topLeft, topRight, u, true)
	return LerpVec2(bottom, top, v, true)
}
