package uv

import (
	gomath "math"

	"github.com/Faultbox/neotile/pkg/math"
)

// bounds is the axis-aligned box of a set of UVs.
type bounds struct {
	min, max math.Vec2
}

func boundsOf(groups [][]math.Vec2) bounds {
	b := bounds{
		min: math.Vec2{X: gomath.MaxFloat32, Y: gomath.MaxFloat32},
		max: math.Vec2{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32},
	}
	for _, pts := range groups {
		for _, p := range pts {
			b.min = b.min.Min(p)
			b.max = b.max.Max(p)
		}
	}
	return b
}

func (b bounds) size() math.Vec2 {
	return b.max.Sub(b.min)
}

func (b bounds) center() math.Vec2 {
	return b.min.Add(b.max).Scale(0.5)
}

// apply maps every point into [0,1] against b. With aspect correction the
// longer side keeps the full range and the shorter one shrinks to match.
// The aspect is computed once for the whole set.
func (b bounds) apply(groups [][]math.Vec2, correctAspect bool) {
	size := b.size()
	aspect := float32(0)
	if correctAspect && size.X > 0 && size.Y > 0 {
		aspect = size.Y / size.X
	}

	for _, pts := range groups {
		for i, p := range pts {
			q := math.Vec2{
				X: math.InverseLerp(b.min.X, b.max.X, p.X, true),
				Y: math.InverseLerp(b.min.Y, b.max.Y, p.Y, true),
			}
			switch {
			case aspect == 0:
			case aspect >= 1:
				q.X /= aspect
			default:
				q.Y *= aspect
			}
			pts[i] = q
		}
	}
}
