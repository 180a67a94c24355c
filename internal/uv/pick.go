package uv

import (
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/pkg/math"
)

// BestRectForFace returns the index of the rect whose UV quad contains the
// face's mean UV. When several rects contain it the smallest wins.
func BestRectForFace(m mesh.Mesh, face int, col *rects.Collection) (int, bool) {
	uvs := mesh.FaceUVs(m, face)
	if len(uvs) == 0 || col == nil {
		return rects.Unresolved, false
	}

	var c math.Vec2
	for _, uv := range uvs {
		c = c.Add(uv)
	}
	c = c.Scale(1 / float32(len(uvs)))

	best := rects.Unresolved
	bestArea := float32(0)
	for i, r := range col.Rects {
		q := r.Corners().Unit()
		poly := []math.Vec2{q[rects.TopLeft], q[rects.TopRight], q[rects.BottomRight], q[rects.BottomLeft]}
		if !containsPoint(poly, c) {
			continue
		}
		area := abs(polygonArea(poly))
		if best == rects.Unresolved || area < bestArea {
			best, bestArea = i, area
		}
	}
	return best, best != rects.Unresolved
}

// containsPoint reports whether p lies inside or on the edge of a convex
// polygon of either winding.
func containsPoint(poly []math.Vec2, p math.Vec2) bool {
	var pos, neg bool
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

func polygonArea(poly []math.Vec2) float32 {
	var sum float32
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}
