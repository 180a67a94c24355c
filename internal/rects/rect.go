// Package rects holds the rect library: named collections of atlas rects and
// the patterns painted from them.
package rects

import (
	"errors"

	"github.com/Faultbox/neotile/pkg/math"
)

// ErrIndexOutOfRange is returned when a rect, pattern or entry index does not
// exist. Indices are never clamped.
var ErrIndexOutOfRange = errors.New("index out of range")

// Corner indices into a Quad.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// Quad holds four corners in TL, TR, BL, BR order.
type Quad [4]math.Vec2

// Unit maps the quad from [-1,1] rect space into [0,1] UV space.
func (q Quad) Unit() Quad {
	var out Quad
	for i, c := range q {
		out[i] = c.ToUnit()
	}
	return out
}

// Equal compares corners component-wise. eps 0 means exact equality.
func (q Quad) Equal(other Quad, eps float32) bool {
	for i := range q {
		dx := q[i].X - other[i].X
		dy := q[i].Y - other[i].Y
		if eps == 0 {
			if dx != 0 || dy != 0 {
				return false
			}
			continue
		}
		if dx < -eps || dx > eps || dy < -eps || dy > eps {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned box of the corners.
func (q Quad) Bounds() (lo, hi math.Vec2) {
	lo, hi = q[0], q[0]
	for _, c := range q[1:] {
		lo = lo.Min(c)
		hi = hi.Max(c)
	}
	return lo, hi
}

// Rect is an atlas sub-region in [-1,1] space. The corners form an arbitrary
// quadrilateral.
type Rect struct {
	TopLeft     math.Vec2 `yaml:"top_left"`
	TopRight    math.Vec2 `yaml:"top_right"`
	BottomLeft  math.Vec2 `yaml:"bottom_left"`
	BottomRight math.Vec2 `yaml:"bottom_right"`
	Preview     string    `yaml:"preview,omitempty"`
	Atlas       string    `yaml:"atlas,omitempty"`
}

// NewRect builds a rect from a quad.
func NewRect(q Quad) Rect {
	return Rect{
		TopLeft:     q[TopLeft],
		TopRight:    q[TopRight],
		BottomLeft:  q[BottomLeft],
		BottomRight: q[BottomRight],
	}
}

// Corners returns the rect's corners.
func (r Rect) Corners() Quad {
	return Quad{r.TopLeft, r.TopRight, r.BottomLeft, r.BottomRight}
}

// Center returns the mean of the four corners.
func (r Rect) Center() math.Vec2 {
	return r.TopLeft.Add(r.TopRight).Add(r.BottomLeft).Add(r.BottomRight).Scale(0.25)
}

// FullFrame returns the rect covering the whole [-1,1] space.
func FullFrame() Rect {
	return Rect{
		TopLeft:     math.Vec2{X: -1, Y: 1},
		TopRight:    math.Vec2{X: 1, Y: 1},
		BottomLeft:  math.Vec2{X: -1, Y: -1},
		BottomRight: math.Vec2{X: 1, Y: -1},
	}
}
