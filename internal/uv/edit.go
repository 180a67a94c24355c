package uv

import (
	"fmt"

	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// Rotate turns the UVs of faces by a quarter turn.
//
// RotateShift cycles UVs one loop along the winding; RotateOrbit rotates them
// 90 degrees about the pivot. Clockwise turns the texture clockwise on the
// face, which rotates UVs counter-clockwise in UV space.
func Rotate(m mesh.Mesh, faces []int, clockwise bool, opts Options) error {
	if len(faces) == 0 {
		return ErrNoFaces
	}

	if opts.RotateMode == RotateShift {
		for _, f := range faces {
			shiftFace(m, f, clockwise)
		}
		return nil
	}

	angle := float32(-90)
	if clockwise {
		angle = 90
	}
	aboutPivot(m, faces, opts, func(uv, pivot math.Vec2) math.Vec2 {
		return math.Rotate2D(uv, pivot, angle)
	})
	return nil
}

func shiftFace(m mesh.Mesh, face int, clockwise bool) {
	uvs := mesh.FaceUVs(m, face)
	n := len(uvs)
	for i, l := range m.FaceLoops(face) {
		j := (i + n - 1) % n
		if clockwise {
			j = (i + 1) % n
		}
		m.SetLoopUV(l, uvs[j])
	}
}

// Flip mirrors the UVs of faces about the pivot, horizontally (U) or
// vertically (V). Flipping twice restores the input.
func Flip(m mesh.Mesh, faces []int, horizontal bool, opts Options) error {
	if len(faces) == 0 {
		return ErrNoFaces
	}

	aboutPivot(m, faces, opts, func(uv, pivot math.Vec2) math.Vec2 {
		if horizontal {
			uv.X = pivot.X + -(uv.X - pivot.X)
		} else {
			uv.Y = pivot.Y + -(uv.Y - pivot.Y)
		}
		return uv
	})
	return nil
}

// Normalize stretches the UVs of faces so their shared bounding box fills
// [0,1]. With CorrectAspect the shorter side keeps its proportion.
// Normalizing already normalized UVs leaves them unchanged. A bounding box
// with no width or no height is rejected with ErrDegenerate and nothing is
// written.
func Normalize(m mesh.Mesh, faces []int, opts Options) error {
	if len(faces) == 0 {
		return ErrNoFaces
	}

	groups := make([][]math.Vec2, len(faces))
	for i, f := range faces {
		groups[i] = mesh.FaceUVs(m, f)
	}

	b := boundsOf(groups)
	if size := b.size(); size.X < minExtent || size.Y < minExtent {
		return fmt.Errorf("%w: UV bounds %gx%g", ErrDegenerate, size.X, size.Y)
	}
	b.apply(groups, opts.CorrectAspect)

	for i, f := range faces {
		for j, l := range m.FaceLoops(f) {
			m.SetLoopUV(l, groups[i][j])
		}
	}
	return nil
}

// aboutPivot applies fn to every loop UV. Pivots are computed before any UV
// is written.
func aboutPivot(m mesh.Mesh, faces []int, opts Options, fn func(uv, pivot math.Vec2) math.Vec2) {
	if opts.PivotScope == PivotShared {
		var all []math.Vec2
		for _, f := range faces {
			all = append(all, mesh.FaceUVs(m, f)...)
		}
		pivot := Pivot(all, opts.UseBounds)
		for _, f := range faces {
			for _, l := range m.FaceLoops(f) {
				m.SetLoopUV(l, fn(m.LoopUV(l), pivot))
			}
		}
		return
	}

	for _, f := range faces {
		pivot := Pivot(mesh.FaceUVs(m, f), opts.UseBounds)
		for _, l := range m.FaceLoops(f) {
			m.SetLoopUV(l, fn(m.LoopUV(l), pivot))
		}
	}
}

// Pivot returns the rotation and flip center of a set of UVs: the triangle
// center for exactly three UVs, otherwise the bounding box center when
// useBounds is set or the mean UV.
func Pivot(uvs []math.Vec2, useBounds bool) math.Vec2 {
	switch {
	case len(uvs) == 0:
		return math.Vec2{}
	case len(uvs) == 3:
		return math.TriangleCenter(uvs[0], uvs[1], uvs[2])
	case useBounds:
		return boundsOf([][]math.Vec2{uvs}).center()
	}

	var sum math.Vec2
	for _, uv := range uvs {
		sum = sum.Add(uv)
	}
	return sum.Scale(1 / float32(len(uvs)))
}
