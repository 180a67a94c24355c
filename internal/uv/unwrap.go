package uv

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/pkg/math"
)

// Unwrap errors.
var (
	ErrNoFaces    = errors.New("no faces to process")
	ErrDegenerate = errors.New("degenerate geometry")
)

// minExtent is the smallest projected half-size treated as non-zero.
const minExtent = 1e-8

// Result reports how many faces were written and how many were skipped as
// degenerate.
type Result struct {
	Faces   int
	Skipped int
}

func (r *Result) add(other Result) {
	r.Faces += other.Faces
	r.Skipped += other.Skipped
}

// Faces returns the faces UV operations apply to: the selection in edit mode,
// every face otherwise.
func Faces(m mesh.Mesh) []int {
	return mesh.SelectedFaces(m)
}

// Unwrap projects faces into rect and writes their loop UVs.
//
// Degenerate faces (zero projected width or height, or no usable frame) are
// skipped and counted. ErrDegenerate is returned only when nothing could be
// written.
func Unwrap(m mesh.Mesh, faces []int, rect rects.Rect, opts Options) (Result, error) {
	if len(faces) == 0 {
		return Result{}, ErrNoFaces
	}

	target := rect.Corners().Unit()

	var res Result
	projected := make([]int, 0, len(faces))
	for _, f := range faces {
		if opts.Orientation == OrientNone && len(m.FaceLoops(f)) <= 4 {
			assignCorners(m, f, target)
			res.Faces++
			continue
		}
		projected = append(projected, f)
	}

	if len(projected) > 0 {
		if opts.Space == SpaceGlobal {
			res.add(unwrapGroup(m, projected, target, opts))
		} else {
			for _, f := range projected {
				res.add(unwrapGroup(m, []int{f}, target, opts))
			}
		}
	}

	if res.Skipped > 0 {
		logger.Debug("skipped degenerate faces",
			zap.Int("skipped", res.Skipped),
			zap.Int("written", res.Faces),
			zap.Stringer("space", opts.Space))
	}
	if res.Faces == 0 {
		return res, fmt.Errorf("%w: %d faces skipped", ErrDegenerate, res.Skipped)
	}
	return res, nil
}

// assignCorners writes the rect corners onto the face loops in winding
// order: top-left, top-right, bottom-right, bottom-left.
func assignCorners(m mesh.Mesh, face int, q rects.Quad) {
	order := [4]int{rects.TopLeft, rects.TopRight, rects.BottomRight, rects.BottomLeft}
	for i, l := range m.FaceLoops(face) {
		m.SetLoopUV(l, q[order[i]])
	}
}

// unwrapGroup projects faces through one shared frame and extent. Local
// unwrapping calls it once per face.
func unwrapGroup(m mesh.Mesh, faces []int, target rects.Quad, opts Options) Result {
	skipped := Result{Skipped: len(faces)}

	world := make([]mesh.WorldFace, len(faces))
	var center, normal, tangent math.Vec3
	for i, f := range faces {
		wf := mesh.FaceWorld(m, f)
		world[i] = wf
		center = center.Add(wf.Center)
		normal = normal.Add(wf.Normal)
		tangent = tangent.Add(wf.Tangent)
	}
	inv := 1 / float32(len(faces))
	center = center.Scale(inv)
	normal = normal.Scale(inv)
	tangent = tangent.Scale(inv)

	frame, ok := projectionFrame(center, normal, upVector(opts, m.WorldMatrix(), tangent), tangent)
	if !ok {
		return skipped
	}

	// Pass 1: project into the frame and measure the symmetric extent.
	local := make([][]math.Vec2, len(world))
	var ext math.Vec2
	verts := 0
	for i, wf := range world {
		pts := make([]math.Vec2, len(wf.Positions))
		for j, p := range wf.Positions {
			l := frame.ToLocal(p).XY()
			pts[j] = l
			ext.X = max(ext.X, abs(l.X))
			ext.Y = max(ext.Y, abs(l.Y))
		}
		local[i] = pts
		verts += len(pts)
	}

	ext, ok = fitExtent(ext, verts == 3, opts.CorrectAspect)
	if !ok {
		return skipped
	}

	// Pass 2: normalize into [0,1].
	for _, pts := range local {
		for j, p := range pts {
			pts[j] = math.Vec2{X: (p.X/ext.X + 1) / 2, Y: (p.Y/ext.Y + 1) / 2}
		}
	}

	if opts.Snap == SnapBounds {
		b := boundsOf(local)
		b.apply(local, opts.CorrectAspect)
	}

	// Pass 3: remap into the rect.
	for i, f := range faces {
		for j, l := range m.FaceLoops(f) {
			m.SetLoopUV(l, remap(local[i][j], target, opts.Snap))
		}
	}

	return Result{Faces: len(faces)}
}

// remap places normalized coordinates inside the target quad.
func remap(p math.Vec2, target rects.Quad, snap Snap) math.Vec2 {
	uv := math.Bilinear(
		target[rects.TopLeft], target[rects.TopRight],
		target[rects.BottomLeft], target[rects.BottomRight],
		p.X, p.Y)
	if snap == SnapCorners {
		uv = math.NearestCorner(uv, target)
	}
	return uv
}

// fitExtent halves triangle extents and squares the extent when aspect
// correction is on. ok is false for a zero width or height.
func fitExtent(ext math.Vec2, triangle, correctAspect bool) (math.Vec2, bool) {
	if triangle {
		ext = ext.Scale(0.5)
	}
	if ext.X < minExtent || ext.Y < minExtent {
		return ext, false
	}
	if correctAspect {
		if ext.X/ext.Y >= 1 {
			ext.Y = ext.X
		} else {
			ext.X = ext.Y
		}
	}
	return ext, true
}

func upVector(opts Options, world math.Mat4, tangent math.Vec3) math.Vec3 {
	switch opts.Orientation {
	case OrientWorldAxis:
		return opts.Axis
	case OrientObjectAxis:
		return math.QuatFromMat4(world).Rotate(opts.Axis)
	case OrientViewAxis:
		return opts.ViewRotation.Rotate(opts.Axis)
	default:
		return tangent
	}
}

// projectionFrame looks along forward with the given up, falling back to the
// tangent when up is parallel to forward.
func projectionFrame(center, forward, up, tangent math.Vec3) (math.Frame, bool) {
	if _, _, _, ok := math.Basis(forward, up); ok {
		return math.NewFrame(center, forward, up), true
	}
	if _, _, _, ok := math.Basis(forward, tangent); ok {
		return math.NewFrame(center, forward, tangent), true
	}
	return math.Frame{}, false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
