// Package session implements the modal pointer tools that edit UVs directly
// on the mesh: the pick/drag editor and the pattern paint stroke.
//
// Sessions are driven by the host one event at a time through Tick. They are
// not safe for concurrent use, and the rect store must not be reloaded while
// a session is open.
package session

import (
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// Viewport is the screen-space area the pointer is wrapped inside while
// dragging.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether p lies inside the viewport.
func (v Viewport) Contains(p math.Vec2) bool {
	return p.X >= v.X && p.X <= v.X+v.Width && p.Y >= v.Y && p.Y <= v.Y+v.Height
}

// wrap moves a pointer that left the viewport to the opposite edge.
// ok is false when p is inside or the viewport is empty.
func (v Viewport) wrap(p math.Vec2) (math.Vec2, bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return p, false
	}

	out := p
	switch {
	case p.X > v.X+v.Width:
		out.X = v.X
	case p.X < v.X:
		out.X = v.X + v.Width
	}
	switch {
	case p.Y > v.Y+v.Height:
		out.Y = v.Y
	case p.Y < v.Y:
		out.Y = v.Y + v.Height
	}
	return out, out != p
}

// Event is one input tick. The host builds the pointer ray from its camera;
// Origin and Direction are in world space.
type Event struct {
	Origin    math.Vec3
	Direction math.Vec3
	Pointer   math.Vec2
	Viewport  Viewport

	// Primary and Secondary are the current button states, not transitions.
	Primary   bool
	Secondary bool

	Shift  bool
	Ctrl   bool
	Alt    bool
	Escape bool

	// Wheel is the number of scroll steps since the last tick. Positive
	// values scroll up.
	Wheel int
}

// Hint tells the host what to draw and whether the session is still running.
type Hint struct {
	Hovered  mesh.Component
	Dragging bool
	Done     bool
	// Warp is set when the host should move the pointer to the given
	// position. The next tick is treated as a resync.
	Warp *math.Vec2
}

// Options tunes the pick/drag editor.
type Options struct {
	// LinkedFaces drags the loops of every face sharing a dragged vertex,
	// not just the hit face.
	LinkedFaces bool
	// PixelSnap rounds dragged UVs to the texel grid of the hit face's
	// texture.
	PixelSnap bool
	// FaceOnly disables edge and vertex resolution. Holding Alt has the
	// same effect for a single tick.
	FaceOnly bool
	// MoveSpeed scales the anchor-to-pointer UV offset.
	MoveSpeed float32
	// ScaleSpeed is the scale factor change per pixel of horizontal drag.
	ScaleSpeed float32
	// RotateSpeed is the rotation in degrees per pixel of horizontal drag.
	RotateSpeed float32
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		PixelSnap:   true,
		MoveSpeed:   1,
		ScaleSpeed:  0.005,
		RotateSpeed: 0.5,
	}
}

// DefaultTextureSize is the texel grid used for pixel snapping when the hit
// face has no bound image.
const DefaultTextureSize = 2048

// Overlay colors for hovered components.
var (
	highlight = mesh.Color{1, 1, 0, 1}
	faceFill  = mesh.Color{1, 1, 0, 0.2}
)

// localRay transforms a world-space ray into mesh-local space.
func localRay(m mesh.Mesh, origin, direction math.Vec3) (math.Vec3, math.Vec3) {
	inv := m.WorldMatrix().Inverse()
	return inv.TransformPoint(origin), inv.TransformDirection(direction)
}

// castEvent casts the event ray against rc.
func castEvent(m mesh.Mesh, rc mesh.Raycaster, ev Event) (mesh.Hit, bool) {
	o, d := localRay(m, ev.Origin, ev.Direction)
	return rc.Cast(o, d)
}

// faceComponent wraps a face index, or returns mesh.None for a miss.
func faceComponent(face int) mesh.Component {
	if face < 0 {
		return mesh.None
	}
	return mesh.Component{Kind: mesh.ComponentFace, Face: face, Vertex: -1}
}
