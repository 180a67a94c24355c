// Package uv projects mesh faces onto atlas rects and edits the resulting
// loop UVs.
package uv

import (
	"fmt"
	"strings"

	"github.com/Faultbox/neotile/pkg/math"
)

// Space selects whether faces are projected on their own or as one surface.
type Space uint8

// Projection spaces.
const (
	SpaceLocal Space = iota
	SpaceGlobal
)

// Orientation selects the up vector of the projection frame.
type Orientation uint8

// Orientation modes.
const (
	OrientFaceTangent Orientation = iota
	OrientWorldAxis
	OrientObjectAxis
	OrientViewAxis
	// OrientNone copies the rect corners straight onto faces of up to four
	// vertices.
	OrientNone
)

// Snap selects the post-projection snapping pass.
type Snap uint8

// Snap modes.
const (
	SnapNone Snap = iota
	SnapCorners
	SnapBounds
)

// RotateMode selects how Rotate moves UVs.
type RotateMode uint8

// Rotate modes.
const (
	// RotateShift cycles UVs between the loops of a face.
	RotateShift RotateMode = iota
	// RotateOrbit turns UVs by 90 degrees about a pivot.
	RotateOrbit
)

// PivotScope selects per-face or selection-wide pivots for Rotate and Flip.
type PivotScope uint8

// Pivot scopes.
const (
	PivotPerFace PivotScope = iota
	PivotShared
)

// Options configures unwrap and UV edit calls. It is passed by value.
type Options struct {
	Space       Space
	Orientation Orientation
	// Axis is the up axis for the world, object and view orientations.
	Axis math.Vec3
	// ViewRotation is the viewport camera rotation for OrientViewAxis.
	ViewRotation  math.Quat
	CorrectAspect bool
	Snap          Snap
	RotateMode    RotateMode
	PivotScope    PivotScope
	// UseBounds pivots non-triangle faces on their UV bounding box center
	// instead of the mean UV.
	UseBounds bool
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		Space:         SpaceLocal,
		Orientation:   OrientFaceTangent,
		Axis:          math.Vec3{Z: 1},
		ViewRotation:  math.QuatIdentity(),
		CorrectAspect: true,
		Snap:          SnapNone,
		RotateMode:    RotateShift,
		PivotScope:    PivotPerFace,
	}
}

var (
	spaceNames       = []string{"local", "global"}
	orientationNames = []string{"face", "world", "object", "view", "none"}
	snapNames        = []string{"none", "corners", "bounds"}
	rotateNames      = []string{"shift", "orbit"}
	pivotNames       = []string{"face", "shared"}
)

func enumName(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum(kind string, names []string, s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (s Space) String() string       { return enumName(spaceNames, uint8(s)) }
func (o Orientation) String() string { return enumName(orientationNames, uint8(o)) }
func (s Snap) String() string        { return enumName(snapNames, uint8(s)) }
func (r RotateMode) String() string  { return enumName(rotateNames, uint8(r)) }
func (p PivotScope) String() string  { return enumName(pivotNames, uint8(p)) }

// ParseSpace parses "local" or "global".
func ParseSpace(s string) (Space, error) {
	v, err := parseEnum("space", spaceNames, s)
	return Space(v), err
}

// ParseOrientation parses "face", "world", "object", "view" or "none".
func ParseOrientation(s string) (Orientation, error) {
	v, err := parseEnum("orientation", orientationNames, s)
	return Orientation(v), err
}

// ParseSnap parses "none", "corners" or "bounds".
func ParseSnap(s string) (Snap, error) {
	v, err := parseEnum("snap mode", snapNames, s)
	return Snap(v), err
}

// ParseRotateMode parses "shift" or "orbit".
func ParseRotateMode(s string) (RotateMode, error) {
	v, err := parseEnum("rotate mode", rotateNames, s)
	return RotateMode(v), err
}

// ParsePivotScope parses "face" or "shared".
func ParsePivotScope(s string) (PivotScope, error) {
	v, err := parseEnum("pivot scope", pivotNames, s)
	return PivotScope(v), err
}
