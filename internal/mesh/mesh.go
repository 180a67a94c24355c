// Package mesh defines the host capabilities the UV tools depend on: mesh
// access, raycasting and drawing. Concrete editor types stay behind these
// interfaces.
package mesh

import "github.com/Faultbox/neotile/pkg/math"

// Mesh gives read access to face/vertex/loop topology and read-write access
// to the active UV layer. Indices are stable for the lifetime of an edit.
type Mesh interface {
	FaceCount() int
	// FaceVerts returns vertex indices in winding order.
	FaceVerts(face int) []int
	// FaceLoops returns loop indices in the same order as FaceVerts.
	FaceLoops(face int) []int
	// VertexPosition returns the object-space position of a vertex.
	VertexPosition(v int) math.Vec3
	// VertexLoops returns every loop that uses the vertex, across all faces.
	VertexLoops(v int) []int
	LoopFace(loop int) int
	LoopUV(loop int) math.Vec2
	SetLoopUV(loop int, uv math.Vec2)
	FaceSelected(face int) bool
	// EditMode reports whether the mesh is being edited; outside edit mode
	// every face takes part in UV operations.
	EditMode() bool
	// WorldMatrix is the object-to-world transform.
	WorldMatrix() math.Mat4
	// FaceTextureSize returns the pixel size of the first image bound to the
	// face's material. ok is false when no image is bound.
	FaceTextureSize(face int) (w, h int, ok bool)
}

// Hit is a raycast result in mesh-local space.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Face     int
	Distance float32
}

// Raycaster finds the nearest face hit by a ray in mesh-local space.
type Raycaster interface {
	Cast(origin, direction math.Vec3) (Hit, bool)
}

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// Renderer draws overlay primitives for the current frame. Lines and
// polygons are in world space.
type Renderer interface {
	DrawLine(a, b math.Vec3, c Color)
	DrawPolygon(points []math.Vec3, c Color)
	// DrawTexturedQuad draws part of a registered image in screen space.
	// Corners and uvs are ordered top-left, top-right, bottom-left,
	// bottom-right.
	DrawTexturedQuad(image string, corners [4]math.Vec2, uvs [4]math.Vec2)
}

// SelectedFaces returns the faces UV operations should touch: the selected
// faces in edit mode, every face otherwise.
func SelectedFaces(m Mesh) []int {
	faces := make([]int, 0, m.FaceCount())
	edit := m.EditMode()
	for f := 0; f < m.FaceCount(); f++ {
		if edit && !m.FaceSelected(f) {
			continue
		}
		faces = append(faces, f)
	}
	return faces
}
