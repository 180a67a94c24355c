package mesh

import "github.com/Faultbox/neotile/pkg/math"

// FacePositions returns the object-space vertex positions of a face.
func FacePositions(m Mesh, face int) []math.Vec3 {
	verts := m.FaceVerts(face)
	out := make([]math.Vec3, len(verts))
	for i, v := range verts {
		out[i] = m.VertexPosition(v)
	}
	return out
}

// FaceUVs returns the loop UVs of a face in winding order.
func FaceUVs(m Mesh, face int) []math.Vec2 {
	loops := m.FaceLoops(face)
	out := make([]math.Vec2, len(loops))
	for i, l := range loops {
		out[i] = m.LoopUV(l)
	}
	return out
}

// FaceEdges returns the vertex pairs of a face's edges in winding order.
func FaceEdges(m Mesh, face int) [][2]int {
	verts := m.FaceVerts(face)
	edges := make([][2]int, len(verts))
	for i := range verts {
		edges[i] = [2]int{verts[i], verts[(i+1)%len(verts)]}
	}
	return edges
}

// Centroid returns the mean of the points.
func Centroid(points []math.Vec3) math.Vec3 {
	var c math.Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float32(len(points)))
}

// Tangent returns a stable in-plane direction for a polygon.
// Quads use the longer of the two opposite edge pairs, other polygons their
// longest edge.
func Tangent(points []math.Vec3) math.Vec3 {
	if len(points) == 4 {
		a := points[3].Sub(points[2]).Add(points[0].Sub(points[1]))
		b := points[0].Sub(points[3]).Add(points[1].Sub(points[2]))
		if a.LengthSquared() < b.LengthSquared() {
			a = b
		}
		return a.Normalize()
	}

	var longest math.Vec3
	for i := range points {
		e := points[(i+1)%len(points)].Sub(points[i])
		if e.LengthSquared() > longest.LengthSquared() {
			longest = e
		}
	}
	return longest.Normalize()
}

// WorldFace is a face's geometry transformed into world space.
type WorldFace struct {
	Positions []math.Vec3
	Center    math.Vec3
	Normal    math.Vec3
	Tangent   math.Vec3
}

// FaceWorld transforms a face by the mesh's world matrix.
func FaceWorld(m Mesh, face int) WorldFace {
	mw := m.WorldMatrix()
	local := FacePositions(m, face)

	world := make([]math.Vec3, len(local))
	for i, p := range local {
		world[i] = mw.TransformPoint(p)
	}

	return WorldFace{
		Positions: world,
		Center:    mw.TransformPoint(Centroid(local)),
		Normal:    mw.TransformNormal(math.PolyNormal(local)),
		Tangent:   math.QuatFromMat4(mw).Rotate(Tangent(local)),
	}
}
