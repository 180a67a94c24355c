package session

import (
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// resolveComponent picks the face, edge or vertex of the hit face nearest to
// the hit point. Distances are measured in world space against the face
// centroid, each edge midpoint and each vertex; ties keep the earlier
// candidate, so the face wins over an equally distant edge or vertex.
func resolveComponent(m mesh.Mesh, hit mesh.Hit, faceOnly bool) mesh.Component {
	comp := faceComponent(hit.Face)
	if faceOnly {
		return comp
	}

	world := m.WorldMatrix()
	point := world.TransformPoint(hit.Point)
	positions := mesh.FacePositions(m, hit.Face)

	best := point.Distance(world.TransformPoint(mesh.Centroid(positions)))

	for _, e := range mesh.FaceEdges(m, hit.Face) {
		a := m.VertexPosition(e[0])
		b := m.VertexPosition(e[1])
		mid := world.TransformPoint(a.Add(b).Scale(0.5))
		if d := point.Distance(mid); d < best {
			best = d
			comp = mesh.Component{Kind: mesh.ComponentEdge, Face: hit.Face, Edge: e, Vertex: -1}
		}
	}

	for _, v := range m.FaceVerts(hit.Face) {
		if d := point.Distance(world.TransformPoint(m.VertexPosition(v))); d < best {
			best = d
			comp = mesh.Component{Kind: mesh.ComponentVertex, Face: hit.Face, Vertex: v}
		}
	}

	return comp
}

// componentLoops returns the loops a drag of comp moves. Without linked
// faces only loops of the hit face are included.
func componentLoops(m mesh.Mesh, comp mesh.Component, linked bool) []int {
	seen := make(map[int]bool)
	var loops []int
	for _, v := range comp.Verts(m) {
		for _, l := range m.VertexLoops(v) {
			if seen[l] {
				continue
			}
			if !linked && m.LoopFace(l) != comp.Face {
				continue
			}
			seen[l] = true
			loops = append(loops, l)
		}
	}
	return loops
}

// faceSnapshot captures a face's positions and UVs for anchor interpolation.
type faceSnapshot struct {
	face      int
	positions []math.Vec3
	uvs       []math.Vec2
}

func snapshotFace(m mesh.Mesh, face int) faceSnapshot {
	return faceSnapshot{
		face:      face,
		positions: mesh.FacePositions(m, face),
		uvs:       mesh.FaceUVs(m, face),
	}
}

// uvAt interpolates the snapshot UVs at a mesh-local point.
func (s faceSnapshot) uvAt(p math.Vec3) math.Vec2 {
	return math.InterpolateUV(p, s.positions, s.uvs)
}
