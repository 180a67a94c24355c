package session

import (
	stdmath "math"

	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// vertexMarkerScale sizes the vertex cross relative to the face's shortest
// edge.
const vertexMarkerScale = 0.1

func drawComponent(r mesh.Renderer, m mesh.Mesh, c mesh.Component) {
	if r == nil || c.Kind == mesh.ComponentNone {
		return
	}
	world := m.WorldMatrix()

	switch c.Kind {
	case mesh.ComponentFace:
		drawFace(r, m, c.Face)
	case mesh.ComponentEdge:
		a := world.TransformPoint(m.VertexPosition(c.Edge[0]))
		b := world.TransformPoint(m.VertexPosition(c.Edge[1]))
		r.DrawLine(a, b, highlight)
	case mesh.ComponentVertex:
		fw := mesh.FaceWorld(m, c.Face)
		marker := vertexMarker(world.TransformPoint(m.VertexPosition(c.Vertex)), fw.Normal)
		size := shortestEdge(fw.Positions) * vertexMarkerScale
		for _, axis := range []math.Vec3{fw.Tangent, fw.Normal.Cross(fw.Tangent), fw.Normal} {
			a := axis.Scale(size)
			r.DrawLine(marker.TransformPoint(a.Scale(-1)), marker.TransformPoint(a), highlight)
		}
	}
}

// vertexMarker places the vertex cross at p with its in-plane arms turned an
// eighth of a turn about the face normal, between the face's edges.
func vertexMarker(p, normal math.Vec3) math.Mat4 {
	spin := math.QuatFromAxisAngle(normal, stdmath.Pi/4).ToMat4()
	return math.Translate(p.X, p.Y, p.Z).Mul(spin)
}

func drawFace(r mesh.Renderer, m mesh.Mesh, face int) {
	pts := mesh.FaceWorld(m, face).Positions
	r.DrawPolygon(pts, faceFill)
	for i := range pts {
		r.DrawLine(pts[i], pts[(i+1)%len(pts)], highlight)
	}
}

func shortestEdge(pts []math.Vec3) float32 {
	var shortest float32
	for i := range pts {
		l := pts[i].Distance(pts[(i+1)%len(pts)])
		if i == 0 || l < shortest {
			shortest = l
		}
	}
	return shortest
}
