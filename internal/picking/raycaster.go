package picking

import (
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// boundsEpsilon pads face boxes so axis-aligned faces are not culled.
const boundsEpsilon = 1e-4

type faceEntry struct {
	face   int
	bounds AABB
	verts  []math.Vec3
	normal math.Vec3
}

// MeshRaycaster answers ray queries against a mesh in object space.
// Faces are fan-triangulated and culled by their bounding boxes.
// Build a new raycaster after the mesh geometry changes; UV edits do not
// invalidate it.
type MeshRaycaster struct {
	faces []faceEntry
}

// NewMeshRaycaster snapshots the geometry of m.
func NewMeshRaycaster(m mesh.Mesh) *MeshRaycaster {
	rc := &MeshRaycaster{faces: make([]faceEntry, 0, m.FaceCount())}
	for f := 0; f < m.FaceCount(); f++ {
		verts := mesh.FacePositions(m, f)
		rc.faces = append(rc.faces, faceEntry{
			face:   f,
			bounds: BoundsOf(verts).Expand(boundsEpsilon),
			verts:  verts,
			normal: math.PolyNormal(verts),
		})
	}
	return rc
}

// Cast implements mesh.Raycaster. The nearest hit wins; ties keep the lower
// face index.
func (rc *MeshRaycaster) Cast(origin, direction math.Vec3) (mesh.Hit, bool) {
	if direction.LengthSquared() == 0 {
		return mesh.Hit{}, false
	}
	r := NewRay(origin, direction)

	best := mesh.Hit{Face: -1}
	found := false
	for i := range rc.faces {
		fe := &rc.faces[i]
		if _, ok := r.IntersectAABB(fe.bounds); !ok {
			continue
		}
		for k := 1; k+1 < len(fe.verts); k++ {
			t, ok := r.IntersectTriangle(fe.verts[0], fe.verts[k], fe.verts[k+1])
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = mesh.Hit{Point: r.At(t), Normal: fe.normal, Face: fe.face, Distance: t}
			found = true
		}
	}
	return best, found
}
