package mesh

import "fmt"

// ComponentKind tags the element under the pointer.
type ComponentKind uint8

// Component kinds.
const (
	ComponentNone ComponentKind = iota
	ComponentFace
	ComponentEdge
	ComponentVertex
)

// String returns a human-readable kind name.
func (k ComponentKind) String() string {
	switch k {
	case ComponentNone:
		return "None"
	case ComponentFace:
		return "Face"
	case ComponentEdge:
		return "Edge"
	case ComponentVertex:
		return "Vertex"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Component identifies a face, edge or vertex of a hit face.
// Face is always the face that was hit; Edge holds the two vertex indices
// of an edge and Vertex a single vertex index, depending on Kind.
type Component struct {
	Kind   ComponentKind
	Face   int
	Edge   [2]int
	Vertex int
}

// None is the empty component.
var None = Component{Kind: ComponentNone, Face: -1, Vertex: -1}

// Verts returns the vertices the component covers.
func (c Component) Verts(m Mesh) []int {
	switch c.Kind {
	case ComponentFace:
		return m.FaceVerts(c.Face)
	case ComponentEdge:
		return []int{c.Edge[0], c.Edge[1]}
	case ComponentVertex:
		return []int{c.Vertex}
	default:
		return nil
	}
}
