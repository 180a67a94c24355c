package mesh

import (
	"fmt"

	"github.com/Faultbox/neotile/pkg/math"
)

// Memory is an in-memory polygon mesh with a single UV layer.
// Loops are numbered face by face in winding order.
type Memory struct {
	positions   []math.Vec3
	faces       [][]int
	faceLoops   [][]int
	loopFace    []int
	loopVert    []int
	vertLoops   [][]int
	uvs         []math.Vec2
	selected    []bool
	editMode    bool
	world       math.Mat4
	textureSize map[int][2]int
}

// NewMemory builds a mesh from vertex positions and faces given as vertex
// index lists. All faces start selected, in edit mode, with zero UVs.
func NewMemory(positions []math.Vec3, faces [][]int) (*Memory, error) {
	m := &Memory{
		positions:   append([]math.Vec3(nil), positions...),
		faces:       make([][]int, len(faces)),
		faceLoops:   make([][]int, len(faces)),
		vertLoops:   make([][]int, len(positions)),
		selected:    make([]bool, len(faces)),
		editMode:    true,
		world:       math.Identity(),
		textureSize: make(map[int][2]int),
	}

	for f, verts := range faces {
		if len(verts) < 3 {
			return nil, fmt.Errorf("face %d has %d vertices, need at least 3", f, len(verts))
		}
		m.faces[f] = append([]int(nil), verts...)
		m.faceLoops[f] = make([]int, len(verts))
		for i, v := range verts {
			if v < 0 || v >= len(positions) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", f, v, len(positions))
			}
			loop := len(m.loopFace)
			m.loopFace = append(m.loopFace, f)
			m.loopVert = append(m.loopVert, v)
			m.faceLoops[f][i] = loop
			m.vertLoops[v] = append(m.vertLoops[v], loop)
		}
		m.selected[f] = true
	}
	m.uvs = make([]math.Vec2, len(m.loopFace))

	return m, nil
}

// FaceCount implements Mesh.
func (m *Memory) FaceCount() int { return len(m.faces) }

// FaceVerts implements Mesh.
func (m *Memory) FaceVerts(face int) []int { return m.faces[face] }

// FaceLoops implements Mesh.
func (m *Memory) FaceLoops(face int) []int { return m.faceLoops[face] }

// VertexPosition implements Mesh.
func (m *Memory) VertexPosition(v int) math.Vec3 { return m.positions[v] }

// VertexLoops implements Mesh.
func (m *Memory) VertexLoops(v int) []int { return m.vertLoops[v] }

// LoopFace implements Mesh.
func (m *Memory) LoopFace(loop int) int { return m.loopFace[loop] }

// LoopVertex returns the vertex a loop belongs to.
func (m *Memory) LoopVertex(loop int) int { return m.loopVert[loop] }

// LoopUV implements Mesh.
func (m *Memory) LoopUV(loop int) math.Vec2 { return m.uvs[loop] }

// SetLoopUV implements Mesh.
func (m *Memory) SetLoopUV(loop int, uv math.Vec2) { m.uvs[loop] = uv }

// FaceSelected implements Mesh.
func (m *Memory) FaceSelected(face int) bool { return m.selected[face] }

// EditMode implements Mesh.
func (m *Memory) EditMode() bool { return m.editMode }

// WorldMatrix implements Mesh.
func (m *Memory) WorldMatrix() math.Mat4 { return m.world }

// FaceTextureSize implements Mesh.
func (m *Memory) FaceTextureSize(face int) (int, int, bool) {
	s, ok := m.textureSize[face]
	return s[0], s[1], ok
}

// Select sets the selection state of a face.
func (m *Memory) Select(face int, selected bool) { m.selected[face] = selected }

// SetEditMode switches between edit mode and object mode.
func (m *Memory) SetEditMode(edit bool) { m.editMode = edit }

// SetWorldMatrix sets the object-to-world transform.
func (m *Memory) SetWorldMatrix(w math.Mat4) { m.world = w }

// SetFaceTexture records the size of the image bound to a face.
func (m *Memory) SetFaceTexture(face, w, h int) { m.textureSize[face] = [2]int{w, h} }
