package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/picking"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/internal/uv"
	"github.com/Faultbox/neotile/pkg/math"
)

// Top-left UV of each test rect; None orientation writes it to loop 0.
var (
	tileA = math.Vec2{X: 0, Y: 1}
	tileB = math.Vec2{X: 0, Y: 0.5}
	tileC = math.Vec2{X: 0.5, Y: 1}
)

// tiles returns a collection with three rects and an active pattern that
// plays them in order.
func tiles(t *testing.T) (*rects.Collection, *rects.Pattern) {
	t.Helper()
	col := rects.NewCollection("tiles", "tiles.tmprj")

	full := rects.FullFrame()
	full.Atlas = "Atlas_tiles"
	col.AddRect(full)
	col.AddRect(rects.NewRect(rects.Quad{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}}))
	col.AddRect(rects.NewRect(rects.Quad{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}))

	pat := col.AddPattern()
	for i := range col.Rects {
		e := pat.AddEntry()
		require.NoError(t, pat.SetEntry(e, col, i))
	}
	return col, pat
}

func cornerOptions() uv.Options {
	opts := uv.DefaultOptions()
	opts.Orientation = uv.OrientNone
	return opts
}

func firstUV(m *mesh.Memory, face int) math.Vec2 {
	return m.LoopUV(m.FaceLoops(face)[0])
}

func newPaint(t *testing.T, m *mesh.Memory, col *rects.Collection, pat *rects.Pattern) *Paint {
	t.Helper()
	p, err := BeginPaint(m, picking.NewMeshRaycaster(m), col, pat, cornerOptions())
	require.NoError(t, err)
	return p
}

func faceCentre(face int) Event {
	return at(float32(face)+0.5, 0.5)
}

func TestPaintSequentialStroke(t *testing.T) {
	m := row(t, 4)
	col, pat := tiles(t)
	p := newPaint(t, m, col, pat)

	for f := 0; f < 4; f++ {
		hint := p.Tick(held(faceCentre(f)))
		assert.True(t, hint.Dragging)
		assert.Equal(t, f, hint.Hovered.Face)
	}

	assert.Equal(t, tileA, firstUV(m, 0))
	assert.Equal(t, tileB, firstUV(m, 1))
	assert.Equal(t, tileC, firstUV(m, 2))
	assert.Equal(t, tileA, firstUV(m, 3), "the stroke wraps to the first entry")
	assert.Equal(t, 4, p.Painted())
}

func TestPaintOnlyOnFaceChange(t *testing.T) {
	m := row(t, 2)
	col, pat := tiles(t)
	p := newPaint(t, m, col, pat)

	p.Tick(held(faceCentre(0)))
	p.Tick(held(at(0.2, 0.2)))
	p.Tick(held(at(0.7, 0.8)))
	p.Tick(held(faceCentre(1)))

	assert.Equal(t, tileB, firstUV(m, 1), "moving inside a face does not advance the stroke")
}

func TestPaintHoverWithoutButton(t *testing.T) {
	m := row(t, 1)
	col, pat := tiles(t)
	p := newPaint(t, m, col, pat)

	hint := p.Tick(faceCentre(0))
	assert.False(t, hint.Dragging)
	assert.Equal(t, mesh.ComponentFace, hint.Hovered.Kind)
	assert.Equal(t, math.Vec2{X: 0, Y: 0}, firstUV(m, 0))
	assert.Zero(t, p.Painted())
}

func TestPaintAllowRepaint(t *testing.T) {
	tests := []struct {
		name    string
		repaint bool
		want    math.Vec2
	}{
		{"repaint", true, tileC},
		{"no repaint", false, tileA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := row(t, 2)
			col, pat := tiles(t)
			pat.AllowRepaint = tt.repaint
			p := newPaint(t, m, col, pat)

			p.Tick(held(faceCentre(0)))
			p.Tick(held(faceCentre(1)))
			p.Tick(held(faceCentre(0)))

			assert.Equal(t, tt.want, firstUV(m, 0))
			assert.Equal(t, 2, p.Painted())
		})
	}
}

func TestPaintResetStrokeOnClick(t *testing.T) {
	tests := []struct {
		name  string
		reset bool
		shift bool
		want  math.Vec2
	}{
		{"reset", true, false, tileA},
		{"reset inverted by shift", true, true, tileB},
		{"continue", false, false, tileB},
		{"continue inverted by shift", false, true, tileA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := row(t, 2)
			col, pat := tiles(t)
			pat.ResetStrokeOnClick = tt.reset
			p := newPaint(t, m, col, pat)

			p.Tick(held(faceCentre(0)))
			p.Tick(faceCentre(0))

			press := held(faceCentre(1))
			press.Shift = tt.shift
			p.Tick(press)

			assert.Equal(t, tt.want, firstUV(m, 1))
		})
	}
}

func TestPaintRandom(t *testing.T) {
	m := row(t, 3)
	col, pat := tiles(t)
	pat.UseRandom = true
	p := newPaint(t, m, col, pat)

	var calls []int
	p.Rand = func(n int) int {
		calls = append(calls, n)
		return 2
	}

	for f := 0; f < 3; f++ {
		p.Tick(held(faceCentre(f)))
	}

	assert.Equal(t, []int{3, 3, 3}, calls)
	for f := 0; f < 3; f++ {
		assert.Equal(t, tileC, firstUV(m, f))
	}
}

func TestPaintSkipsMissingRects(t *testing.T) {
	m := row(t, 3)
	col, pat := tiles(t)
	pat.Entries[1].RectIndex = rects.Unresolved
	p := newPaint(t, m, col, pat)

	for f := 0; f < 3; f++ {
		p.Tick(held(faceCentre(f)))
	}

	assert.Equal(t, tileA, firstUV(m, 0))
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, firstUV(m, 1), "face keeps its UVs")
	assert.Equal(t, tileC, firstUV(m, 2))
}

func TestBeginPaintErrors(t *testing.T) {
	m := row(t, 1)
	rc := picking.NewMeshRaycaster(m)
	col := rects.NewCollection("empty", "")

	_, err := BeginPaint(m, rc, col, nil, cornerOptions())
	assert.ErrorIs(t, err, ErrNoPattern)

	_, err = BeginPaint(m, rc, col, col.AddPattern(), cornerOptions())
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestPaintEnd(t *testing.T) {
	m := row(t, 2)
	col, pat := tiles(t)
	p := newPaint(t, m, col, pat)

	p.Tick(held(faceCentre(0)))
	hint := p.Tick(Event{Escape: true})
	assert.True(t, hint.Done)
	assert.True(t, p.Done())

	p.Tick(held(faceCentre(1)))
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, firstUV(m, 1))
}

func TestPaintDrawSwatch(t *testing.T) {
	m := row(t, 2)
	col, pat := tiles(t)
	p := newPaint(t, m, col, pat)

	p.Tick(pointer(faceCentre(0), 10, 10))
	r := &recorder{}
	p.Draw(r)
	assert.Equal(t, 1, r.polygons)
	assert.Equal(t, 4, r.lines)
	require.Equal(t, []string{"Atlas_tiles"}, r.quads)
	assert.Equal(t, [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}, r.uvs[0])

	// The next entry has no atlas image, so no swatch is drawn.
	p.Tick(held(faceCentre(0)))
	r = &recorder{}
	p.Draw(r)
	assert.Empty(t, r.quads)
}
