package rects

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/neotile/pkg/math"
)

func square(x, y, size float32) Rect {
	return Rect{
		TopLeft:     math.Vec2{X: x, Y: y + size},
		TopRight:    math.Vec2{X: x + size, Y: y + size},
		BottomLeft:  math.Vec2{X: x, Y: y},
		BottomRight: math.Vec2{X: x + size, Y: y},
	}
}

func TestCollectionRectOutOfRange(t *testing.T) {
	c := NewCollection("tiles", "tiles.tmprj")
	c.AddRect(square(0, 0, 0.5))

	_, err := c.Rect(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.Rect(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	r, err := c.Rect(0)
	require.NoError(t, err)
	assert.Equal(t, square(0, 0, 0.5), r)
}

func TestCollectionID(t *testing.T) {
	a := NewCollection("a", "")
	b := NewCollection("b", "")
	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, -1, a.ActivePattern)
}

func TestUpsertRectDedupes(t *testing.T) {
	c := NewCollection("tiles", "")

	r := square(-1, -1, 1)
	r.Preview = "old"
	idx, added := c.UpsertRect(r)
	assert.Equal(t, 0, idx)
	assert.True(t, added)

	r.Preview = "new"
	idx, added = c.UpsertRect(r)
	assert.Equal(t, 0, idx)
	assert.False(t, added)
	assert.Equal(t, "new", c.Rects[0].Preview)

	idx, added = c.UpsertRect(square(0, 0, 1))
	assert.Equal(t, 1, idx)
	assert.True(t, added)
	assert.Len(t, c.Rects, 2)
}

func TestMatchEpsilon(t *testing.T) {
	c := NewCollection("tiles", "")
	c.AddRect(square(0, 0, 0.5))

	q := square(0.00001, 0, 0.5).Corners()
	assert.Equal(t, Unresolved, c.FindRect(q))

	c.MatchEpsilon = 1e-4
	assert.Equal(t, 0, c.FindRect(q))
}

func TestPatternAddRemoveActive(t *testing.T) {
	c := NewCollection("tiles", "")

	p0 := c.AddPattern()
	assert.Equal(t, "Pattern", p0.Name)
	assert.True(t, p0.ResetStrokeOnClick)
	assert.True(t, p0.AllowRepaint)
	assert.False(t, p0.UseRandom)
	assert.Equal(t, 0, c.ActivePattern)

	c.AddPattern()
	c.AddPattern()
	assert.Equal(t, 2, c.ActivePattern)

	// removing the last pattern clamps active to the new last one
	c.RemovePattern()
	assert.Len(t, c.Patterns, 2)
	assert.Equal(t, 1, c.ActivePattern)

	c.ActivePattern = 0
	c.RemovePattern()
	assert.Len(t, c.Patterns, 1)
	assert.Equal(t, 0, c.ActivePattern)

	c.RemovePattern()
	assert.Empty(t, c.Patterns)
	assert.Equal(t, -1, c.ActivePattern)
	assert.Nil(t, c.ActivePatternRef())

	// no-op on empty
	c.RemovePattern()
	assert.Equal(t, -1, c.ActivePattern)
}

func TestPatternEntries(t *testing.T) {
	c := NewCollection("tiles", "")
	c.AddRect(square(-1, -1, 1))
	c.AddRect(square(0, 0, 1))
	p := c.AddPattern()

	i := p.AddEntry()
	assert.Equal(t, Unresolved, p.Entries[i].RectIndex)
	_, ok := p.EntryRect(i, c)
	assert.False(t, ok)

	require.NoError(t, p.SetEntry(i, c, 1))
	assert.Equal(t, 1, p.Entries[i].RectIndex)
	assert.Equal(t, c.Rects[1].Corners(), p.Entries[i].Corners)

	assert.ErrorIs(t, p.SetEntry(i, c, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.SetEntry(3, c, 0), ErrIndexOutOfRange)

	j := p.AddEntry()
	require.NoError(t, p.SetEntry(j, c, 0))

	r, ok := p.EntryRect(0, c)
	require.True(t, ok)
	assert.Equal(t, c.Rects[1], r)

	// bounded adjacent swap
	at, err := p.MoveEntry(0, true)
	require.NoError(t, err)
	assert.Equal(t, 0, at)
	assert.Equal(t, 1, p.Entries[0].RectIndex)

	at, err = p.MoveEntry(0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, at)
	assert.Equal(t, 0, p.Entries[0].RectIndex)
	assert.Equal(t, 1, p.Entries[1].RectIndex)

	at, err = p.MoveEntry(1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, at)

	_, err = p.MoveEntry(2, true)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	require.NoError(t, p.RemoveEntry(0))
	assert.Len(t, p.Entries, 1)
	assert.ErrorIs(t, p.RemoveEntry(1), ErrIndexOutOfRange)
}

func TestResolveAfterReload(t *testing.T) {
	c := NewCollection("tiles", "")
	c.AddRect(square(-1, -1, 1))
	c.AddRect(square(0, 0, 1))
	p := c.AddPattern()
	require.NoError(t, p.SetEntry(p.AddEntry(), c, 1))

	c.Clear()
	assert.Equal(t, Unresolved, p.Entries[0].RectIndex)

	// reloaded in a different order
	c.AddRect(square(0.5, 0.5, 0.25))
	c.AddRect(square(0, 0, 1))
	assert.Equal(t, 0, c.ResolvePatterns())
	assert.Equal(t, 1, p.Entries[0].RectIndex)

	c.Clear()
	c.AddRect(square(-1, -1, 1))
	assert.Equal(t, 1, c.ResolvePatterns())
	_, ok := p.EntryRect(0, c)
	assert.False(t, ok)
}

func TestPagination(t *testing.T) {
	c := NewCollection("tiles", "")
	for i := 0; i < 45; i++ {
		c.AddRect(square(float32(i)/100, 0, 0.01))
	}

	start, end := c.PageItems(MaxItemsPerPage)
	assert.Equal(t, 0, start)
	assert.Equal(t, 20, end)

	c.NextPage(MaxItemsPerPage)
	c.NextPage(MaxItemsPerPage)
	assert.Equal(t, 2, c.Page)
	start, end = c.PageItems(MaxItemsPerPage)
	assert.Equal(t, 40, start)
	assert.Equal(t, 45, end)

	// already on the last page
	c.NextPage(MaxItemsPerPage)
	assert.Equal(t, 2, c.Page)

	c.PrevPage()
	assert.Equal(t, 1, c.Page)
	c.FirstPage()
	c.PrevPage()
	assert.Equal(t, 0, c.Page)
}

func TestPaginationBounds(t *testing.T) {
	tests := []struct {
		items    int
		maxPages int
	}{
		{0, 0},
		{1, 0},
		{20, 0},
		{21, 1},
		{40, 1},
		{41, 2},
	}

	for _, tc := range tests {
		c := NewCollection("tiles", "")
		for i := 0; i < tc.items; i++ {
			c.AddRect(square(float32(i), 0, 1))
		}
		for i := 0; i < 5; i++ {
			c.NextPage(MaxItemsPerPage)
		}
		if c.Page != tc.maxPages {
			t.Errorf("%d items: page = %d, want %d", tc.items, c.Page, tc.maxPages)
		}
		if tc.items > 0 && c.Page*MaxItemsPerPage > tc.items-1 {
			t.Errorf("%d items: page %d starts past the last item", tc.items, c.Page)
		}
	}
}

func TestLibrary(t *testing.T) {
	l := NewLibrary()
	a := l.Add("a", "a.tmprj")
	b := l.Add("b", "b.tmprj")
	assert.Equal(t, 2, l.Len())

	again := l.Add("a", "moved/a.tmprj")
	assert.Same(t, a, again)
	assert.Equal(t, "moved/a.tmprj", a.Path)
	assert.Equal(t, 2, l.Len())

	found, idx := l.FindByName("b")
	assert.Same(t, b, found)
	assert.Equal(t, 1, idx)

	found, idx = l.FindByID(b.ID)
	assert.Same(t, b, found)
	assert.Equal(t, 1, idx)

	_, idx = l.FindByName("missing")
	assert.Equal(t, -1, idx)

	require.NoError(t, l.Remove(0))
	assert.ErrorIs(t, l.Remove(3), ErrIndexOutOfRange)
	_, err := l.Get(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	got, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
}

func TestLibraryRoundTrip(t *testing.T) {
	l := NewLibrary()
	c := l.Add("tiles", "art/tiles.tmprj")
	r := square(-1, -1, 0.5)
	r.Preview = ".Atlas_tiles_Preview0"
	r.Atlas = "Atlas_tiles"
	c.AddRect(r)
	c.AddRect(square(0.25, -0.75, 0.5))
	p := c.AddPattern()
	p.Name = "bricks"
	p.UseRandom = true
	require.NoError(t, p.SetEntry(p.AddEntry(), c, 1))
	p.AddEntry()

	path := filepath.Join(t.TempDir(), "nested", "library.yaml")
	require.NoError(t, SaveLibrary(path, l))

	loaded, err := LoadLibrary(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	lc, err := loaded.Get(0)
	require.NoError(t, err)
	assert.Equal(t, c.ID, lc.ID)
	assert.Equal(t, c.Path, lc.Path)
	assert.Equal(t, c.Rects, lc.Rects)
	require.Len(t, lc.Patterns, 1)
	assert.Equal(t, "bricks", lc.Patterns[0].Name)
	assert.True(t, lc.Patterns[0].UseRandom)
	assert.Equal(t, 1, lc.Patterns[0].Entries[0].RectIndex)
	assert.Equal(t, Unresolved, lc.Patterns[0].Entries[1].RectIndex)
	assert.Equal(t, 0, lc.ActivePattern)
}

func TestLoadLibraryMissing(t *testing.T) {
	_, err := LoadLibrary(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestQuadUnit(t *testing.T) {
	q := Quad{{X: -1, Y: 1}, {X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}
	u := q.Unit()
	assert.Equal(t, Quad{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}, u)

	lo, hi := q.Bounds()
	assert.Equal(t, math.Vec2{X: -1, Y: -1}, lo)
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, hi)
}
