package rects

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxItemsPerPage is the default page size for rect browsing.
const MaxItemsPerPage = 20

// Collection is a named set of rects imported from one project file.
// Rect indices are stable and referenced by pattern entries.
type Collection struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Path          string     `yaml:"path"`
	Rects         []Rect     `yaml:"rects"`
	Patterns      []*Pattern `yaml:"patterns"`
	ActivePattern int        `yaml:"active_pattern"`
	Page          int        `yaml:"page"`

	// MatchEpsilon is the per-component tolerance used when matching
	// corners. Zero requires exact equality.
	MatchEpsilon float32 `yaml:"match_epsilon,omitempty"`
}

// NewCollection creates an empty collection with a fresh short ID.
func NewCollection(name, path string) *Collection {
	return &Collection{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Path:          path,
		ActivePattern: -1,
	}
}

// Rect returns the rect at idx.
func (c *Collection) Rect(idx int) (Rect, error) {
	if idx < 0 || idx >= len(c.Rects) {
		return Rect{}, fmt.Errorf("rect %d of %d: %w", idx, len(c.Rects), ErrIndexOutOfRange)
	}
	return c.Rects[idx], nil
}

// AddRect appends a rect and returns its index.
func (c *Collection) AddRect(r Rect) int {
	c.Rects = append(c.Rects, r)
	return len(c.Rects) - 1
}

// FindRect returns the index of the first rect with matching corners, or
// Unresolved.
func (c *Collection) FindRect(q Quad) int {
	for i := range c.Rects {
		if c.Rects[i].Corners().Equal(q, c.MatchEpsilon) {
			return i
		}
	}
	return Unresolved
}

// UpsertRect updates the rect with identical corners in place, or appends r.
// It reports the index and whether a new rect was added.
func (c *Collection) UpsertRect(r Rect) (int, bool) {
	if i := c.FindRect(r.Corners()); i != Unresolved {
		c.Rects[i].Preview = r.Preview
		c.Rects[i].Atlas = r.Atlas
		return i, false
	}
	return c.AddRect(r), true
}

// Clear removes every rect. Patterns are kept; their entries become
// unresolved until ResolvePatterns runs.
func (c *Collection) Clear() {
	c.Rects = c.Rects[:0]
	c.Page = 0
	for _, p := range c.Patterns {
		for i := range p.Entries {
			p.Entries[i].RectIndex = Unresolved
		}
	}
}

// AddPattern appends a pattern with default settings and makes it active.
func (c *Collection) AddPattern() *Pattern {
	p := NewPattern()
	c.Patterns = append(c.Patterns, p)
	c.ActivePattern = len(c.Patterns) - 1
	return p
}

// RemovePattern removes the active pattern. The active index is clamped to
// the remaining patterns (-1 when none are left).
func (c *Collection) RemovePattern() {
	n := len(c.Patterns)
	if c.ActivePattern >= 0 && c.ActivePattern < n {
		c.Patterns = append(c.Patterns[:c.ActivePattern], c.Patterns[c.ActivePattern+1:]...)
		n--
	}
	if c.ActivePattern > n-1 {
		c.ActivePattern = n - 1
	}
}

// Pattern returns the pattern at idx.
func (c *Collection) Pattern(idx int) (*Pattern, error) {
	if idx < 0 || idx >= len(c.Patterns) {
		return nil, fmt.Errorf("pattern %d of %d: %w", idx, len(c.Patterns), ErrIndexOutOfRange)
	}
	return c.Patterns[idx], nil
}

// ActivePatternRef returns the active pattern, or nil if none is selected.
func (c *Collection) ActivePatternRef() *Pattern {
	if c.ActivePattern < 0 || c.ActivePattern >= len(c.Patterns) {
		return nil
	}
	return c.Patterns[c.ActivePattern]
}

// ResolvePatterns re-resolves every pattern entry against the current rects.
// It returns the number of entries left unresolved.
func (c *Collection) ResolvePatterns() int {
	unresolved := 0
	for _, p := range c.Patterns {
		unresolved += p.Resolve(c)
	}
	return unresolved
}

// PageItems returns the half-open rect range shown on the current page.
func (c *Collection) PageItems(maxPerPage int) (start, end int) {
	n := len(c.Rects)
	if n == 0 || maxPerPage <= 0 {
		return 0, 0
	}
	start = c.Page * maxPerPage
	if start > n-1 {
		start = n - 1
	}
	end = min(start+maxPerPage, n)
	return start, end
}

// NextPage advances one page unless the current page is the last one.
func (c *Collection) NextPage(maxPerPage int) {
	if maxPerPage <= 0 {
		return
	}
	if (c.Page+1)*maxPerPage > len(c.Rects)-1 {
		return
	}
	c.Page++
}

// PrevPage moves back one page, stopping at the first.
func (c *Collection) PrevPage() {
	if c.Page > 0 {
		c.Page--
	}
}

// FirstPage resets pagination.
func (c *Collection) FirstPage() {
	c.Page = 0
}
