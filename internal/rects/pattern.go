package rects

import "fmt"

// Unresolved marks a pattern entry whose corners match no rect.
const Unresolved = -1

// PatternEntry is a pattern's copy of a rect's corners plus the index the
// corners currently resolve to.
type PatternEntry struct {
	Corners   Quad `yaml:"corners"`
	RectIndex int  `yaml:"rect_index"`
}

// Pattern is an ordered sequence of rects used for multi-tile painting.
type Pattern struct {
	Name               string         `yaml:"name"`
	Entries            []PatternEntry `yaml:"entries"`
	UseRandom          bool           `yaml:"use_random"`
	ResetStrokeOnClick bool           `yaml:"reset_stroke_on_click"`
	AllowRepaint       bool           `yaml:"allow_repaint"`
}

// NewPattern returns a pattern with default playback settings.
func NewPattern() *Pattern {
	return &Pattern{
		Name:               "Pattern",
		ResetStrokeOnClick: true,
		AllowRepaint:       true,
	}
}

func (p *Pattern) checkEntry(i int) error {
	if i < 0 || i >= len(p.Entries) {
		return fmt.Errorf("pattern entry %d of %d: %w", i, len(p.Entries), ErrIndexOutOfRange)
	}
	return nil
}

// AddEntry appends an unresolved entry and returns its index.
func (p *Pattern) AddEntry() int {
	p.Entries = append(p.Entries, PatternEntry{RectIndex: Unresolved})
	return len(p.Entries) - 1
}

// SetEntry points entry i at rect rectIdx of c, copying its corners.
func (p *Pattern) SetEntry(i int, c *Collection, rectIdx int) error {
	if err := p.checkEntry(i); err != nil {
		return err
	}
	r, err := c.Rect(rectIdx)
	if err != nil {
		return err
	}
	p.Entries[i] = PatternEntry{Corners: r.Corners(), RectIndex: rectIdx}
	return nil
}

// RemoveEntry deletes entry i.
func (p *Pattern) RemoveEntry(i int) error {
	if err := p.checkEntry(i); err != nil {
		return err
	}
	p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
	return nil
}

// MoveEntry swaps entry i with its neighbour above (up) or below. Moving
// past either end is a no-op. It returns the entry's new index.
func (p *Pattern) MoveEntry(i int, up bool) (int, error) {
	if err := p.checkEntry(i); err != nil {
		return i, err
	}
	j := i + 1
	if up {
		j = i - 1
	}
	if j < 0 || j >= len(p.Entries) {
		return i, nil
	}
	p.Entries[i], p.Entries[j] = p.Entries[j], p.Entries[i]
	return j, nil
}

// Resolve recomputes every entry's rect index from its corners and returns
// how many entries matched nothing.
func (p *Pattern) Resolve(c *Collection) int {
	unresolved := 0
	for i := range p.Entries {
		idx := c.FindRect(p.Entries[i].Corners)
		p.Entries[i].RectIndex = idx
		if idx == Unresolved {
			unresolved++
		}
	}
	return unresolved
}

// EntryRect returns the rect entry i resolves to. ok is false for a missing
// rect or an invalid entry.
func (p *Pattern) EntryRect(i int, c *Collection) (Rect, bool) {
	if p.checkEntry(i) != nil {
		return Rect{}, false
	}
	r, err := c.Rect(p.Entries[i].RectIndex)
	if err != nil {
		return Rect{}, false
	}
	return r, true
}
