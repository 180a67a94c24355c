package session

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/internal/uv"
	"github.com/Faultbox/neotile/pkg/math"
)

// Paint errors.
var (
	ErrNoPattern    = errors.New("no active pattern")
	ErrEmptyPattern = errors.New("pattern has no entries")
)

// swatchOffset and swatchSize place the next-tile preview beside the pointer
// in screen pixels.
const (
	swatchOffset = 16
	swatchSize   = 32
)

// Paint is a pattern paint stroke session. While the primary button is held,
// every face the pointer enters is unwrapped into the next pattern entry's
// rect.
type Paint struct {
	ID string
	// Rand picks entry indices for random patterns. It returns a value in
	// [0, n).
	Rand func(n int) int

	mesh    mesh.Mesh
	rc      mesh.Raycaster
	col     *rects.Collection
	pattern *rects.Pattern
	opts    uv.Options
	log     *zap.Logger

	hovered  int
	lastFace int
	index    int
	held     bool
	reset    bool
	painted  map[int]bool
	pointer  math.Vec2
	done     bool
}

// BeginPaint opens a paint session with pattern, which must belong to col.
func BeginPaint(m mesh.Mesh, rc mesh.Raycaster, col *rects.Collection, pattern *rects.Pattern, opts uv.Options) (*Paint, error) {
	if pattern == nil {
		return nil, ErrNoPattern
	}
	if len(pattern.Entries) == 0 {
		return nil, ErrEmptyPattern
	}

	id := uuid.New().String()
	p := &Paint{
		ID:       id,
		Rand:     rand.IntN,
		mesh:     m,
		rc:       rc,
		col:      col,
		pattern:  pattern,
		opts:     opts,
		log:      logger.Named("paint").With(zap.String("session", id)),
		hovered:  -1,
		lastFace: -1,
		painted:  make(map[int]bool),
	}
	p.log.Debug("paint session started",
		zap.String("collection", col.Name),
		zap.String("pattern", pattern.Name),
		zap.Int("entries", len(pattern.Entries)))
	return p, nil
}

// Painted returns how many distinct faces the session has painted.
func (p *Paint) Painted() int {
	return len(p.painted)
}

// Done reports whether the session has ended.
func (p *Paint) Done() bool {
	return p.done
}

// Tick processes one input event.
func (p *Paint) Tick(ev Event) Hint {
	if p.done {
		return Hint{Hovered: mesh.None, Done: true}
	}
	if ev.Escape || ev.Secondary {
		p.End()
		return Hint{Hovered: mesh.None, Done: true}
	}
	p.pointer = ev.Pointer

	p.hovered = -1
	if hit, ok := castEvent(p.mesh, p.rc, ev); ok {
		p.hovered = hit.Face
	}

	switch {
	case ev.Primary && !p.held:
		p.held = true
		p.lastFace = -1
		// Shift inverts the pattern's reset policy for this stroke.
		p.reset = p.pattern.ResetStrokeOnClick != ev.Shift
	case !ev.Primary && p.held:
		p.held = false
	}

	if p.hovered != p.lastFace {
		p.lastFace = p.hovered
		if p.hovered >= 0 && p.held {
			p.enter(p.hovered)
		}
	}

	return Hint{Hovered: faceComponent(p.hovered), Dragging: p.held}
}

// End closes the session.
func (p *Paint) End() {
	if p.done {
		return
	}
	p.done = true
	p.log.Debug("paint session ended", zap.Int("painted", len(p.painted)))
}

func (p *Paint) enter(face int) {
	if p.reset {
		p.index = 0
		p.reset = false
	}
	if p.pattern.AllowRepaint || !p.painted[face] {
		p.step(face)
	}
	p.painted[face] = true
}

// step unwraps face into the current entry and advances the stroke.
func (p *Paint) step(face int) {
	n := len(p.pattern.Entries)
	if p.pattern.UseRandom {
		p.index = p.Rand(n)
	} else if p.index > n-1 {
		p.index = 0
	}
	defer func() { p.index++ }()

	rect, ok := p.pattern.EntryRect(p.index, p.col)
	if !ok {
		p.log.Warn("pattern entry has no rect, skipping face",
			zap.Int("entry", p.index),
			zap.Int("face", face))
		return
	}

	if _, err := uv.Unwrap(p.mesh, []int{face}, rect, p.opts); err != nil {
		p.log.Warn("paint unwrap failed",
			zap.Int("face", face),
			zap.Error(err))
	}
}

// next returns the rect the next sequential step would paint.
func (p *Paint) next() (rects.Rect, bool) {
	if p.pattern.UseRandom {
		return rects.Rect{}, false
	}
	idx := p.index
	if p.reset || idx > len(p.pattern.Entries)-1 {
		idx = 0
	}
	return p.pattern.EntryRect(idx, p.col)
}

// Draw renders the hovered face outline and a swatch of the next tile
// beside the pointer.
func (p *Paint) Draw(r mesh.Renderer) {
	if p.done || r == nil {
		return
	}
	if p.hovered >= 0 {
		drawFace(r, p.mesh, p.hovered)
	}

	if rect, ok := p.next(); ok {
		drawSwatch(r, p.pointer, rect)
	}
}

// drawSwatch draws rect's atlas region beside the pointer. Rects without an
// atlas image are skipped.
func drawSwatch(r mesh.Renderer, pointer math.Vec2, rect rects.Rect) {
	if rect.Atlas == "" {
		return
	}
	x := pointer.X + swatchOffset
	y := pointer.Y + swatchOffset
	corners := [4]math.Vec2{
		{X: x, Y: y},
		{X: x + swatchSize, Y: y},
		{X: x, Y: y + swatchSize},
		{X: x + swatchSize, Y: y + swatchSize},
	}
	r.DrawTexturedQuad(rect.Atlas, corners, rect.Corners().Unit())
}
