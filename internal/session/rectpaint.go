package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/internal/uv"
	"github.com/Faultbox/neotile/pkg/math"
)

// RectPaint is a single-rect paint session. While the primary button is held,
// every face the pointer enters is unwrapped into the selected rect.
//
// Modifiers while painting:
//   - Ctrl mirrors each painted face horizontally, Ctrl+Shift vertically.
//   - Alt picks the rect under the entered face instead of painting it.
//   - Alt with the wheel turns the hovered face a quarter turn, clockwise
//     when scrolling up.
type RectPaint struct {
	ID string

	mesh mesh.Mesh
	rc   mesh.Raycaster
	col  *rects.Collection
	opts uv.Options
	log  *zap.Logger

	rectIdx  int
	rect     rects.Rect
	hovered  int
	lastFace int
	held     bool
	painted  map[int]bool
	pointer  math.Vec2
	done     bool
}

// BeginRectPaint opens a paint session that writes rect rectIdx of col.
func BeginRectPaint(m mesh.Mesh, rc mesh.Raycaster, col *rects.Collection, rectIdx int, opts uv.Options) (*RectPaint, error) {
	rect, err := col.Rect(rectIdx)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	p := &RectPaint{
		ID:       id,
		mesh:     m,
		rc:       rc,
		col:      col,
		opts:     opts,
		log:      logger.Named("rectpaint").With(zap.String("session", id)),
		rectIdx:  rectIdx,
		rect:     rect,
		hovered:  -1,
		lastFace: -1,
		painted:  make(map[int]bool),
	}
	p.log.Debug("rect paint session started",
		zap.String("collection", col.Name),
		zap.Int("rect", rectIdx))
	return p, nil
}

// Rect returns the index of the rect being painted.
func (p *RectPaint) Rect() int {
	return p.rectIdx
}

// Painted returns how many distinct faces the session has painted.
func (p *RectPaint) Painted() int {
	return len(p.painted)
}

// Done reports whether the session has ended.
func (p *RectPaint) Done() bool {
	return p.done
}

// Tick processes one input event.
func (p *RectPaint) Tick(ev Event) Hint {
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
	case !ev.Primary && p.held:
		p.held = false
	}

	if ev.Alt && ev.Wheel != 0 && p.hovered >= 0 {
		p.rotate(p.hovered, ev.Wheel > 0)
		return Hint{Hovered: faceComponent(p.hovered), Dragging: p.held}
	}

	if p.hovered != p.lastFace {
		p.lastFace = p.hovered
		if p.hovered >= 0 && p.held {
			if ev.Alt {
				p.pickFrom(p.hovered)
			} else {
				p.paint(p.hovered, ev)
			}
		}
	}

	return Hint{Hovered: faceComponent(p.hovered), Dragging: p.held}
}

// End closes the session.
func (p *RectPaint) End() {
	if p.done {
		return
	}
	p.done = true
	p.log.Debug("rect paint session ended", zap.Int("painted", len(p.painted)))
}

func (p *RectPaint) paint(face int, ev Event) {
	faces := []int{face}
	if _, err := uv.Unwrap(p.mesh, faces, p.rect, p.opts); err != nil {
		p.log.Warn("paint unwrap failed",
			zap.Int("face", face),
			zap.Error(err))
		return
	}
	p.painted[face] = true

	if ev.Ctrl {
		if err := uv.Flip(p.mesh, faces, !ev.Shift, p.opts); err != nil {
			p.log.Warn("paint flip failed", zap.Int("face", face), zap.Error(err))
		}
	}
}

func (p *RectPaint) rotate(face int, clockwise bool) {
	if err := uv.Rotate(p.mesh, []int{face}, clockwise, p.opts); err != nil {
		p.log.Warn("paint rotate failed", zap.Int("face", face), zap.Error(err))
	}
}

// pickFrom selects the rect the face is already mapped into.
func (p *RectPaint) pickFrom(face int) {
	idx, ok := uv.BestRectForFace(p.mesh, face, p.col)
	if !ok {
		p.log.Warn("no rect matches face", zap.Int("face", face))
		return
	}
	rect, err := p.col.Rect(idx)
	if err != nil {
		p.log.Warn("picked rect is gone", zap.Int("rect", idx), zap.Error(err))
		return
	}
	p.rectIdx, p.rect = idx, rect
	p.log.Debug("rect picked from face", zap.Int("face", face), zap.Int("rect", idx))
}

// Draw renders the hovered face outline and a swatch of the rect beside the
// pointer.
func (p *RectPaint) Draw(r mesh.Renderer) {
	if p.done || r == nil {
		return
	}
	if p.hovered >= 0 {
		drawFace(r, p.mesh, p.hovered)
	}
	drawSwatch(r, p.pointer, p.rect)
}
