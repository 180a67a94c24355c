package session

import (
	stdmath "math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/pkg/math"
)

// DragMode is the transform applied while dragging.
type DragMode uint8

// Drag modes, chosen by the modifiers held at press time.
const (
	DragMove DragMode = iota
	DragScale
	DragRotate
)

// String returns the mode name.
func (d DragMode) String() string {
	switch d {
	case DragMove:
		return "move"
	case DragScale:
		return "scale"
	case DragRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// minScale keeps scale drags from collapsing or mirroring UVs.
const minScale = 0.01

type loopSnapshot struct {
	loop int
	uv   math.Vec2
}

// drag is the state of one press-drag-release gesture. UVs are always
// recomputed from the snapshots, never from the previous tick's output.
type drag struct {
	mode      DragMode
	component mesh.Component
	face      faceSnapshot
	loops     []loopSnapshot
	anchor    math.Vec2
	current   math.Vec2
	// pointer is the accumulated pointer travel since the press.
	pointer math.Vec2
	texel   math.Vec2
}

// Pick is an interactive pick/drag editing session.
type Pick struct {
	ID string

	mesh mesh.Mesh
	rc   mesh.Raycaster
	opts Options
	log  *zap.Logger

	hovered mesh.Component
	hit     mesh.Hit
	drag    *drag

	pointer    math.Vec2
	hasPointer bool
	resync     bool
	primary    bool
	done       bool
}

// BeginPick opens a pick/drag session on m. rc must answer rays in m's
// local space.
func BeginPick(m mesh.Mesh, rc mesh.Raycaster, opts Options) *Pick {
	id := uuid.New().String()
	p := &Pick{
		ID:      id,
		mesh:    m,
		rc:      rc,
		opts:    opts,
		log:     logger.Named("pick").With(zap.String("session", id)),
		hovered: mesh.None,
	}
	p.log.Debug("pick session started",
		zap.Bool("linked_faces", opts.LinkedFaces),
		zap.Bool("pixel_snap", opts.PixelSnap))
	return p
}

// Hovered returns the component under the pointer, or the dragged component
// while dragging.
func (p *Pick) Hovered() mesh.Component {
	return p.hovered
}

// Dragging reports whether a drag is in progress.
func (p *Pick) Dragging() bool {
	return p.drag != nil
}

// Done reports whether the session has ended.
func (p *Pick) Done() bool {
	return p.done
}

// Tick processes one input event.
func (p *Pick) Tick(ev Event) Hint {
	if p.done {
		return Hint{Hovered: mesh.None, Done: true}
	}
	if ev.Escape || ev.Secondary {
		p.End()
		return Hint{Hovered: mesh.None, Done: true}
	}

	delta := p.pointerDelta(ev.Pointer)
	pressed := ev.Primary && !p.primary
	p.primary = ev.Primary

	var hint Hint
	switch {
	case p.drag == nil:
		p.hover(ev)
		if pressed && p.hovered.Kind != mesh.ComponentNone {
			p.startDrag(ev)
		}
	case !ev.Primary:
		p.log.Debug("drag released",
			zap.Stringer("mode", p.drag.mode),
			zap.Int("loops", len(p.drag.loops)))
		p.drag = nil
		p.hover(ev)
	default:
		p.drag.pointer = p.drag.pointer.Add(delta)
		if to, ok := ev.Viewport.wrap(ev.Pointer); ok {
			hint.Warp = &to
			p.resync = true
		}
		p.update(ev)
	}

	hint.Hovered = p.hovered
	hint.Dragging = p.drag != nil
	return hint
}

// End closes the session. UVs written so far are kept.
func (p *Pick) End() {
	if p.done {
		return
	}
	p.done = true
	p.drag = nil
	p.hovered = mesh.None
	p.log.Debug("pick session ended")
}

// pointerDelta returns the pointer motion since the last tick. The first
// tick and the tick after a warp only record the position.
func (p *Pick) pointerDelta(pos math.Vec2) math.Vec2 {
	var delta math.Vec2
	if p.hasPointer && !p.resync {
		delta = pos.Sub(p.pointer)
	}
	p.pointer = pos
	p.hasPointer = true
	p.resync = false
	return delta
}

func (p *Pick) hover(ev Event) {
	hit, ok := castEvent(p.mesh, p.rc, ev)
	if !ok {
		p.hovered = mesh.None
		return
	}
	p.hit = hit
	p.hovered = resolveComponent(p.mesh, hit, p.opts.FaceOnly || ev.Alt)
}

func (p *Pick) startDrag(ev Event) {
	comp := p.hovered
	d := &drag{
		mode:      DragMove,
		component: comp,
		face:      snapshotFace(p.mesh, comp.Face),
		texel:     p.texelSize(comp.Face),
	}
	switch {
	case ev.Ctrl:
		d.mode = DragRotate
	case ev.Shift:
		d.mode = DragScale
	}

	for _, l := range componentLoops(p.mesh, comp, p.opts.LinkedFaces) {
		d.loops = append(d.loops, loopSnapshot{loop: l, uv: p.mesh.LoopUV(l)})
	}
	d.anchor = d.face.uvAt(p.hit.Point)
	d.current = d.anchor
	p.drag = d

	p.log.Debug("drag started",
		zap.Stringer("mode", d.mode),
		zap.Stringer("component", comp.Kind),
		zap.Int("face", comp.Face),
		zap.Int("loops", len(d.loops)))
}

// texelSize returns the UV size of one texel of the face's texture.
func (p *Pick) texelSize(face int) math.Vec2 {
	w, h, ok := p.mesh.FaceTextureSize(face)
	if !ok || w <= 0 || h <= 0 {
		w, h = DefaultTextureSize, DefaultTextureSize
	}
	return math.Vec2{X: 1 / float32(w), Y: 1 / float32(h)}
}

// update rewrites every dragged loop from its snapshot.
func (p *Pick) update(ev Event) {
	d := p.drag

	// The current UV is only taken from hits on the dragged face; misses
	// keep the last resolved value.
	if hit, ok := castEvent(p.mesh, p.rc, ev); ok && hit.Face == d.face.face {
		d.current = d.face.uvAt(hit.Point)
	}

	for _, s := range d.loops {
		uv := p.transform(s.uv)
		if p.opts.PixelSnap {
			uv = snapToTexel(uv, d.texel)
		}
		p.mesh.SetLoopUV(s.loop, uv)
	}
}

func (p *Pick) transform(uv math.Vec2) math.Vec2 {
	d := p.drag
	switch d.mode {
	case DragScale:
		factor := max(1+d.pointer.X*p.opts.ScaleSpeed, minScale)
		return d.anchor.Add(uv.Sub(d.anchor).Scale(factor))
	case DragRotate:
		return math.Rotate2D(uv, d.anchor, d.pointer.X*p.opts.RotateSpeed)
	default:
		// The texture follows the pointer in whole texels of the face's
		// texture: the texel under the press point stays under the pointer.
		step := d.anchor.Sub(d.current).Scale(p.opts.MoveSpeed)
		return uv.Add(snapToTexel(step, d.texel))
	}
}

func snapToTexel(uv, texel math.Vec2) math.Vec2 {
	return math.Vec2{
		X: float32(stdmath.Round(float64(uv.X/texel.X))) * texel.X,
		Y: float32(stdmath.Round(float64(uv.Y/texel.Y))) * texel.Y,
	}
}

// Draw renders the hovered component outline.
func (p *Pick) Draw(r mesh.Renderer) {
	if p.done {
		return
	}
	drawComponent(r, p.mesh, p.hovered)
}
