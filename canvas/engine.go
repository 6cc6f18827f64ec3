// Package canvas is the client drawing engine: it owns one canvas's document,
// turns pointer input into shapes, keeps local undo/redo history, maps the
// viewport and merges events received from the room.
//
// An Engine is driven from a single goroutine. UI input and inbound network
// envelopes may interleave between calls but never run concurrently.
package canvas

import (
	"log/slog"
	"slices"
	"strings"

	"drawboard/protocol"
	"drawboard/shape"
)

// maxPending bounds the sent payloads kept while waiting for their echo.
const maxPending = 256

// Publisher sends locally authored payloads to the room.
type Publisher interface {
	Publish(roomID string, p protocol.Payload) error
}

type Engine struct {
	roomID string
	pub    Publisher

	doc     Document
	history History
	view    Viewport
	tool    Tool
	state   gesture
	style   Style

	surface       Surface
	width, height float64

	// pending holds encoded payloads sent but not yet echoed by the gateway.
	pending []string
}

func New(roomID string, pub Publisher) *Engine {
	return &Engine{
		roomID: roomID,
		pub:    pub,
		view:   NewViewport(),
		tool:   ToolRect,
		state:  idle{},
		style:  DefaultStyle(),
	}
}

// SetSurface attaches the surface redrawn after every change.
func (e *Engine) SetSurface(s Surface, width, height float64) {
	e.surface = s
	e.width, e.height = width, height
	e.redraw()
}

func (e *Engine) SetTool(t Tool) { e.tool = t }
func (e *Engine) Tool() Tool     { return e.tool }

func (e *Engine) SetColor(color string) {
	e.style.Stroke = color
	e.redraw()
}

func (e *Engine) SetTheme(background string) {
	e.style.Background = background
	e.redraw()
}

func (e *Engine) Shapes() []shape.Shape { return e.doc.Shapes() }
func (e *Engine) Viewport() Viewport    { return e.view }
func (e *Engine) History() *History     { return &e.history }

// Preview returns the live shape of an in-progress drag.
func (e *Engine) Preview() shape.Shape {
	if d, ok := e.state.(*dragging); ok {
		s, _ := dragShape(d.tool, d.anchor, d.current)
		return s
	}
	return nil
}

// PendingText reports where the text overlay is open, in screen coordinates.
func (e *Engine) PendingText() (x, y float64, ok bool) {
	if c, ok := e.state.(*composing); ok {
		return c.screenX, c.screenY, true
	}
	return 0, 0, false
}

func (e *Engine) PointerDown(x, y float64) {
	if _, ok := e.state.(idle); !ok {
		return
	}
	at := e.view.ToWorld(x, y)

	switch e.tool {
	case ToolRect, ToolCircle, ToolRhombus, ToolLine:
		e.state = &dragging{tool: e.tool, anchor: at, current: at}
	case ToolPencil:
		h := e.doc.Append(shape.Freehand{Points: []shape.Point{at}})
		e.state = &authoring{stroke: h}
		e.redraw()
	case ToolText:
		e.state = &composing{at: at, screenX: x, screenY: y}
	case ToolErase:
		e.state = &erasing{path: []shape.Point{at}}
	case ToolHand:
		e.state = &panning{lastX: x, lastY: y}
	case ToolSelect:
		h, ok := e.doc.HitTest(at, pickTolerance/e.view.Scale)
		if !ok {
			return
		}
		e.state = &moving{target: h, original: h.Shape(), last: at, prior: e.doc.Shapes()}
	case ToolClear:
		e.Clear()
	}
}

func (e *Engine) PointerMove(x, y float64) {
	at := e.view.ToWorld(x, y)

	switch st := e.state.(type) {
	case *dragging:
		st.current = at
		e.redraw()
	case *authoring:
		if f, ok := st.stroke.Shape().(shape.Freehand); ok {
			e.doc.Set(st.stroke, f.Extend(at))
			e.redraw()
		}
	case *panning:
		e.view.Pan(x-st.lastX, y-st.lastY)
		st.lastX, st.lastY = x, y
		e.redraw()
	case *erasing:
		st.path = append(st.path, at)
	case *moving:
		if cur := st.target.Shape(); cur != nil {
			e.doc.Set(st.target, cur.Translate(at.X-st.last.X, at.Y-st.last.Y))
			st.last = at
			e.redraw()
		}
	}
}

func (e *Engine) PointerUp(x, y float64) {
	if _, ok := e.state.(*composing); ok {
		return
	}
	st := e.state
	e.state = idle{}
	at := e.view.ToWorld(x, y)

	switch st := st.(type) {
	case *dragging:
		if s, ok := dragShape(st.tool, st.anchor, at); ok {
			e.commitAppend(s)
		}
	case *authoring:
		// A stale handle means a remote clear or sync dropped the stroke.
		s := st.stroke.Shape()
		if s == nil {
			e.redraw()
			return
		}
		// Shapes merged during the stroke belong to the undo snapshot.
		e.history.Record(e.doc.ShapesExcept(st.stroke))
		e.publish(protocol.AddShape{Shape: s})
		e.redraw()
	case *erasing:
		path := append(st.path, at)
		tol := pickTolerance / e.view.Scale
		prior := e.doc.Shapes()
		removed := e.doc.RemoveWhere(func(s shape.Shape) bool {
			return shape.IntersectsPath(s, path, tol)
		})
		if len(removed) == 0 {
			return
		}
		e.history.Record(prior)
		e.publish(protocol.Remove{Shapes: removed})
		e.redraw()
	case *moving:
		cur := st.target.Shape()
		if cur == nil || shape.Equal(cur, st.original) {
			return
		}
		e.history.Record(st.prior)
		e.publish(protocol.Update{From: st.original, Shape: cur})
		e.redraw()
	case *panning:
		e.redraw()
	}
}

// Wheel zooms around the cursor at (x, y).
func (e *Engine) Wheel(x, y, deltaY float64) {
	e.view.Wheel(x, y, deltaY)
	e.redraw()
}

func (e *Engine) ZoomIn() {
	e.view.ZoomAt(e.view.Scale+zoomStep, e.width/2, e.height/2)
	e.redraw()
}

func (e *Engine) ZoomOut() {
	e.view.ZoomAt(e.view.Scale-zoomStep, e.width/2, e.height/2)
	e.redraw()
}

// CommitText closes the text overlay. Blank content adds nothing.
func (e *Engine) CommitText(content string) {
	c, ok := e.state.(*composing)
	if !ok {
		return
	}
	e.state = idle{}
	if strings.TrimSpace(content) == "" {
		return
	}
	e.commitAppend(shape.Text{X: c.at.X, Y: c.at.Y, Content: content})
}

func (e *Engine) CancelText() {
	if _, ok := e.state.(*composing); ok {
		e.state = idle{}
	}
}

// Clear empties the document and tells the room.
func (e *Engine) Clear() {
	prior := e.doc.Shapes()
	e.doc.Clear()
	e.history.Record(prior)
	e.publish(protocol.Clear{})
	e.redraw()
}

// Undo restores the snapshot before the last local action. Peers keep it.
func (e *Engine) Undo() bool {
	prev, ok := e.history.Undo(e.doc.Shapes())
	if !ok {
		return false
	}
	e.doc.Replace(prev)
	e.redraw()
	return true
}

func (e *Engine) Redo() bool {
	next, ok := e.history.Redo(e.doc.Shapes())
	if !ok {
		return false
	}
	e.doc.Replace(next)
	e.redraw()
	return true
}

// Receive merges one envelope from the gateway.
func (e *Engine) Receive(env protocol.Envelope) {
	if env.RoomID.String() != e.roomID {
		return
	}

	switch env.Type {
	case protocol.TypeChat:
		if i := slices.Index(e.pending, env.Message); i >= 0 {
			e.pending = slices.Delete(e.pending, i, i+1)
			return
		}
		p, err := protocol.DecodePayload(env.Message)
		if err != nil {
			slog.Warn("dropping undecodable event", "roomId", e.roomID, "error", err)
			return
		}
		Apply(&e.doc, p)
		e.redraw()

	case protocol.TypeSync:
		e.hydrate(env.Events)

	case protocol.TypeError:
		if i := slices.Index(e.pending, env.Rejected); env.Rejected != "" && i >= 0 {
			e.pending = slices.Delete(e.pending, i, i+1)
		}
		slog.Warn("gateway error", "roomId", e.roomID, "reason", env.Message)
	}
}

// hydrate rebuilds the document from room history, then re-applies local
// events the gateway has not echoed yet. Pending events already present in
// the history were stored without an echo and are retired.
func (e *Engine) hydrate(events []protocol.Event) {
	messages := make([]string, 0, len(events)+len(e.pending))
	stored := make(map[string]int, len(events))
	for _, ev := range events {
		messages = append(messages, ev.Message)
		stored[ev.Message]++
	}

	kept := make([]string, 0, len(e.pending))
	for _, msg := range e.pending {
		if stored[msg] > 0 {
			stored[msg]--
			continue
		}
		kept = append(kept, msg)
	}
	e.pending = kept
	messages = append(messages, kept...)

	var doc Document
	Replay(&doc, messages)
	e.doc.Replace(doc.Shapes())
	e.history.Reset()
	e.redraw()
}

func (e *Engine) commitAppend(s shape.Shape) {
	prior := e.doc.Shapes()
	e.doc.Append(s)
	e.history.Record(prior)
	e.publish(protocol.AddShape{Shape: s})
	e.redraw()
}

func (e *Engine) publish(p protocol.Payload) {
	if e.pub == nil {
		return
	}
	msg, err := protocol.EncodePayload(p)
	if err != nil {
		slog.Error("encode payload", "roomId", e.roomID, "error", err)
		return
	}
	if err := e.pub.Publish(e.roomID, p); err != nil {
		slog.Warn("publish failed", "roomId", e.roomID, "error", err)
		return
	}
	e.pending = append(e.pending, msg)
	if n := len(e.pending) - maxPending; n > 0 {
		slog.Warn("dropping unechoed events", "roomId", e.roomID, "count", n)
		e.pending = slices.Delete(e.pending, 0, n)
	}
}

func (e *Engine) redraw() {
	if e.surface == nil {
		return
	}
	Render(e.surface, e.doc.Shapes(), e.Preview(), e.view, e.style)
}
