package session

import (
	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/utils"
)

// State is the drawing session state, driven by pointer events gated on the
// active tool.
type State int

const (
	Idle State = iota
	DrawingLine
	DrawingEllipse
	Selecting
)

// Tool is the active drawing tool.
type Tool string

const (
	ToolPencil  Tool = "pencil"
	ToolEraser  Tool = "eraser"
	ToolEllipse Tool = "ellipse"
	ToolSelect  Tool = "cursor"
	ToolText    Tool = "text"
)

// Stroke constants. The eraser draws in the canvas background color with a
// markedly wider stroke instead of deleting shapes.
const (
	pencilWidth  = 4.0
	eraserWidth  = 40.0
	eraserColor  = "white"
	ellipseWidth = 2.0
	textFontSize = 22.0
	textFill     = "black"
)

// Emitter receives the session's outbound edit and presence events. The sync
// channel implements it; tests substitute a recorder.
type Emitter interface {
	// EmitDraw broadcasts a shape, including in-progress scratch shapes so
	// peers render the live stroke.
	EmitDraw(shape board.Shape)
	// EmitCursor broadcasts the local pointer position.
	EmitCursor(coord board.Point)
}

// Session turns raw pointer events into shape edits against the store.
// All dependencies are passed in explicitly; there is no ambient
// current-user or selection state.
type Session struct {
	store *board.Store
	stack *board.CommandStack
	emit  Emitter

	tool  Tool
	color string

	state     State
	anchor    board.Point
	line      *board.Line
	ellipse   *board.Ellipse
	selection *board.Rect
}

// New constructs an idle session with the pencil tool and black strokes.
func New(store *board.Store, stack *board.CommandStack, emit Emitter) *Session {
	return &Session{
		store: store,
		stack: stack,
		emit:  emit,
		tool:  ToolPencil,
		color: "black",
	}
}

// SetTool selects the active tool. Exactly one tool is active at a time.
func (s *Session) SetTool(tool Tool) { s.tool = tool }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetColor selects the stroke color for subsequent shapes.
func (s *Session) SetColor(color string) { s.color = color }

// State returns the current drawing state.
func (s *Session) State() State { return s.state }

// Selection returns the in-progress selection rectangle, if any. It is local
// display state and is never broadcast.
func (s *Session) Selection() (board.Rect, bool) {
	if s.selection == nil {
		return board.Rect{}, false
	}
	return *s.selection, true
}

// PointerDown begins an edit according to the active tool.
func (s *Session) PointerDown(p board.Point) {
	switch s.tool {
	case ToolPencil, ToolEraser:
		stroke, width := s.color, pencilWidth
		if s.tool == ToolEraser {
			stroke, width = eraserColor, eraserWidth
		}
		s.line = &board.Line{
			ID:          utils.NewID(),
			Points:      []float64{p.X, p.Y},
			Stroke:      stroke,
			StrokeWidth: width,
		}
		s.state = DrawingLine
		// Broadcast the starting point so peers see the stroke from its
		// first pixel.
		s.emit.EmitDraw(*s.line)
	case ToolEllipse:
		// Only the anchor is recorded; the shape exists after the first move.
		s.anchor = p
		s.ellipse = nil
		s.state = DrawingEllipse
	case ToolSelect:
		s.anchor = p
		s.selection = nil
		s.state = Selecting
	}
}

// PointerMove advances the in-progress edit and always emits a presence
// update, whatever the tool and state.
func (s *Session) PointerMove(p board.Point) {
	s.emit.EmitCursor(p)

	switch s.state {
	case DrawingLine:
		s.line.Points = append(s.line.Points, p.X, p.Y)
		s.emit.EmitDraw(*s.line)
	case DrawingEllipse:
		center, rx, ry := board.EllipseParams(s.anchor, p)
		id := utils.NewID()
		if s.ellipse != nil {
			id = s.ellipse.ID
		}
		s.ellipse = &board.Ellipse{
			ID:          id,
			X:           center.X,
			Y:           center.Y,
			RadiusX:     rx,
			RadiusY:     ry,
			Stroke:      s.color,
			StrokeWidth: ellipseWidth,
		}
		s.emit.EmitDraw(*s.ellipse)
	case Selecting:
		rect := board.SelectionRect(s.anchor, p)
		s.selection = &rect
	}
}

// PointerUp commits the in-progress shape, if one accumulated, and returns to
// Idle. A click with no drag commits nothing.
func (s *Session) PointerUp() {
	switch s.state {
	case DrawingLine:
		// A line needs at least two point pairs; a bare click leaves only
		// the down position.
		if s.line != nil && len(s.line.Points) >= 4 {
			s.commit(*s.line)
		}
		s.line = nil
	case DrawingEllipse:
		if s.ellipse != nil {
			s.commit(*s.ellipse)
		}
		s.ellipse = nil
	case Selecting:
		s.selection = nil
	}
	s.state = Idle
}

// InsertText commits a text shape at the given position and broadcasts it.
// Text entry is a single commit rather than a drag interaction.
func (s *Session) InsertText(p board.Point, content string) {
	if content == "" {
		return
	}
	text := board.Text{
		ID:       utils.NewID(),
		X:        p.X,
		Y:        p.Y,
		Text:     content,
		FontSize: textFontSize,
		Fill:     textFill,
	}
	s.commit(text)
	s.emit.EmitDraw(text)
}

func (s *Session) commit(shape board.Shape) {
	switch v := shape.(type) {
	case board.Line:
		s.store.Lines.Append(v)
	case board.Ellipse:
		s.store.Ellipses.Append(v)
	case board.Text:
		s.store.Texts.Append(v)
	}
	cmd, err := board.NewDrawCommand(utils.NewID(), shape)
	if err != nil {
		return
	}
	s.stack.Push(cmd)
}
