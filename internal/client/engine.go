package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/proto"
	"github.com/wireboard/wireboard-server/internal/session"
)

// User identifies the local participant. It is held for the session and is
// not itself part of the synchronized document.
type User struct {
	ID   string
	Name string
}

// Engine is the client-side replication engine for one room session: the
// shape store, the command stack, the drawing session and the merge rules
// for everything arriving over the sync channel. Room and user identity are
// explicit constructor arguments, not ambient globals.
//
// The engine is single-threaded by contract: local pointer handlers and
// HandleFrame interleave only by the caller's event-loop ordering.
type Engine struct {
	roomID string
	user   User

	Store   *board.Store
	Stack   *board.CommandStack
	Session *session.Session
	Cursors *board.PresenceSet

	sender Sender
	log    *zerolog.Logger

	ctx context.Context
}

// NewEngine wires an engine for the given room and user.
func NewEngine(roomID string, user User, sender Sender, logger *zerolog.Logger) *Engine {
	e := &Engine{
		roomID:  roomID,
		user:    user,
		Store:   board.NewStore(),
		Stack:   board.NewCommandStack(),
		Cursors: board.NewPresenceSet(),
		sender:  sender,
		log:     logger,
		ctx:     context.Background(),
	}
	e.Session = session.New(e.Store, e.Stack, e)
	return e
}

// RoomID returns the room this engine is scoped to.
func (e *Engine) RoomID() string { return e.roomID }

// UserID returns the local user's id.
func (e *Engine) UserID() string { return e.user.ID }

// EmitDraw broadcasts a shape edit. Implements session.Emitter. The local
// store was already updated optimistically, so send failures only cost peers
// the update; they are logged, not surfaced.
func (e *Engine) EmitDraw(shape board.Shape) {
	payload, err := json.Marshal(shape)
	if err != nil {
		e.log.Warn().Err(err).Msg("marshal draw shape")
		return
	}
	e.send(proto.EventCommand, proto.CommandData{
		Type:     proto.CommandDraw,
		Shape:    string(shape.Kind()),
		ShapeObj: payload,
		RoomID:   e.roomID,
		UserID:   e.user.ID,
	})
}

// EmitCursor broadcasts the local pointer position. Implements
// session.Emitter.
func (e *Engine) EmitCursor(coord board.Point) {
	e.send(proto.EventCursorMove, proto.CursorData{
		NewCoord: proto.Coord{X: coord.X, Y: coord.Y},
		RoomID:   e.roomID,
		UserID:   e.user.ID,
		UserName: e.user.Name,
	})
}

// Undo reverts the most recent local command against the current store state
// and mirrors the structural change to the room: peers remove the target id,
// they do not run their own undo logic. No-ops without a user or with an
// empty undo stack.
func (e *Engine) Undo() bool {
	if e.user.ID == "" {
		return false
	}
	cmd, ok := e.Stack.Undo(e.Store)
	if !ok {
		return false
	}
	e.send(proto.EventCommand, proto.CommandData{
		Type:          proto.CommandUndo,
		Shape:         string(cmd.Shape),
		TargetShapeID: cmd.TargetShapeID,
		RoomID:        e.roomID,
		UserID:        e.user.ID,
	})
	return true
}

// Redo re-applies the most recent undone command and broadcasts the full
// shape payload, since peers discarded the shape on undo.
func (e *Engine) Redo() bool {
	if e.user.ID == "" {
		return false
	}
	cmd, ok := e.Stack.Redo(e.Store)
	if !ok {
		return false
	}
	e.send(proto.EventCommand, proto.CommandData{
		Type:     proto.CommandRedo,
		Shape:    string(cmd.Shape),
		ShapeObj: cmd.Payload,
		RoomID:   e.roomID,
		UserID:   e.user.ID,
	})
	return true
}

// HandleFrame merges one inbound frame into local state. Frames from the
// wrong room and self-echoes are discarded; malformed payloads are logged
// and dropped without touching the store.
func (e *Engine) HandleFrame(frame proto.Frame) {
	switch frame.Event {
	case proto.EventCommand:
		var data proto.CommandData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			e.log.Warn().Err(err).Msg("malformed command payload")
			return
		}
		e.applyCommand(data)
	case proto.EventCursorMove:
		var data proto.CursorData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			e.log.Warn().Err(err).Msg("malformed cursor payload")
			return
		}
		e.applyCursor(data)
	default:
		e.log.Debug().Str("event", frame.Event).Msg("ignoring unknown event")
	}
}

func (e *Engine) applyCommand(data proto.CommandData) {
	if data.RoomID != e.roomID || data.UserID == e.user.ID {
		return
	}

	switch data.Type {
	case proto.CommandDraw, proto.CommandRedo:
		// Draw upserts by id so replayed live-stroke updates stay
		// idempotent; redo appends the payload verbatim, which is the same
		// operation once the peer removed the shape on undo.
		e.upsertShape(data.Shape, data.ShapeObj)
	case proto.CommandUndo:
		e.removeShape(data.Shape, data.TargetShapeID)
	default:
		e.log.Warn().Str("type", data.Type).Msg("unknown command type")
	}
}

func (e *Engine) upsertShape(kind string, payload json.RawMessage) {
	switch board.ShapeKind(kind) {
	case board.KindLine:
		var line board.Line
		if err := json.Unmarshal(payload, &line); err != nil {
			e.log.Warn().Err(err).Msg("malformed line payload")
			return
		}
		e.Store.Lines.Upsert(line)
	case board.KindEllipse:
		var ellipse board.Ellipse
		if err := json.Unmarshal(payload, &ellipse); err != nil {
			e.log.Warn().Err(err).Msg("malformed ellipse payload")
			return
		}
		e.Store.Ellipses.Upsert(ellipse)
	case board.KindText:
		var text board.Text
		if err := json.Unmarshal(payload, &text); err != nil {
			e.log.Warn().Err(err).Msg("malformed text payload")
			return
		}
		e.Store.Texts.Upsert(text)
	default:
		e.log.Warn().Str("shape", kind).Msg("unknown shape kind")
	}
}

func (e *Engine) removeShape(kind, targetID string) {
	switch board.ShapeKind(kind) {
	case board.KindLine:
		e.Store.Lines.Remove(targetID)
	case board.KindEllipse:
		e.Store.Ellipses.Remove(targetID)
	case board.KindText:
		e.Store.Texts.Remove(targetID)
	default:
		e.log.Warn().Str("shape", kind).Msg("unknown shape kind")
	}
}

func (e *Engine) applyCursor(data proto.CursorData) {
	if data.RoomID != e.roomID || data.UserID == e.user.ID {
		return
	}
	e.Cursors.Update(board.Cursor{
		UserID:   data.UserID,
		UserName: data.UserName,
		Coord:    board.Point{X: data.NewCoord.X, Y: data.NewCoord.Y},
	})
}

// send is fire-and-forget: a lost frame cannot be retracted or replayed, only
// countered by later events.
func (e *Engine) send(event string, data any) {
	frame, err := proto.NewFrame(event, data)
	if err != nil {
		e.log.Warn().Err(err).Str("event", event).Msg("build frame")
		return
	}
	ctx, cancel := context.WithTimeout(e.ctx, 5*time.Second)
	defer cancel()
	if err := e.sender.Send(ctx, frame); err != nil {
		e.log.Warn().Err(err).Str("event", event).Msg("send frame")
	}
}
