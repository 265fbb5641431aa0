package proto

import (
	"encoding/json"
	"fmt"
)

// Event names carried in the frame envelope.
const (
	EventJoinRoom   = "joinroom"
	EventCommand    = "command"
	EventCursorMove = "cursormove"
)

// Command types inside an EventCommand payload.
const (
	CommandDraw = "draw"
	CommandUndo = "undo"
	CommandRedo = "redo"
)

// Frame is the envelope for every socket message in both directions. The
// relay fans frames out verbatim; only joinroom is interpreted server-side.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewFrame marshals data into a frame for the given event.
func NewFrame(event string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, fmt.Errorf("marshal %s data: %w", event, err)
	}
	return Frame{Event: event, Data: raw}, nil
}

// JoinFrame builds a joinroom frame. The payload is the bare room id string.
func JoinFrame(roomID string) (Frame, error) {
	return NewFrame(EventJoinRoom, roomID)
}

// Coord is a pointer position on the canvas.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CommandData is the payload of an EventCommand frame.
//
// Type draw carries the full shape in ShapeObj (live stroke updates and
// committed shapes alike; receivers upsert by id). Type undo carries only
// TargetShapeID: peers remove that shape, they never run their own undo
// logic. Type redo carries the full shape again in ShapeObj, since peers
// discarded it on undo and must re-insert it verbatim.
type CommandData struct {
	Type          string          `json:"type"`
	Shape         string          `json:"shape"`
	ShapeObj      json.RawMessage `json:"shapeObj,omitempty"`
	TargetShapeID string          `json:"targetShapeId,omitempty"`
	RoomID        string          `json:"roomId"`
	UserID        string          `json:"userId"`
}

// CursorData is the payload of an EventCursorMove frame.
type CursorData struct {
	NewCoord Coord  `json:"newCoord"`
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Routing is the minimal slice of a payload the relay reads to pick the
// target room. Everything else passes through untouched.
type Routing struct {
	RoomID string `json:"roomId"`
}
