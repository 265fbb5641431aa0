package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownShapeKind is returned for a command whose shape kind has no
	// apply/revert branch.
	ErrUnknownShapeKind = errors.New("unknown shape kind")
)

// Command is a reversible, serializable edit instruction. It is a tagged
// variant (shape kind, target id, full shape payload) interpreted by pure
// functions over the store, so it survives the network boundary and is not
// bound to any UI callback. The command's own id is distinct from the id of
// the shape it targets.
type Command struct {
	ID            string          `json:"id"`
	Shape         ShapeKind       `json:"shape"`
	TargetShapeID string          `json:"targetShapeId"`
	Payload       json.RawMessage `json:"payload"`
}

// NewDrawCommand wraps a committed shape in a command whose Apply re-appends
// the shape and whose Revert removes it by id.
func NewDrawCommand(id string, shape Shape) (Command, error) {
	payload, err := json.Marshal(shape)
	if err != nil {
		return Command{}, fmt.Errorf("marshal shape payload: %w", err)
	}
	return Command{
		ID:            id,
		Shape:         shape.Kind(),
		TargetShapeID: shape.ShapeID(),
		Payload:       payload,
	}, nil
}

// Apply inserts the command's shape payload into the store as it is NOW, not
// as it was when the command was recorded. Used on redo.
func (c Command) Apply(s *Store) error {
	switch c.Shape {
	case KindLine:
		var line Line
		if err := json.Unmarshal(c.Payload, &line); err != nil {
			return fmt.Errorf("unmarshal line payload: %w", err)
		}
		s.Lines.Upsert(line)
	case KindEllipse:
		var ellipse Ellipse
		if err := json.Unmarshal(c.Payload, &ellipse); err != nil {
			return fmt.Errorf("unmarshal ellipse payload: %w", err)
		}
		s.Ellipses.Upsert(ellipse)
	case KindText:
		var text Text
		if err := json.Unmarshal(c.Payload, &text); err != nil {
			return fmt.Errorf("unmarshal text payload: %w", err)
		}
		s.Texts.Upsert(text)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShapeKind, c.Shape)
	}
	return nil
}

// Revert removes the command's target shape from the current store state.
// If a concurrent remote edit already removed or replaced it, the removal is
// a no-op on an absent id; the stack does not track a captured snapshot to
// restore.
func (c Command) Revert(s *Store) error {
	switch c.Shape {
	case KindLine:
		s.Lines.Remove(c.TargetShapeID)
	case KindEllipse:
		s.Ellipses.Remove(c.TargetShapeID)
	case KindText:
		s.Texts.Remove(c.TargetShapeID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShapeKind, c.Shape)
	}
	return nil
}
