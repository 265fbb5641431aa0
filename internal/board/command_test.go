package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandInverseLaw(t *testing.T) {
	shapes := []Shape{
		Line{ID: "l1", Points: []float64{0, 0, 5, 5, 10, 10}, Stroke: "black", StrokeWidth: 4},
		Ellipse{ID: "e1", X: 120, Y: 130, RadiusX: 20, RadiusY: 30, Stroke: "red", StrokeWidth: 2},
		Text{ID: "t1", X: 10, Y: 20, Text: "hi", FontSize: 22, Fill: "black"},
	}

	for _, shape := range shapes {
		t.Run(string(shape.Kind()), func(t *testing.T) {
			s := NewStore()
			before := s.Snapshot()

			cmd, err := NewDrawCommand("cmd-1", shape)
			require.NoError(t, err)
			assert.Equal(t, shape.ShapeID(), cmd.TargetShapeID)
			assert.NotEqual(t, shape.ShapeID(), cmd.ID)

			require.NoError(t, cmd.Apply(s))
			require.False(t, s.Empty())

			// Revert immediately after apply restores the pre-apply state.
			require.NoError(t, cmd.Revert(s))
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestCommandUnknownKind(t *testing.T) {
	s := NewStore()
	cmd := Command{ID: "c", Shape: "triangle", TargetShapeID: "x", Payload: []byte(`{}`)}

	assert.ErrorIs(t, cmd.Apply(s), ErrUnknownShapeKind)
	assert.ErrorIs(t, cmd.Revert(s), ErrUnknownShapeKind)
}

func TestStackPushClearsRedo(t *testing.T) {
	s := NewStore()
	st := NewCommandStack()

	first := mustDrawCommand(t, Line{ID: "a", Points: []float64{0, 0, 1, 1}})
	s.Lines.Append(Line{ID: "a", Points: []float64{0, 0, 1, 1}})
	st.Push(first)

	_, ok := st.Undo(s)
	require.True(t, ok)
	require.Equal(t, 1, st.RedoLen())

	// New work invalidates the stale redo branch.
	st.Push(mustDrawCommand(t, Line{ID: "b"}))
	assert.Equal(t, 0, st.RedoLen())
	assert.Equal(t, 1, st.UndoLen())
}

func TestStackUndoRedoRoundTrip(t *testing.T) {
	s := NewStore()
	st := NewCommandStack()

	line := Line{ID: "a", Points: []float64{0, 0, 5, 5}, Stroke: "black", StrokeWidth: 4}
	s.Lines.Append(line)
	st.Push(mustDrawCommand(t, line))

	cmd, ok := st.Undo(s)
	require.True(t, ok)
	assert.Equal(t, "a", cmd.TargetShapeID)
	assert.Equal(t, 0, s.Lines.Len())

	cmd, ok = st.Redo(s)
	require.True(t, ok)
	assert.Equal(t, KindLine, cmd.Shape)

	got, found := s.Lines.Get("a")
	require.True(t, found)
	assert.Equal(t, line, got)
	assert.Equal(t, 1, st.UndoLen())
	assert.Equal(t, 0, st.RedoLen())
}

func TestStackUndoEmptyNoOps(t *testing.T) {
	s := NewStore()
	st := NewCommandStack()

	_, ok := st.Undo(s)
	assert.False(t, ok)
	_, ok = st.Redo(s)
	assert.False(t, ok)
}

func TestStackUndoOperatesOnCurrentState(t *testing.T) {
	s := NewStore()
	st := NewCommandStack()

	local := Line{ID: "a", Points: []float64{0, 0, 5, 5}, Stroke: "black"}
	s.Lines.Append(local)
	st.Push(mustDrawCommand(t, local))

	// A concurrent remote edit replaces the shape before undo executes.
	remote := Line{ID: "a", Points: []float64{9, 9}, Stroke: "red"}
	s.Lines.Upsert(remote)

	// Undo removes whatever currently holds the target id; it does not
	// restore a captured snapshot of the stale store.
	_, ok := st.Undo(s)
	require.True(t, ok)
	assert.Equal(t, 0, s.Lines.Len())

	// Redo reinstates the locally drawn payload, not the remote one.
	_, ok = st.Redo(s)
	require.True(t, ok)
	got, found := s.Lines.Get("a")
	require.True(t, found)
	assert.Equal(t, local, got)
}

func mustDrawCommand(t *testing.T, shape Shape) Command {
	t.Helper()
	cmd, err := NewDrawCommand("cmd-"+shape.ShapeID(), shape)
	if err != nil {
		t.Fatalf("build draw command: %v", err)
	}
	return cmd
}
