package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionAppendAndLookup(t *testing.T) {
	c := NewCollection[Line]()

	c.Append(Line{ID: "a", Points: []float64{0, 0}})
	c.Append(Line{ID: "b", Points: []float64{1, 1}})

	require.Equal(t, 2, c.Len())

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, got.Points)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCollectionUpsertIsIdempotentPerID(t *testing.T) {
	c := NewCollection[Line]()
	c.Append(Line{ID: "a", Stroke: "black"})

	// Applying the same draw twice leaves exactly one shape with that id,
	// equal to the most recent payload.
	c.Upsert(Line{ID: "b", Stroke: "red"})
	c.Upsert(Line{ID: "b", Stroke: "blue"})

	require.Equal(t, 2, c.Len())
	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "blue", got.Stroke)

	// The upserted shape moved to the top of the draw order.
	shapes := c.Shapes()
	assert.Equal(t, "a", shapes[0].ID)
	assert.Equal(t, "b", shapes[1].ID)
}

func TestCollectionRemoveReindexes(t *testing.T) {
	c := NewCollection[Ellipse]()
	c.Append(Ellipse{ID: "a"})
	c.Append(Ellipse{ID: "b"})
	c.Append(Ellipse{ID: "c"})

	require.True(t, c.Remove("b"))
	require.False(t, c.Remove("b"))

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	shapes := c.Shapes()
	assert.Equal(t, "a", shapes[0].ID)
	assert.Equal(t, "c", shapes[1].ID)
}

func TestCollectionReplace(t *testing.T) {
	c := NewCollection[Text]()
	c.Append(Text{ID: "old"})

	c.Replace([]Text{{ID: "x"}, {ID: "y"}})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("old")
	assert.False(t, ok)
	_, ok = c.Get("x")
	assert.True(t, ok)
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := NewStore()
	s.Lines.Append(Line{ID: "l1", Points: []float64{0, 0, 5, 5}})
	s.Ellipses.Append(Ellipse{ID: "e1", RadiusX: 10})

	snap := s.Snapshot()

	other := NewStore()
	other.Restore(snap)

	assert.Equal(t, snap, other.Snapshot())
	assert.False(t, other.Empty())

	// The snapshot is a copy, not a view.
	s.Lines.Remove("l1")
	assert.Equal(t, 1, other.Lines.Len())
}
