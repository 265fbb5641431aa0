package board

// Collection is an ordered sequence of shapes of one kind. Insertion order is
// meaningful for rendering (later entries draw on top); lookup by id is O(1)
// through a secondary index. Ids are unique within a collection.
type Collection[S Shape] struct {
	shapes []S
	index  map[string]int
}

// NewCollection constructs an empty collection.
func NewCollection[S Shape]() *Collection[S] {
	return &Collection[S]{index: make(map[string]int)}
}

// Len returns the number of shapes.
func (c *Collection[S]) Len() int {
	return len(c.shapes)
}

// Get returns the shape with the given id.
func (c *Collection[S]) Get(id string) (S, bool) {
	if pos, ok := c.index[id]; ok {
		return c.shapes[pos], true
	}
	var zero S
	return zero, false
}

// Append adds a shape at the end of the draw order. If a shape with the same
// id already exists it is replaced in place via Upsert to preserve id
// uniqueness.
func (c *Collection[S]) Append(s S) {
	if _, ok := c.index[s.ShapeID()]; ok {
		c.Upsert(s)
		return
	}
	c.index[s.ShapeID()] = len(c.shapes)
	c.shapes = append(c.shapes, s)
}

// Upsert removes any existing shape with the same id, then appends the new
// value at the end. This is the last-writer-wins merge used for remote draw
// events: no timestamps, the latest applied payload simply wins.
func (c *Collection[S]) Upsert(s S) {
	c.Remove(s.ShapeID())
	c.index[s.ShapeID()] = len(c.shapes)
	c.shapes = append(c.shapes, s)
}

// Remove deletes the shape with the given id, reporting whether it existed.
func (c *Collection[S]) Remove(id string) bool {
	pos, ok := c.index[id]
	if !ok {
		return false
	}
	c.shapes = append(c.shapes[:pos], c.shapes[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.shapes); i++ {
		c.index[c.shapes[i].ShapeID()] = i
	}
	return true
}

// Shapes returns a copy of the collection in draw order.
func (c *Collection[S]) Shapes() []S {
	out := make([]S, len(c.shapes))
	copy(out, c.shapes)
	return out
}

// Replace swaps the collection contents wholesale, e.g. when restoring a
// persisted snapshot. Duplicated ids keep the last occurrence.
func (c *Collection[S]) Replace(shapes []S) {
	c.shapes = c.shapes[:0]
	c.index = make(map[string]int, len(shapes))
	for _, s := range shapes {
		c.Upsert(s)
	}
}
