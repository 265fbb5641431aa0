package board

// Store holds the client-local replicas of the three shape collections.
// It is mutated only from the owning event loop: local edit handlers and
// remote event handlers interleave by loop ordering, not by locking.
type Store struct {
	Lines    *Collection[Line]
	Ellipses *Collection[Ellipse]
	Texts    *Collection[Text]
}

// NewStore constructs a store with empty collections.
func NewStore() *Store {
	return &Store{
		Lines:    NewCollection[Line](),
		Ellipses: NewCollection[Ellipse](),
		Texts:    NewCollection[Text](),
	}
}

// Snapshot is the wholesale, point-in-time state of all collections. It is
// what the persistence gateway loads and saves; there is no incremental form.
type Snapshot struct {
	Lines    []Line    `json:"lines"`
	Ellipses []Ellipse `json:"ellipses"`
	Texts    []Text    `json:"texts"`
}

// Snapshot copies the current state of every collection.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Lines:    s.Lines.Shapes(),
		Ellipses: s.Ellipses.Shapes(),
		Texts:    s.Texts.Shapes(),
	}
}

// Restore replaces all collections with the snapshot contents.
func (s *Store) Restore(snap Snapshot) {
	s.Lines.Replace(snap.Lines)
	s.Ellipses.Replace(snap.Ellipses)
	s.Texts.Replace(snap.Texts)
}

// Empty reports whether no collection holds any shape.
func (s *Store) Empty() bool {
	return s.Lines.Len() == 0 && s.Ellipses.Len() == 0 && s.Texts.Len() == 0
}
