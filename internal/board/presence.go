package board

// Cursor is the ephemeral presence of one remote user: their last known
// pointer position. Cursors live only for the socket session and are never
// persisted.
type Cursor struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Coord    Point  `json:"coord"`
}

// PresenceSet tracks one cursor per remote user. An update supersedes the
// previous entry for that user rather than appending a second one.
type PresenceSet struct {
	order   []string
	cursors map[string]Cursor
}

// NewPresenceSet constructs an empty presence set.
func NewPresenceSet() *PresenceSet {
	return &PresenceSet{cursors: make(map[string]Cursor)}
}

// Update replaces the cursor for the user, moving it to the end of the order.
func (p *PresenceSet) Update(c Cursor) {
	if _, ok := p.cursors[c.UserID]; ok {
		p.removeOrder(c.UserID)
	}
	p.cursors[c.UserID] = c
	p.order = append(p.order, c.UserID)
}

// Remove drops the cursor for the user, reporting whether it was present.
func (p *PresenceSet) Remove(userID string) bool {
	if _, ok := p.cursors[userID]; !ok {
		return false
	}
	delete(p.cursors, userID)
	p.removeOrder(userID)
	return true
}

// Get returns the cursor for the user.
func (p *PresenceSet) Get(userID string) (Cursor, bool) {
	c, ok := p.cursors[userID]
	return c, ok
}

// Cursors returns all cursors, most recently updated last.
func (p *PresenceSet) Cursors() []Cursor {
	out := make([]Cursor, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.cursors[id])
	}
	return out
}

// Len returns the number of tracked users.
func (p *PresenceSet) Len() int {
	return len(p.cursors)
}

func (p *PresenceSet) removeOrder(userID string) {
	for i, id := range p.order {
		if id == userID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}
