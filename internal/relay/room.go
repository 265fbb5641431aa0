package relay

import "github.com/wireboard/wireboard-server/internal/proto"

// Room groups the connections joined to one room id. The relay holds no shape
// state per room; a room is nothing but a membership set.
type Room struct {
	ID      string
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// BroadcastExcept fans a frame out to every member other than origin. The
// sender already holds the state it broadcast, so it must not receive its own
// echo; exclusion happens here by connection identity, never by inspecting
// the payload.
func (r *Room) BroadcastExcept(origin *Client, frame proto.Frame) {
	for client := range r.clients {
		if client == origin {
			continue
		}
		select {
		case client.Frames <- frame:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
