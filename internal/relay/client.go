package relay

import "github.com/wireboard/wireboard-server/internal/proto"

// Client is one socket connection as seen by the relay. The transport layer
// drains Frames into the websocket; the relay closes the channel when the
// client is unregistered.
type Client struct {
	ID     string
	Frames chan proto.Frame
	rooms  map[string]struct{}
}

// NewClient constructs a client with a buffered outbound frame channel.
// Cursor streams are chatty, so the buffer absorbs short bursts; beyond it
// frames are dropped rather than backpressured.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Frames: make(chan proto.Frame, 64),
		rooms:  make(map[string]struct{}),
	}
}
