package client

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/wireboard/wireboard-server/internal/proto"
)

// Sender pushes frames toward the room. The engine only needs this slice of
// the channel, which keeps it testable without a live socket.
type Sender interface {
	Send(ctx context.Context, frame proto.Frame) error
}

// Channel is one persistent duplex connection to the relay. Both logical
// event streams, command and cursormove, ride on it, scoped to the room
// joined via Join.
type Channel struct {
	conn *websocket.Conn
}

// Dial opens a websocket connection to the relay.
func Dial(ctx context.Context, url string) (*Channel, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	return &Channel{conn: conn}, nil
}

// Join announces room membership so the relay can group this connection.
// This is the only connection-lifecycle concern the client owns.
func (ch *Channel) Join(ctx context.Context, roomID string) error {
	frame, err := proto.JoinFrame(roomID)
	if err != nil {
		return err
	}
	return ch.Send(ctx, frame)
}

// Send writes one frame.
func (ch *Channel) Send(ctx context.Context, frame proto.Frame) error {
	if err := wsjson.Write(ctx, ch.conn, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Read blocks for the next inbound frame.
func (ch *Channel) Read(ctx context.Context) (proto.Frame, error) {
	var frame proto.Frame
	if err := wsjson.Read(ctx, ch.conn, &frame); err != nil {
		return proto.Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return frame, nil
}

// Close closes the connection with a normal status.
func (ch *Channel) Close() error {
	return ch.conn.Close(websocket.StatusNormalClosure, "closing")
}
