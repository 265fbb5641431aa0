package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/proto"
)

// ErrNotConnected is returned by Send while the channel is down. Edits made
// while disconnected are lost for peers; there is no replay. State converges
// again only through the next snapshot save/load.
var ErrNotConnected = errors.New("not connected")

const (
	reconnectBase = 250 * time.Millisecond
	reconnectMax  = 5 * time.Second
)

// Connector keeps one Channel alive for a room: it dials, joins, feeds
// inbound frames to a handler and reconnects with backoff when the transport
// fails, rejoining the room on every new connection.
type Connector struct {
	url    string
	roomID string
	log    *zerolog.Logger

	mu sync.Mutex
	ch *Channel
}

// NewConnector builds a connector for the given relay URL and room.
func NewConnector(url, roomID string, logger *zerolog.Logger) *Connector {
	return &Connector{url: url, roomID: roomID, log: logger}
}

// Send forwards a frame on the current channel. Implements Sender.
func (c *Connector) Send(ctx context.Context, frame proto.Frame) error {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	if ch == nil {
		return ErrNotConnected
	}
	return ch.Send(ctx, frame)
}

// Run connects and pumps inbound frames into handle until ctx is cancelled.
// Each reconnect re-emits the join instruction; the relay forgot the
// membership when the connection dropped.
func (c *Connector) Run(ctx context.Context, handle func(proto.Frame)) error {
	backoff := reconnectBase
	for {
		if err := c.connectAndRead(ctx, handle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("sync channel lost")
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = min(backoff*2, reconnectMax)
	}
}

func (c *Connector) connectAndRead(ctx context.Context, handle func(proto.Frame)) error {
	ch, err := Dial(ctx, c.url)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Join(ctx, c.roomID); err != nil {
		return err
	}

	c.mu.Lock()
	c.ch = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.ch = nil
		c.mu.Unlock()
	}()

	c.log.Info().Str("room_id", c.roomID).Msg("sync channel joined")

	for {
		frame, err := ch.Read(ctx)
		if err != nil {
			return err
		}
		handle(frame)
	}
}
