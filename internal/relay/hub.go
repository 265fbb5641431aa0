package relay

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/proto"
)

// Relay is the fan-out bus the socket transport talks to. It is an interface
// so a future authoritative relay (e.g. one stamping a monotonic sequence
// number per room) can replace the dumb hub without touching client-side
// merge logic.
type Relay interface {
	Run(ctx context.Context)
	RegisterClient(c *Client)
	UnregisterClient(c *Client)
	Join(c *Client, roomID string)
	Broadcast(origin *Client, roomID string, frame proto.Frame)
}

type hubOp struct {
	kind   opKind
	client *Client
	roomID string
	frame  proto.Frame
}

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opJoin
	opBroadcast
)

// Hub is a stateless room relay: it groups connections by room id and
// rebroadcasts whatever it receives to the other members. No validation, no
// durability, no shape state. If the process restarts, membership is gone
// and clients must rejoin.
type Hub struct {
	ops   chan hubOp
	rooms map[string]*Room
	log   *zerolog.Logger
}

// NewHub constructs a hub. Call Run before registering clients.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		ops:   make(chan hubOp, 128),
		rooms: make(map[string]*Room),
		log:   logger,
	}
}

// Run processes membership changes and broadcasts on a single goroutine, so
// the group table needs no locking. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case op := <-h.ops:
			h.handle(op)
		case <-ctx.Done():
			return
		}
	}
}

// RegisterClient announces a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.ops <- hubOp{kind: opRegister, client: c}
}

// UnregisterClient removes the connection from every room and closes its
// outbound channel. No other cleanup happens on disconnect.
func (h *Hub) UnregisterClient(c *Client) {
	h.ops <- hubOp{kind: opUnregister, client: c}
}

// Join adds the connection to the named group, creating it on first use.
func (h *Hub) Join(c *Client, roomID string) {
	h.ops <- hubOp{kind: opJoin, client: c, roomID: roomID}
}

// Broadcast fans the frame out verbatim to every other member of the room.
func (h *Hub) Broadcast(origin *Client, roomID string, frame proto.Frame) {
	h.ops <- hubOp{kind: opBroadcast, client: origin, roomID: roomID, frame: frame}
}

func (h *Hub) handle(op hubOp) {
	switch op.kind {
	case opRegister:
		h.log.Debug().Str("client_id", op.client.ID).Msg("client connected")
	case opUnregister:
		for roomID := range op.client.rooms {
			if room, ok := h.rooms[roomID]; ok {
				room.RemoveClient(op.client)
				if room.Empty() {
					delete(h.rooms, roomID)
				}
			}
		}
		op.client.rooms = make(map[string]struct{})
		close(op.client.Frames)
		h.log.Debug().Str("client_id", op.client.ID).Msg("client disconnected")
	case opJoin:
		room, ok := h.rooms[op.roomID]
		if !ok {
			room = NewRoom(op.roomID)
			h.rooms[op.roomID] = room
		}
		room.AddClient(op.client)
		op.client.rooms[op.roomID] = struct{}{}
		h.log.Debug().
			Str("client_id", op.client.ID).
			Str("room_id", op.roomID).
			Msg("client joined room")
	case opBroadcast:
		room, ok := h.rooms[op.roomID]
		if !ok {
			// Unknown room: nothing to relay to.
			return
		}
		room.BroadcastExcept(op.client, op.frame)
	}
}
