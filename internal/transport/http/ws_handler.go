package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/proto"
	"github.com/wireboard/wireboard-server/internal/relay"
	"github.com/wireboard/wireboard-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to relay clients.
type WSHandler struct {
	hub relay.Relay
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub relay.Relay, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := relay.NewClient(utils.NewID())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop routes inbound frames: joinroom updates membership, everything
// else is relayed untouched to the frame's room. The relay performs no
// payload validation; a frame without a routable room id is simply dropped.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *relay.Client) error {
	for {
		var frame proto.Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return err
		}

		switch frame.Event {
		case proto.EventJoinRoom:
			var roomID string
			if err := json.Unmarshal(frame.Data, &roomID); err != nil || roomID == "" {
				h.log.Debug().Str("client_id", client.ID).Msg("join without room id")
				continue
			}
			h.hub.Join(client, roomID)
		case proto.EventCommand, proto.EventCursorMove:
			var routing proto.Routing
			if err := json.Unmarshal(frame.Data, &routing); err != nil || routing.RoomID == "" {
				h.log.Debug().
					Str("client_id", client.ID).
					Str("event", frame.Event).
					Msg("frame without room id")
				continue
			}
			h.hub.Broadcast(client, routing.RoomID, frame)
		default:
			h.log.Debug().
				Str("client_id", client.ID).
				Str("event", frame.Event).
				Msg("unknown event")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *relay.Client) error {
	for {
		select {
		case frame, ok := <-client.Frames:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws frame")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
