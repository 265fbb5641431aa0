package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/proto"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zerolog.Nop()
	hub := NewHub(&logger)
	go hub.Run(ctx)

	sender := NewClient("sender")
	hub.RegisterClient(sender)
	hub.Join(sender, "bench")

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i))
		hub.RegisterClient(c)
		hub.Join(c, "bench")
		clients = append(clients, c)
	}

	// Drain frames for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Frames {
			}
		}(c)
	}

	data, _ := json.Marshal(proto.CommandData{
		Type:   proto.CommandDraw,
		Shape:  "line",
		RoomID: "bench",
		UserID: "sender",
	})
	frame := proto.Frame{Event: proto.EventCommand, Data: data}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Broadcast(sender, "bench", frame)
		<-target.Frames
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
