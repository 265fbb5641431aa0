package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/wireboard/wireboard-server/internal/proto"
)

func mustFrame(t *testing.T, ch <-chan proto.Frame, event string) proto.Frame {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case frame := <-ch:
			if frame.Event == event {
				return frame
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected frame with event %q not received", event)
	return proto.Frame{}
}

func mustNoFrame(t *testing.T, ch <-chan proto.Frame) {
	t.Helper()

	// Give the hub time to process anything in flight.
	time.Sleep(50 * time.Millisecond)
	select {
	case frame, ok := <-ch:
		if ok {
			t.Fatalf("unexpected frame received: %+v", frame)
		}
	default:
	}
}

func testFrame(t *testing.T, event string, data any) proto.Frame {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal frame data: %v", err)
	}
	return proto.Frame{Event: event, Data: raw}
}
