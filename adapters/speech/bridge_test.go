package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

var testUpgrader = websocket.Upgrader{}

// newBridgeServer runs a fake capture bridge speaking the frame protocol.
func newBridgeServer(t *testing.T, handler func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func collectEvents(t *testing.T, events <-chan repositories.SpeechEvent) []repositories.SpeechEvent {
	t.Helper()
	var collected []repositories.SpeechEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, event)
		case <-timeout:
			t.Fatal("Timed out waiting for bridge events")
		}
	}
}

func TestBridgeCaptureFlow(t *testing.T) {
	server := newBridgeServer(t, func(conn *websocket.Conn) {
		var start bridgeMessage
		if err := conn.ReadJSON(&start); err != nil {
			t.Errorf("Failed to read start frame: %v", err)
			return
		}
		if start.Type != "start" || start.Language != "hi-IN" {
			t.Errorf("Unexpected start frame: %+v", start)
		}

		conn.WriteJSON(bridgeMessage{Type: "transcript", Text: "Tamatar"})
		conn.WriteJSON(bridgeMessage{Type: "transcript", Text: "Tamatar me khad"})

		var stop bridgeMessage
		if err := conn.ReadJSON(&stop); err != nil {
			t.Errorf("Failed to read stop frame: %v", err)
			return
		}
		if stop.Type != "stop" {
			t.Errorf("Unexpected stop frame: %+v", stop)
		}

		conn.WriteJSON(bridgeMessage{Type: "end"})
	})
	defer server.Close()

	capability := NewBridgeCapability(wsURL(server), zaptest.NewLogger(t))

	if err := capability.Start(context.Background(), "hi-IN"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	events := capability.Events()

	// Give the bridge time to deliver the transcripts before stopping.
	first := <-events
	if first.Kind != repositories.SpeechEventTranscript || first.Transcript != "Tamatar" {
		t.Errorf("Unexpected first event: %+v", first)
	}
	second := <-events
	if second.Transcript != "Tamatar me khad" {
		t.Errorf("Unexpected second event: %+v", second)
	}

	if err := capability.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	rest := collectEvents(t, events)
	if len(rest) != 1 || rest[0].Kind != repositories.SpeechEventEnd {
		t.Errorf("Expected a single end event, got %+v", rest)
	}
}

func TestBridgeErrorFrame(t *testing.T) {
	server := newBridgeServer(t, func(conn *websocket.Conn) {
		var start bridgeMessage
		conn.ReadJSON(&start)
		conn.WriteJSON(bridgeMessage{Type: "error", Reason: "microphone denied"})
	})
	defer server.Close()

	capability := NewBridgeCapability(wsURL(server), zaptest.NewLogger(t))

	if err := capability.Start(context.Background(), "hi-IN"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, capability.Events())
	if len(events) != 1 {
		t.Fatalf("Expected a single error event, got %+v", events)
	}
	if events[0].Kind != repositories.SpeechEventError || events[0].Reason != "microphone denied" {
		t.Errorf("Unexpected event: %+v", events[0])
	}
}

func TestBridgeUnavailable(t *testing.T) {
	capability := NewBridgeCapability("", zaptest.NewLogger(t))
	if err := capability.Start(context.Background(), "hi-IN"); !errors.Is(err, entities.ErrCapabilityUnavailable) {
		t.Errorf("Expected ErrCapabilityUnavailable for missing URL, got %v", err)
	}

	capability = NewBridgeCapability("ws://127.0.0.1:1", zaptest.NewLogger(t))
	if err := capability.Start(context.Background(), "hi-IN"); !errors.Is(err, entities.ErrCapabilityUnavailable) {
		t.Errorf("Expected ErrCapabilityUnavailable for unreachable bridge, got %v", err)
	}
}
