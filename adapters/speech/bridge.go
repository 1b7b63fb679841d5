package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

const (
	// Time allowed to write a message to the bridge.
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the bridge.
	readWait = 60 * time.Second
)

// bridgeMessage is the JSON frame exchanged with a capture bridge: a small
// WebSocket endpoint (browser page or companion device) that owns the
// microphone and relays recognition events.
type bridgeMessage struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Language string `json:"language,omitempty"`
}

// BridgeCapability implements the speech capability over a WebSocket capture
// bridge. The bridge emits cumulative transcript frames followed by an end
// or error frame per utterance.
type BridgeCapability struct {
	url    string
	logger *zap.Logger

	mu        sync.Mutex
	listening bool
	conn      *websocket.Conn
	events    chan repositories.SpeechEvent
}

// Ensure BridgeCapability implements the SpeechCapability interface
var _ repositories.SpeechCapability = (*BridgeCapability)(nil)

// NewBridgeCapability creates a capability connecting to the bridge at url.
func NewBridgeCapability(url string, logger *zap.Logger) *BridgeCapability {
	return &BridgeCapability{
		url:    url,
		logger: logger,
	}
}

// Start dials the bridge and asks it to begin capturing one utterance.
func (b *BridgeCapability) Start(ctx context.Context, language string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listening {
		return entities.ErrInvalidState
	}
	if b.url == "" {
		return entities.ErrCapabilityUnavailable
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrCapabilityUnavailable, err)
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(bridgeMessage{Type: "start", Language: language}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send start frame: %w", err)
	}

	b.conn = conn
	b.events = make(chan repositories.SpeechEvent, 16)
	b.listening = true

	b.logger.Info("Bridge capture started",
		zap.String("url", b.url),
		zap.String("language", language))

	go b.read(conn)
	return nil
}

// Stop asks the bridge to finish the utterance; the bridge answers with an
// end frame.
func (b *BridgeCapability) Stop() error {
	b.mu.Lock()
	conn := b.conn
	listening := b.listening
	b.mu.Unlock()

	if !listening {
		return entities.ErrInvalidState
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(bridgeMessage{Type: "stop"}); err != nil {
		return fmt.Errorf("failed to send stop frame: %w", err)
	}
	return nil
}

// Events returns the stream for the current capture.
func (b *BridgeCapability) Events() <-chan repositories.SpeechEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events
}

func (b *BridgeCapability) read(conn *websocket.Conn) {
	defer conn.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(readWait))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			b.emit(repositories.SpeechEvent{
				Kind:   repositories.SpeechEventError,
				Reason: err.Error(),
			})
			return
		}

		var msg bridgeMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			b.logger.Warn("Dropping unreadable bridge frame", zap.Error(err))
			continue
		}

		switch msg.Type {
		case "transcript":
			b.emit(repositories.SpeechEvent{
				Kind:       repositories.SpeechEventTranscript,
				Transcript: msg.Text,
			})
		case "end":
			b.emit(repositories.SpeechEvent{Kind: repositories.SpeechEventEnd})
			return
		case "error":
			b.emit(repositories.SpeechEvent{
				Kind:   repositories.SpeechEventError,
				Reason: msg.Reason,
			})
			return
		default:
			b.logger.Warn("Dropping unknown bridge frame", zap.String("type", msg.Type))
		}
	}
}

// emit delivers an event and closes the stream after a terminal one.
func (b *BridgeCapability) emit(event repositories.SpeechEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.listening {
		return
	}

	b.events <- event

	if event.Kind == repositories.SpeechEventEnd || event.Kind == repositories.SpeechEventError {
		close(b.events)
		b.listening = false
	}
}
