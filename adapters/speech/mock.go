package speech

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

// MockCapability is a scripted stand-in for a platform speech capability.
// With a script it replays the hypotheses as cumulative transcript events and
// ends the utterance; without one, tests drive it through the Emit methods.
type MockCapability struct {
	logger *zap.Logger

	mu          sync.Mutex
	listening   bool
	unavailable bool
	script      []string
	events      chan repositories.SpeechEvent
}

// Ensure MockCapability implements the SpeechCapability interface
var _ repositories.SpeechCapability = (*MockCapability)(nil)

// NewMockCapability creates a mock capability replaying the given hypotheses.
func NewMockCapability(logger *zap.Logger, script ...string) *MockCapability {
	return &MockCapability{
		logger: logger,
		script: script,
	}
}

// SetUnavailable makes Start fail as if the platform offered no speech
// capture.
func (m *MockCapability) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

// Start begins a scripted capture.
func (m *MockCapability) Start(ctx context.Context, language string) error {
	m.mu.Lock()
	if m.unavailable {
		m.mu.Unlock()
		return entities.ErrCapabilityUnavailable
	}
	if m.listening {
		m.mu.Unlock()
		return entities.ErrInvalidState
	}
	m.listening = true
	m.events = make(chan repositories.SpeechEvent, 16)
	script := m.script
	m.mu.Unlock()

	m.logger.Info("Mock capture started", zap.String("language", language))

	if len(script) > 0 {
		go m.play(script)
	}

	return nil
}

// Stop finishes the current utterance with an end event.
func (m *MockCapability) Stop() error {
	m.EmitEnd()
	return nil
}

// Events returns the stream for the current capture.
func (m *MockCapability) Events() <-chan repositories.SpeechEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

// EmitTranscript publishes a cumulative hypothesis.
func (m *MockCapability) EmitTranscript(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.listening {
		return
	}
	m.events <- repositories.SpeechEvent{
		Kind:       repositories.SpeechEventTranscript,
		Transcript: text,
	}
}

// EmitEnd ends the utterance and closes the stream.
func (m *MockCapability) EmitEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.listening {
		return
	}
	m.events <- repositories.SpeechEvent{Kind: repositories.SpeechEventEnd}
	close(m.events)
	m.listening = false
}

// EmitError fails the utterance and closes the stream.
func (m *MockCapability) EmitError(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.listening {
		return
	}
	m.events <- repositories.SpeechEvent{
		Kind:   repositories.SpeechEventError,
		Reason: reason,
	}
	close(m.events)
	m.listening = false
}

func (m *MockCapability) play(script []string) {
	for _, hypothesis := range script {
		m.EmitTranscript(hypothesis)
		time.Sleep(10 * time.Millisecond)
	}
	m.EmitEnd()
}
