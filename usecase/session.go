package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

// SpeechSession turns the event-driven speech capability into an explicit
// state machine: Idle -> Listening -> Finalizing -> Idle on success,
// Listening -> Error -> Idle on failure. At most one capture runs at a time;
// Start while not Idle is rejected with ErrInvalidState.
type SpeechSession struct {
	capability repositories.SpeechCapability
	language   string
	logger     *zap.Logger

	mu          sync.Mutex
	state       entities.SpeechState
	transcript  string
	errorReason string

	ready chan string
}

// NewSpeechSession creates a session around an injected speech capability.
func NewSpeechSession(capability repositories.SpeechCapability, language string, logger *zap.Logger) *SpeechSession {
	return &SpeechSession{
		capability: capability,
		language:   language,
		logger:     logger,
		state:      entities.SpeechStateIdle,
		ready:      make(chan string, 1),
	}
}

// Ready delivers exactly one resolved transcript per successful capture.
// A capture that ends with an empty transcript emits nothing.
func (s *SpeechSession) Ready() <-chan string {
	return s.ready
}

// State returns the current session state.
func (s *SpeechSession) State() entities.SpeechState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the latest hypothesis for the current utterance.
func (s *SpeechSession) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// ErrorReason returns the reason captured by the last capability error.
func (s *SpeechSession) ErrorReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorReason
}

// Start begins listening. Valid only from Idle; the capability reports
// entities.ErrCapabilityUnavailable when the platform offers no speech
// capture.
func (s *SpeechSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != entities.SpeechStateIdle {
		s.mu.Unlock()
		return entities.ErrInvalidState
	}
	s.transcript = ""
	s.errorReason = ""
	s.mu.Unlock()

	if err := s.capability.Start(ctx, s.language); err != nil {
		s.logger.Warn("Speech capability failed to start", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.state = entities.SpeechStateListening
	s.mu.Unlock()

	s.logger.Info("Speech session listening", zap.String("language", s.language))

	go s.consume(s.capability.Events())
	return nil
}

// Stop asks the capability to finish the current utterance. The capability
// acknowledges with an end event, which drives finalization. Valid only
// while Listening.
func (s *SpeechSession) Stop() error {
	s.mu.Lock()
	if s.state != entities.SpeechStateListening {
		s.mu.Unlock()
		return entities.ErrInvalidState
	}
	s.mu.Unlock()

	return s.capability.Stop()
}

// consume drains the capture's event stream until it ends. Transcript events
// replace the running hypothesis: the capability contract is cumulative, so
// only the latest value matters.
func (s *SpeechSession) consume(events <-chan repositories.SpeechEvent) {
	for event := range events {
		switch event.Kind {
		case repositories.SpeechEventTranscript:
			s.mu.Lock()
			s.transcript = event.Transcript
			s.mu.Unlock()

		case repositories.SpeechEventEnd:
			s.finalize()
			return

		case repositories.SpeechEventError:
			s.fail(event.Reason)
			return
		}
	}

	// Stream closed without a terminal event; treat as end of utterance.
	s.finalize()
}

func (s *SpeechSession) finalize() {
	s.mu.Lock()
	s.state = entities.SpeechStateFinalizing
	transcript := s.transcript
	s.mu.Unlock()

	if transcript != "" {
		select {
		case s.ready <- transcript:
			s.logger.Info("Transcript ready", zap.String("transcript", transcript))
		default:
			s.logger.Warn("Dropping transcript, previous one not consumed",
				zap.String("transcript", transcript))
		}
	} else {
		s.logger.Info("Capture ended with empty transcript, no query emitted")
	}

	s.mu.Lock()
	s.state = entities.SpeechStateIdle
	s.mu.Unlock()
}

func (s *SpeechSession) fail(reason string) {
	s.logger.Warn("Speech capability error", zap.String("reason", reason))

	s.mu.Lock()
	s.state = entities.SpeechStateError
	s.errorReason = reason
	s.mu.Unlock()

	// Auto-reset so the user can try again; no query is emitted. The reason
	// stays readable via ErrorReason.
	s.mu.Lock()
	s.state = entities.SpeechStateIdle
	s.mu.Unlock()
}
