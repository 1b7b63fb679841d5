package repositories

import "context"

// SpeechEventKind discriminates events emitted by a speech capability.
type SpeechEventKind string

const (
	// SpeechEventTranscript carries the latest cumulative hypothesis for the
	// current utterance. Each event replaces the previous one.
	SpeechEventTranscript SpeechEventKind = "transcript"
	// SpeechEventEnd signals the natural or requested end of the utterance.
	SpeechEventEnd SpeechEventKind = "end"
	// SpeechEventError signals a capability failure; no further events follow
	// for the current capture.
	SpeechEventError SpeechEventKind = "error"
)

// SpeechEvent is a single event from the capture event stream. Events are
// delivered in emission order.
type SpeechEvent struct {
	Kind       SpeechEventKind
	Transcript string
	Reason     string
}

// SpeechCapability abstracts a platform speech-capture facility so it can be
// substituted with a test double. Start begins capturing one utterance in the
// given recognition language; Stop requests the capability to finish, which
// it acknowledges with a SpeechEventEnd on the event stream.
type SpeechCapability interface {
	Start(ctx context.Context, language string) error
	Stop() error
	// Events returns the stream for the capture begun by the latest Start.
	Events() <-chan SpeechEvent
}
