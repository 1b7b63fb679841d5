package entities

// SpeechState is the lifecycle phase of a speech capture session.
type SpeechState string

const (
	SpeechStateIdle       SpeechState = "idle"
	SpeechStateListening  SpeechState = "listening"
	SpeechStateFinalizing SpeechState = "finalizing"
	SpeechStateError      SpeechState = "error"
)
