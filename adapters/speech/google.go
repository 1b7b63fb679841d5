package speech

import (
	"context"
	"fmt"
	"io"
	"sync"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

// GoogleCapability backs the speech capability with Google Cloud
// Speech-to-Text streaming recognition. Audio frames pushed through Feed are
// streamed to the recognizer; interim hypotheses surface as cumulative
// transcript events, matching the capability contract.
type GoogleCapability struct {
	sampleRate int
	encoding   string
	logger     *zap.Logger

	mu        sync.Mutex
	listening bool
	client    *gspeech.Client
	stream    speechpb.Speech_StreamingRecognizeClient
	events    chan repositories.SpeechEvent
}

// Ensure GoogleCapability implements the SpeechCapability interface
var _ repositories.SpeechCapability = (*GoogleCapability)(nil)

// NewGoogleCapability creates a Google-backed capability for audio of the
// given sample rate and encoding.
func NewGoogleCapability(sampleRate int, encoding string, logger *zap.Logger) *GoogleCapability {
	return &GoogleCapability{
		sampleRate: sampleRate,
		encoding:   encoding,
		logger:     logger,
	}
}

// Start opens a streaming recognition session for one utterance.
func (g *GoogleCapability) Start(ctx context.Context, language string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listening {
		return entities.ErrInvalidState
	}

	client, err := gspeech.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrCapabilityUnavailable, err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("%w: %v", entities.ErrCapabilityUnavailable, err)
	}

	encoding, err := audioEncoding(g.encoding)
	if err != nil {
		stream.CloseSend()
		client.Close()
		return fmt.Errorf("%w: %v", entities.ErrUnsupportedMediaType, err)
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        encoding,
					SampleRateHertz: int32(g.sampleRate),
					LanguageCode:    language,
				},
				// Interim hypotheses drive the live transcript display; the
				// session keeps only the latest one.
				InterimResults:  true,
				SingleUtterance: true,
			},
		},
	}); err != nil {
		stream.CloseSend()
		client.Close()
		return fmt.Errorf("failed to send streaming config: %w", err)
	}

	g.client = client
	g.stream = stream
	g.events = make(chan repositories.SpeechEvent, 16)
	g.listening = true

	g.logger.Info("Google capture started",
		zap.String("language", language),
		zap.Int("sampleRate", g.sampleRate),
		zap.String("encoding", g.encoding))

	go g.receive(stream)
	return nil
}

// Feed pushes an audio frame into the recognizer.
func (g *GoogleCapability) Feed(data []byte) error {
	g.mu.Lock()
	stream := g.stream
	listening := g.listening
	g.mu.Unlock()

	if !listening {
		return entities.ErrInvalidState
	}
	if len(data) == 0 {
		return nil
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: data,
		},
	}); err != nil {
		return fmt.Errorf("failed to send audio data: %w", err)
	}

	return nil
}

// Stop signals end of audio; the recognizer finishes the utterance and the
// receiver emits the end event.
func (g *GoogleCapability) Stop() error {
	g.mu.Lock()
	stream := g.stream
	listening := g.listening
	g.mu.Unlock()

	if !listening {
		return entities.ErrInvalidState
	}

	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("failed to close send stream: %w", err)
	}
	return nil
}

// Events returns the stream for the current capture.
func (g *GoogleCapability) Events() <-chan repositories.SpeechEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.events
}

func (g *GoogleCapability) receive(stream speechpb.Speech_StreamingRecognizeClient) {
	defer g.cleanup()

	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			g.emit(repositories.SpeechEvent{Kind: repositories.SpeechEventEnd})
			return
		}
		if err != nil {
			g.emit(repositories.SpeechEvent{
				Kind:   repositories.SpeechEventError,
				Reason: err.Error(),
			})
			return
		}

		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			g.emit(repositories.SpeechEvent{
				Kind:       repositories.SpeechEventTranscript,
				Transcript: result.Alternatives[0].Transcript,
			})
		}
	}
}

// emit delivers an event and closes the stream after a terminal one.
func (g *GoogleCapability) emit(event repositories.SpeechEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.listening {
		return
	}

	g.events <- event

	if event.Kind == repositories.SpeechEventEnd || event.Kind == repositories.SpeechEventError {
		close(g.events)
		g.listening = false
	}
}

func (g *GoogleCapability) cleanup() {
	g.mu.Lock()
	client := g.client
	g.client = nil
	g.stream = nil
	g.mu.Unlock()

	if client != nil {
		client.Close()
	}
}

// audioEncoding converts the configured encoding name to the Speech API enum.
func audioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
