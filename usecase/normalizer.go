package usecase

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
)

// diagnosisAnswer mirrors the structured object shape of the backend answer.
type diagnosisAnswer struct {
	CropType          string `json:"crop_type"`
	DiseaseIdentified string `json:"disease_identified"`
	Severity          string `json:"severity"`
	ResponseText      string `json:"response_text"`
	AudioResponseURL  string `json:"audio_response_url"`
}

// ResponseNormalizer converts the heterogeneous backend payload into the
// canonical response shape. The answer is either a plain string (free-form
// advice) or an object carrying diagnosis fields. Multi-line text is
// preserved verbatim.
type ResponseNormalizer struct {
	logger *zap.Logger
}

// NewResponseNormalizer creates a normalizer.
func NewResponseNormalizer(logger *zap.Logger) *ResponseNormalizer {
	return &ResponseNormalizer{logger: logger}
}

// Normalize resolves the payload into a Response. An answer that is neither
// a string nor an object is rejected.
func (n *ResponseNormalizer) Normalize(payload entities.AnalysisPayload) (entities.Response, error) {
	var advice string
	if err := json.Unmarshal(payload.Answer, &advice); err == nil {
		return entities.Response{
			Kind: entities.ResponseKindPlainAdvice,
			Text: advice,
		}, nil
	}

	var diagnosis diagnosisAnswer
	if err := json.Unmarshal(payload.Answer, &diagnosis); err != nil {
		n.logger.Warn("Answer is neither a string nor a diagnosis object",
			zap.ByteString("answer", payload.Answer))
		return entities.Response{}, entities.ErrMalformedResponse
	}

	text := diagnosis.ResponseText
	if text == "" {
		text = entities.FallbackResponseText
	}

	return entities.Response{
		Kind:              entities.ResponseKindCropDiagnosis,
		Text:              text,
		CropType:          diagnosis.CropType,
		DiseaseIdentified: diagnosis.DiseaseIdentified,
		Severity:          normalizeSeverity(diagnosis.Severity),
		AudioURL:          diagnosis.AudioResponseURL,
	}, nil
}

// normalizeSeverity canonicalizes the known grades and passes anything else
// through unchanged.
func normalizeSeverity(raw string) entities.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return entities.SeverityLow
	case "medium":
		return entities.SeverityMedium
	case "high":
		return entities.SeverityHigh
	default:
		return entities.Severity(raw)
	}
}
