package entities

import "encoding/json"

// ResponseKind tags the two shapes the backend answer can take.
type ResponseKind string

const (
	ResponseKindPlainAdvice   ResponseKind = "plain_advice"
	ResponseKindCropDiagnosis ResponseKind = "crop_diagnosis"
)

// Severity grades an identified crop issue.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// FallbackResponseText is shown when a structured diagnosis carries no
// response_text of its own.
const FallbackResponseText = "No response received."

// AnalysisPayload is the raw JSON body returned by the analysis backend.
// Answer is either a plain string or a diagnosis object; the normalizer
// resolves which.
type AnalysisPayload struct {
	Answer json.RawMessage `json:"answer"`
}

// Response is the canonical, modality-agnostic shape handed to the
// presentation layer. Immutable after creation.
type Response struct {
	Kind              ResponseKind `json:"kind"`
	Text              string       `json:"text"`
	CropType          string       `json:"crop_type,omitempty"`
	DiseaseIdentified string       `json:"disease_identified,omitempty"`
	Severity          Severity     `json:"severity,omitempty"`
	AudioURL          string       `json:"audio_response_url,omitempty"`
}
