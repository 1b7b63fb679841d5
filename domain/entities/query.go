package entities

import (
	"time"
)

// Modality identifies the input channel a query originated from.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
	ModalityVoice Modality = "voice"
)

// Query is a single request to the analysis backend. A query is immutable
// once created: it carries either text (Text/Voice modality) or an image
// (Image modality), never both.
type Query struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Modality  Modality  `json:"modality"`
	Text      string    `json:"text,omitempty"`
	Image     []byte    `json:"-"`
	ImageMIME string    `json:"image_mime,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the modality/payload invariant.
func (q *Query) Validate() error {
	if q.UserID == "" {
		return ErrEmptyInput
	}

	switch q.Modality {
	case ModalityText, ModalityVoice:
		if q.Text == "" {
			return ErrEmptyInput
		}
		if len(q.Image) > 0 {
			return ErrUnsupportedMediaType
		}
	case ModalityImage:
		if len(q.Image) == 0 {
			return ErrEmptyInput
		}
		if q.Text != "" {
			return ErrUnsupportedMediaType
		}
	default:
		return ErrEmptyInput
	}

	return nil
}
