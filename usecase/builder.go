package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
)

// acceptedImageTypes are the MIME types the analysis backend can decode.
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// QueryBuilder validates and assembles queries from whichever input arrived.
// Text and image submissions are always separate round trips; a query never
// carries both.
type QueryBuilder struct {
	language string
	logger   *zap.Logger
}

// NewQueryBuilder creates a query builder stamping queries with the given
// recognition language tag.
func NewQueryBuilder(language string, logger *zap.Logger) *QueryBuilder {
	return &QueryBuilder{
		language: language,
		logger:   logger,
	}
}

// FromText builds a text-modality query. The text is trimmed; empty input is
// rejected before any network attempt.
func (b *QueryBuilder) FromText(userID, text string) (entities.Query, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return entities.Query{}, entities.ErrEmptyInput
	}

	query := b.newQuery(userID, entities.ModalityText)
	query.Text = trimmed

	b.logger.Debug("Built text query",
		zap.String("queryID", query.ID),
		zap.String("userID", userID))

	return query, nil
}

// FromTranscript builds a voice-modality query from a resolved transcript.
func (b *QueryBuilder) FromTranscript(userID, transcript string) (entities.Query, error) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return entities.Query{}, entities.ErrEmptyInput
	}

	query := b.newQuery(userID, entities.ModalityVoice)
	query.Text = trimmed

	b.logger.Debug("Built voice query",
		zap.String("queryID", query.ID),
		zap.String("userID", userID))

	return query, nil
}

// FromImage builds an image-modality query from a crop photo.
func (b *QueryBuilder) FromImage(userID string, image []byte, mimeType string) (entities.Query, error) {
	if len(image) == 0 {
		return entities.Query{}, entities.ErrEmptyInput
	}
	if !acceptedImageTypes[strings.ToLower(strings.TrimSpace(mimeType))] {
		return entities.Query{}, entities.ErrUnsupportedMediaType
	}

	query := b.newQuery(userID, entities.ModalityImage)
	query.Image = image
	query.ImageMIME = strings.ToLower(strings.TrimSpace(mimeType))

	b.logger.Debug("Built image query",
		zap.String("queryID", query.ID),
		zap.String("userID", userID),
		zap.Int("imageSize", len(image)))

	return query, nil
}

func (b *QueryBuilder) newQuery(userID string, modality entities.Modality) entities.Query {
	return entities.Query{
		ID:        uuid.NewString(),
		UserID:    userID,
		Modality:  modality,
		Language:  b.language,
		CreatedAt: time.Now(),
	}
}
