package repositories

import (
	"context"

	"github.com/bhashakisan/assistant/domain/entities"
)

// AnalysisService abstracts the remote crop analysis backend. Analyze posts
// the query as a multipart form (user_id plus either text or image) and
// returns the raw payload. A non-success HTTP status is reported as a
// *entities.ServerError.
type AnalysisService interface {
	Analyze(ctx context.Context, query entities.Query) (entities.AnalysisPayload, error)
}
