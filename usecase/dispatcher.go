package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

// RequestDispatcher enforces the single-flight invariant: at most one
// outstanding request at a time, exactly one terminal outcome per submitted
// query. A second submission while one is in flight is rejected with ErrBusy,
// never queued. There is no cancellation primitive: a dispatched query always
// runs to a terminal outcome before the next submission is accepted.
type RequestDispatcher struct {
	analysis   repositories.AnalysisService
	monitor    *OfflineMonitor
	normalizer *ResponseNormalizer
	cache      *HistoryCache
	timeout    time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	state entities.DispatchState
}

// NewRequestDispatcher creates a dispatcher. The timeout bounds every network
// call; expiry is classified as a transport failure. cache may be nil when no
// local history echo is wanted.
func NewRequestDispatcher(
	analysis repositories.AnalysisService,
	monitor *OfflineMonitor,
	normalizer *ResponseNormalizer,
	cache *HistoryCache,
	timeout time.Duration,
	logger *zap.Logger,
) *RequestDispatcher {
	return &RequestDispatcher{
		analysis:   analysis,
		monitor:    monitor,
		normalizer: normalizer,
		cache:      cache,
		timeout:    timeout,
		logger:     logger,
		state:      entities.DispatchState{Status: entities.DispatchStatusIdle},
	}
}

// State returns a snapshot of the dispatch state.
func (d *RequestDispatcher) State() entities.DispatchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Submit sends the query to the analysis backend and returns the normalized
// response. Rejections before dispatch: ErrBusy while a request is in flight,
// ErrOffline while the monitor reports the backend unreachable (no network
// I/O is attempted). Failures after dispatch: *entities.ServerError for
// non-success status, transport failure or timeout; ErrMalformedResponse for
// a payload without an answer.
func (d *RequestDispatcher) Submit(ctx context.Context, query entities.Query) (entities.Response, error) {
	if err := query.Validate(); err != nil {
		return entities.Response{}, err
	}

	d.mu.Lock()
	if d.state.Status == entities.DispatchStatusInFlight {
		d.mu.Unlock()
		d.logger.Warn("Submission rejected, request already in flight",
			zap.String("queryID", query.ID))
		return entities.Response{}, entities.ErrBusy
	}
	if !d.monitor.Online() {
		d.mu.Unlock()
		d.logger.Warn("Submission rejected, backend offline",
			zap.String("queryID", query.ID))
		return entities.Response{}, entities.ErrOffline
	}
	d.state = entities.DispatchState{
		Status:        entities.DispatchStatusInFlight,
		ActiveQueryID: query.ID,
		LastOutcome:   d.state.LastOutcome,
	}
	d.mu.Unlock()

	d.logger.Info("Dispatching query",
		zap.String("queryID", query.ID),
		zap.String("modality", string(query.Modality)))

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	payload, err := d.analysis.Analyze(reqCtx, query)
	if err != nil {
		serverErr := classifyDispatchError(err)
		d.finish(entities.DispatchStatusFailed)
		d.logger.Warn("Query failed",
			zap.String("queryID", query.ID),
			zap.Error(serverErr))
		return entities.Response{}, serverErr
	}

	if len(payload.Answer) == 0 {
		d.finish(entities.DispatchStatusFailed)
		d.logger.Warn("Query returned payload without answer",
			zap.String("queryID", query.ID))
		return entities.Response{}, entities.ErrMalformedResponse
	}

	response, err := d.normalizer.Normalize(payload)
	if err != nil {
		d.finish(entities.DispatchStatusFailed)
		d.logger.Warn("Query returned unrecognizable answer",
			zap.String("queryID", query.ID),
			zap.Error(err))
		return entities.Response{}, entities.ErrMalformedResponse
	}

	if d.cache != nil {
		d.cache.Record(query, response)
	}

	d.finish(entities.DispatchStatusSucceeded)
	d.logger.Info("Query succeeded",
		zap.String("queryID", query.ID),
		zap.String("kind", string(response.Kind)))

	return response, nil
}

// finish records the terminal outcome and returns the dispatcher to Idle so
// the next submission is accepted. The status is never left InFlight.
func (d *RequestDispatcher) finish(outcome entities.DispatchStatus) {
	d.mu.Lock()
	d.state = entities.DispatchState{
		Status:      entities.DispatchStatusIdle,
		LastOutcome: outcome,
	}
	d.mu.Unlock()
}

// classifyDispatchError folds any analysis failure into a *ServerError.
// Timeout expiry is treated identically to a transport failure.
func classifyDispatchError(err error) *entities.ServerError {
	var serverErr *entities.ServerError
	if errors.As(err, &serverErr) {
		return serverErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &entities.ServerError{TransportReason: entities.TransportReasonTimeout}
	}
	return &entities.ServerError{TransportReason: err.Error()}
}
