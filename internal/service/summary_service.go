package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/aggregate"
	"github.com/spec-kit/department-summary/internal/domain"
	"github.com/spec-kit/department-summary/internal/events"
	"github.com/spec-kit/department-summary/internal/observability"
	"github.com/spec-kit/department-summary/internal/source"
	"github.com/spec-kit/department-summary/internal/store"
	apperrors "github.com/spec-kit/department-summary/pkg/util"
)

var tracer = otel.Tracer("github.com/spec-kit/department-summary/internal/service")

// SummaryService runs fetch cycles and serves the latest summary.
type SummaryService struct {
	fetcher    source.Fetcher
	store      store.SummaryStore
	policy     aggregate.Policy
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time

	// one cycle at a time; the store has a single writer
	mu sync.Mutex
}

// SummaryDependencies bundles collaborators for the summary service.
type SummaryDependencies struct {
	Fetcher    source.Fetcher
	Store      store.SummaryStore
	Policy     aggregate.Policy
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewSummaryService creates the service.
func NewSummaryService(deps SummaryDependencies) *SummaryService {
	s := &SummaryService{
		fetcher:    deps.Fetcher,
		store:      deps.Store,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if s.policy == "" {
		s.policy = aggregate.PolicySkip
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Refresh runs one cycle: fetch, aggregate and publish the new snapshot.
// On any failure the current snapshot is left untouched.
func (s *SummaryService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycleID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "SummaryService.Refresh", trace.WithAttributes(
		attribute.String("cycle.id", cycleID),
		attribute.String("source", s.fetcher.Name()),
	))
	defer span.End()

	logger := s.logger.With(zap.String("cycle_id", cycleID), zap.String("source", s.fetcher.Name()))

	users, err := s.fetcher.FetchUsers(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.metrics.RecordCycle(observability.OutcomeCanceled)
			logger.Warn("cycle abandoned before aggregation", zap.Error(ctxErr))
			return nil, apperrors.NewCycleCanceled(ctxErr)
		}
		s.metrics.RecordCycle(observability.OutcomeFetchFail)
		logger.Error("fetch users failed", zap.Error(err))
		s.publish(ctx, logger, events.Event{
			Type:    events.EventFetchFailed,
			CycleID: cycleID,
			Payload: events.FetchFailedPayload{Error: err.Error()},
		})
		return nil, apperrors.NewUpstreamError(err)
	}

	res, err := aggregate.Summarize(users, s.policy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch rejected")
		s.metrics.RecordCycle(observability.OutcomeRejected)
		logger.Error("user batch rejected", zap.Error(err))

		details := map[string]any{}
		payload := events.BatchRejectedPayload{Reason: err.Error()}
		var recErr *aggregate.RecordError
		if errors.As(err, &recErr) {
			details["index"] = recErr.Index
			details["id"] = recErr.ID
			details["reason"] = recErr.Err.Error()
			payload = events.BatchRejectedPayload{Index: recErr.Index, UserID: recErr.ID, Reason: recErr.Err.Error()}
		}
		s.publish(ctx, logger, events.Event{Type: events.EventBatchRejected, CycleID: cycleID, Payload: payload})
		return nil, apperrors.NewMalformedRecord(err, details)
	}

	skipped := res.Skipped
	if skipped == nil {
		skipped = []domain.SkippedRecord{}
	}
	snap := &domain.Snapshot{
		CycleID:   cycleID,
		Source:    s.fetcher.Name(),
		FetchedAt: s.now().UTC(),
		Records:   len(users),
		Skipped:   skipped,
		Summary:   res.Summary,
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return nil, apperrors.NewInternalError(fmt.Errorf("store snapshot: %w", err))
	}

	span.SetAttributes(
		attribute.Int("records", len(users)),
		attribute.Int("skipped", len(skipped)),
		attribute.Int("departments", res.Summary.Len()),
	)
	s.metrics.RecordCycle(observability.OutcomeSuccess)
	s.metrics.RecordSummary(res.Processed, len(skipped), res.Summary.Len())
	if len(skipped) > 0 {
		logger.Warn("malformed users skipped", zap.Int("skipped", len(skipped)), zap.Any("records", skipped))
	}
	logger.Info("summary refreshed",
		zap.Int("records", len(users)),
		zap.Int("departments", res.Summary.Len()),
	)

	s.publish(ctx, logger, events.Event{
		Type:    events.EventSummaryRefreshed,
		CycleID: cycleID,
		Payload: events.SummaryRefreshedPayload{
			Records:     len(users),
			Processed:   res.Processed,
			Departments: res.Summary.Len(),
			Skipped:     res.Skipped,
		},
	})
	return snap, nil
}

// Current returns the latest snapshot.
func (s *SummaryService) Current(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.store.Current(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, apperrors.NewSummaryUnavailable()
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return snap, nil
}

// Department returns one department of the latest snapshot.
func (s *SummaryService) Department(ctx context.Context, name string) (*domain.DepartmentSummary, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	dept, ok := snap.Summary.Get(name)
	if !ok {
		return nil, apperrors.NewNotFound("department", map[string]any{"name": name})
	}
	return dept, nil
}

func (s *SummaryService) publish(ctx context.Context, logger *zap.Logger, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Source = s.fetcher.Name()
	event.Timestamp = s.now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
