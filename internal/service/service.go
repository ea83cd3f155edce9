// Package service orchestrates the submission and check workflows across
// the normalizer, the page inspector and the url repository.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pageanalyzer/internal/inspector"
	"pageanalyzer/internal/metrics"
	"pageanalyzer/internal/models"
	"pageanalyzer/internal/storage"
	"pageanalyzer/internal/urlutil"
)

// PageInspector fetches a page and extracts its snapshot fields.
type PageInspector interface {
	Inspect(ctx context.Context, pageURL string) (inspector.Snapshot, error)
}

// SubmitResult reports the outcome of a url submission. Existing is true
// when the normalized name was already registered; the URL is then the
// previously stored row.
type SubmitResult struct {
	URL      models.URL
	Existing bool
}

// Service composes the three leaf components. All calls are synchronous;
// the store's constraints provide the only concurrency control.
type Service struct {
	store     storage.Storer
	inspector PageInspector
	logger    *zap.Logger
}

// New builds a Service.
func New(store storage.Storer, insp PageInspector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, inspector: insp, logger: logger}
}

// Submit validates and normalizes raw, then registers it if absent.
// Returns urlutil.ErrInvalidURL for malformed input; storage faults pass
// through wrapped.
func (s *Service) Submit(ctx context.Context, raw string) (SubmitResult, error) {
	name, err := urlutil.Normalize(raw)
	if err != nil {
		return SubmitResult{}, err
	}
	u, created, err := s.store.CreateURL(ctx, name)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("register url: %w", err)
	}
	if created {
		metrics.ObserveURLCreated()
		s.logger.Info("url registered", zap.Int64("id", u.ID), zap.String("name", u.Name))
	}
	return SubmitResult{URL: u, Existing: !created}, nil
}

// RunCheck inspects the url with the given id and appends the result to its
// check history. Nothing is written when the fetch fails; the inspector's
// error is returned unchanged so callers can distinguish it from storage
// faults. No lock is held while the outbound fetch is in flight.
func (s *Service) RunCheck(ctx context.Context, id int64) (models.Check, error) {
	u, err := s.store.GetURLByID(ctx, id)
	if err != nil {
		return models.Check{}, err
	}

	snap, err := s.inspector.Inspect(ctx, u.Name)
	if err != nil {
		metrics.ObserveCheck("unreachable")
		s.logger.Warn("check failed", zap.Int64("url_id", id), zap.String("name", u.Name), zap.Error(err))
		return models.Check{}, err
	}

	check, err := s.store.CreateCheck(ctx, models.Check{
		URLID:       u.ID,
		StatusCode:  snap.StatusCode,
		H1:          snap.H1,
		Title:       snap.Title,
		Description: snap.Description,
	})
	if err != nil {
		metrics.ObserveCheck("storage_error")
		return models.Check{}, fmt.Errorf("persist check: %w", err)
	}
	metrics.ObserveCheck("ok")
	s.logger.Info("check recorded",
		zap.Int64("url_id", u.ID),
		zap.Int64("check_id", check.ID),
		zap.Int("status_code", check.StatusCode),
	)
	return check, nil
}

// GetURL loads one url row.
func (s *Service) GetURL(ctx context.Context, id int64) (models.URL, error) {
	return s.store.GetURLByID(ctx, id)
}

// ListURLs returns all urls with their latest check, ordered by id.
func (s *Service) ListURLs(ctx context.Context) ([]models.URLSummary, error) {
	return s.store.ListURLs(ctx)
}

// ListChecks returns a url's check history in insertion order.
func (s *Service) ListChecks(ctx context.Context, urlID int64) ([]models.Check, error) {
	return s.store.ListChecks(ctx, urlID)
}
