package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/internal/engine"
	"goterm/ports"
)

// EnrichmentService orchestrates enrichment runs: it drives the engine,
// persists results when a store is configured, and fans out batches of
// query lists under a concurrency cap.
type EnrichmentService struct {
	engine *engine.Engine
	store  ports.ResultStore

	mode       enrich.Mode
	correction enrich.Correction

	// sem bounds concurrent FindTerms calls in RunBatch
	sem *semaphore.Weighted
}

// EnrichmentRequest is one named query list.
type EnrichmentRequest struct {
	Name  string
	Items []core.ItemID
}

// BatchResult pairs a request with its outcome. Exactly one of Result and
// Err is set.
type BatchResult struct {
	Name   string
	Result *enrich.Result
	Err    error
}

// NewEnrichmentService creates a service around a configured engine. The
// store may be nil, in which case results are returned but not persisted.
func NewEnrichmentService(eng *engine.Engine, store ports.ResultStore, mode enrich.Mode, correction enrich.Correction) *EnrichmentService {
	return &EnrichmentService{
		engine:     eng,
		store:      store,
		mode:       mode,
		correction: correction,
		sem:        semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
}

// Run executes one enrichment query with the service defaults.
func (s *EnrichmentService) Run(ctx context.Context, items []core.ItemID) (*enrich.Result, error) {
	return s.RunWith(ctx, items, s.mode, s.correction)
}

// RunWith executes one enrichment query, overriding the default mode or
// correction when non-empty values are given.
func (s *EnrichmentService) RunWith(ctx context.Context, items []core.ItemID, mode enrich.Mode, correction enrich.Correction) (*enrich.Result, error) {
	if mode == "" {
		mode = s.mode
	}
	if correction == "" {
		correction = s.correction
	}
	result, err := s.engine.FindTerms(items, mode, correction)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}
	if s.store != nil {
		if err := s.store.SaveResult(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to persist run %s: %w", result.RunID, err)
		}
	}
	return result, nil
}

// RunBatch executes many query lists concurrently. Results are returned in
// request order; a failed request carries its error without aborting the
// rest of the batch.
func (s *EnrichmentService) RunBatch(ctx context.Context, reqs []EnrichmentRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("batch aborted: %w", err)
		}
		wg.Add(1)
		go func(i int, req EnrichmentRequest) {
			defer wg.Done()
			defer s.sem.Release(1)
			result, err := s.Run(ctx, req.Items)
			results[i] = BatchResult{Name: req.Name, Result: result, Err: err}
		}(i, req)
	}

	wg.Wait()
	return results, nil
}

// GetRun loads a persisted run by id.
func (s *EnrichmentService) GetRun(ctx context.Context, id core.RunID) (*enrich.Result, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no result store configured", core.ErrRunNotFound)
	}
	return s.store.GetResult(ctx, id)
}

// ListRuns returns the most recent persisted runs.
func (s *EnrichmentService) ListRuns(ctx context.Context, limit int) ([]*enrich.Result, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListRuns(ctx, limit)
}
