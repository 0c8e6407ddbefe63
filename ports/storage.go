package ports

import (
	"context"

	"goterm/domain/core"
	"goterm/domain/enrich"
)

// ResultStore persists completed enrichment runs. The statistical core
// never touches storage; only the service layer writes through this port.
type ResultStore interface {
	// SaveResult persists a run and its hypothesis records.
	SaveResult(ctx context.Context, result *enrich.Result) error

	// GetResult loads a run by id.
	GetResult(ctx context.Context, id core.RunID) (*enrich.Result, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*enrich.Result, error)
}
