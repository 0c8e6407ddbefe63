// Package postgres persists enrichment runs. The statistical core never
// touches this layer; only the service writes through it.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/ports"
)

// Schema creates the result tables.
const Schema = `
CREATE TABLE IF NOT EXISTS enrichment_runs (
	id TEXT PRIMARY KEY,
	aspect TEXT NOT NULL,
	mode TEXT NOT NULL,
	correction TEXT NOT NULL,
	query_size INT NOT NULL,
	population_size INT NOT NULL,
	correction_factor INT NOT NULL,
	diagnostics JSONB,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enrichment_hypotheses (
	run_id TEXT NOT NULL REFERENCES enrichment_runs(id) ON DELETE CASCADE,
	rank INT NOT NULL,
	category_id TEXT NOT NULL,
	category_name TEXT NOT NULL,
	raw_p DOUBLE PRECISION NOT NULL,
	corrected_p DOUBLE PRECISION NOT NULL,
	query_count INT NOT NULL,
	background_count INT NOT NULL,
	items JSONB,
	PRIMARY KEY (run_id, rank)
);
`

// resultRepository implements the ResultStore interface
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) ports.ResultStore {
	return &resultRepository{db: db}
}

// SaveResult persists a run and its hypothesis records
func (r *resultRepository) SaveResult(ctx context.Context, result *enrich.Result) error {
	diagnosticsJSON, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO enrichment_runs (
		id, aspect, mode, correction, query_size, population_size,
		correction_factor, diagnostics, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.RunID, result.Aspect, result.Mode, result.Correction,
		result.QuerySize, result.PopulationSize, result.CorrectionFactor,
		diagnosticsJSON, result.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for rank, h := range result.Hypotheses {
		itemsJSON, err := json.Marshal(h.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO enrichment_hypotheses (
			run_id, rank, category_id, category_name, raw_p, corrected_p,
			query_count, background_count, items
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			result.RunID, rank, h.Category.ID, h.Category.Name,
			h.RawP, h.CorrectedP, h.QueryCount, h.BackgroundCount, itemsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert hypothesis %s: %w", h.Category.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetResult loads a run by id
func (r *resultRepository) GetResult(ctx context.Context, id core.RunID) (*enrich.Result, error) {
	result, err := r.scanRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
		category_id, category_name, raw_p, corrected_p,
		query_count, background_count, items
	FROM enrichment_hypotheses WHERE run_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load hypotheses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h enrich.Hypothesis
		var itemsJSON []byte
		err := rows.Scan(&h.Category.ID, &h.Category.Name, &h.RawP, &h.CorrectedP,
			&h.QueryCount, &h.BackgroundCount, &itemsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hypothesis: %w", err)
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &h.Items); err != nil {
				return nil, fmt.Errorf("failed to unmarshal items: %w", err)
			}
		}
		result.Hypotheses = append(result.Hypotheses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hypotheses: %w", err)
	}
	return result, nil
}

// ListRuns returns the most recent runs, newest first, without hypotheses
func (r *resultRepository) ListRuns(ctx context.Context, limit int) ([]*enrich.Result, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM enrichment_runs
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*enrich.Result
	for rows.Next() {
		var id core.RunID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		run, err := r.scanRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func (r *resultRepository) scanRun(ctx context.Context, id core.RunID) (*enrich.Result, error) {
	var result enrich.Result
	var diagnosticsJSON []byte
	var createdAt sql.NullTime

	err := r.db.QueryRowContext(ctx, `SELECT
		id, aspect, mode, correction, query_size, population_size,
		correction_factor, diagnostics, created_at
	FROM enrichment_runs WHERE id = $1`, id).Scan(
		&result.RunID, &result.Aspect, &result.Mode, &result.Correction,
		&result.QuerySize, &result.PopulationSize, &result.CorrectionFactor,
		&diagnosticsJSON, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if createdAt.Valid {
		result.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if len(diagnosticsJSON) > 0 {
		if err := json.Unmarshal(diagnosticsJSON, &result.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
		}
	}
	return &result, nil
}
