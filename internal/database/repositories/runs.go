package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lsm-pricer/internal/domain"
)

// PricingRunRepository persists completed pricing runs.
type PricingRunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPricingRunRepository creates a new pricing run repository.
func NewPricingRunRepository(db *sql.DB, log zerolog.Logger) *PricingRunRepository {
	return &PricingRunRepository{
		db:  db,
		log: log.With().Str("repo", "pricing_runs").Logger(),
	}
}

// Save inserts one run.
func (r *PricingRunRepository) Save(run domain.PricingRun) error {
	_, err := r.db.Exec(`
		INSERT INTO pricing_runs (
			id, created_at, assets, strike, maturity, num_dates,
			training_paths, test_paths, degree, price, elapsed_ms, coefficients
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Assets,
		run.Strike,
		run.Maturity,
		run.NumDates,
		run.TrainingPaths,
		run.TestPaths,
		run.Degree,
		run.Price,
		run.ElapsedMs,
		run.Coefficients,
	)
	if err != nil {
		return fmt.Errorf("failed to save pricing run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *PricingRunRepository) Recent(limit int) ([]domain.PricingRun, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, assets, strike, maturity, num_dates,
		       training_paths, test_paths, degree, price, elapsed_ms, coefficients
		FROM pricing_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PricingRun
	for rows.Next() {
		var run domain.PricingRun
		var createdAt string
		if err := rows.Scan(
			&run.ID, &createdAt, &run.Assets, &run.Strike, &run.Maturity,
			&run.NumDates, &run.TrainingPaths, &run.TestPaths, &run.Degree,
			&run.Price, &run.ElapsedMs, &run.Coefficients,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pricing run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			run.CreatedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the total number of stored runs.
func (r *PricingRunRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pricing_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pricing runs: %w", err)
	}
	return n, nil
}
