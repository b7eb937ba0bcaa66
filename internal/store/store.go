// Package store persists benchmark runs, experiment summaries and metric
// results in a local sqlite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/slbench/internal/slbench"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path. Run Migrate before
// first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results database %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExperimentRecord summarizes one completed experiment for persistence.
type ExperimentRecord struct {
	Identifier     string
	Infrastructure string
	Implementation string
	Iterations     int
	TotalSeconds   float64
	ValuedCells    int
}

// SummarizeExperiment builds an ExperimentRecord from a completed
// experiment. Timing and depth fields are zero when the experiment does not
// carry the matching capability.
func SummarizeExperiment(e *slbench.Experiment) ExperimentRecord {
	rec := ExperimentRecord{
		Identifier:     e.Identifier(),
		Infrastructure: e.Infrastructure().Name(),
		Implementation: e.Implementation().Identifier(),
		Iterations:     e.IterationCount(),
	}
	if e.Timer() != nil {
		rec.TotalSeconds = e.Timer().Total().Seconds()
	}
	if e.Depth() != nil {
		rec.ValuedCells = e.Depth().ValuedCount()
	}
	return rec
}

// RecordRun inserts a new benchmark run.
func (s *Store) RecordRun(runID, sessionPath string, startedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO benchmark_runs (run_id, session_path, started_at) VALUES (?, ?, ?)`,
		runID, sessionPath, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}
	return nil
}

// CompleteRun marks a run finished.
func (s *Store) CompleteRun(runID string, completedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE benchmark_runs SET completed_at = ? WHERE run_id = ?`,
		completedAt.UTC().Format(time.RFC3339), runID)
	if err != nil {
		return fmt.Errorf("completing run %s: %w", runID, err)
	}
	return nil
}

// RecordExperiment inserts an experiment summary under a run.
func (s *Store) RecordExperiment(runID string, rec ExperimentRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO experiments
			(run_id, identifier, infrastructure, implementation, iterations, total_seconds, valued_cells)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Identifier, rec.Infrastructure, rec.Implementation,
		rec.Iterations, rec.TotalSeconds, rec.ValuedCells)
	if err != nil {
		return fmt.Errorf("inserting experiment %s: %w", rec.Identifier, err)
	}
	return nil
}

// RecordMetricResult inserts one metric comparison result under a run.
func (s *Store) RecordMetricResult(runID string, r slbench.MetricResult) error {
	_, err := s.db.Exec(
		`INSERT INTO metric_results
			(run_id, metric, reference, candidate, value, unit, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Metric, r.Reference, r.Candidate, r.Value, r.Unit, r.ReportPath)
	if err != nil {
		return fmt.Errorf("inserting %s result for %s: %w", r.Metric, r.Candidate, err)
	}
	return nil
}

// MetricResults returns all metric results recorded for a run, in insertion
// order.
func (s *Store) MetricResults(runID string) ([]slbench.MetricResult, error) {
	rows, err := s.db.Query(
		`SELECT metric, reference, candidate, value, unit, report_path
		 FROM metric_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []slbench.MetricResult
	for rows.Next() {
		var r slbench.MetricResult
		if err := rows.Scan(&r.Metric, &r.Reference, &r.Candidate, &r.Value, &r.Unit, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
