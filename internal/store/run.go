package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded training run.
type Run struct {
	ID          string
	DatasetPath string
	Family      string
	Accuracy    float64
	Params      string // feature parameters as JSON
	CreatedAt   time.Time
}

// RunStore manages training-run history.
type RunStore struct {
	db *sql.DB
}

// Record inserts a training run and returns its generated ID.
func (r *RunStore) Record(run Run) (string, error) {
	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.Exec(`
		INSERT INTO training_runs (id, dataset_path, family, accuracy, params)
		VALUES (?, ?, ?, ?, ?)`,
		id, run.DatasetPath, run.Family, run.Accuracy, run.Params)
	if err != nil {
		return "", fmt.Errorf("failed to record training run: %w", err)
	}
	return id, nil
}

// List returns all training runs, newest first.
func (r *RunStore) List() ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, dataset_path, family, accuracy, params, created_at
		FROM training_runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.DatasetPath, &run.Family,
			&run.Accuracy, &run.Params, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
