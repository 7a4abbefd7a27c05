package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	// RunVariantTrain is a direct two-branch training run.
	RunVariantTrain = "train"
	// RunVariantSearch is an architecture-search run.
	RunVariantSearch = "search"

	insertRunSQL = `INSERT INTO run (
			created_at, variant, params, epochs, train_loss, test_accuracy, artifacts
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectRunSQL = `SELECT
			id, created_at, variant, params, epochs, train_loss, test_accuracy
		FROM run
		ORDER BY id DESC
		LIMIT ?
	`

	selectLatestRunSQL = `SELECT
			id, created_at, variant, params, epochs, train_loss, test_accuracy, artifacts
		FROM run
		ORDER BY id DESC
		LIMIT 1
	`
)

// Run is one persisted training run: its configuration, headline
// metrics, and the serialized artifacts needed to predict later.
type Run struct {
	ID           int64     `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Variant      string    `json:"variant" yaml:"variant"`
	Params       string    `json:"params,omitempty" yaml:"params,omitempty"`
	Epochs       int       `json:"epochs" yaml:"epochs"`
	TrainLoss    float64   `json:"train_loss" yaml:"train_loss"`
	TestAccuracy float64   `json:"test_accuracy" yaml:"test_accuracy"`
	Artifacts    []byte    `json:"-" yaml:"-"`
}

// SaveRun persists a run and returns its id.
func SaveRun(db *sql.DB, r *Run) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if r == nil {
		return 0, errors.New("run required")
	}

	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := db.Exec(insertRunSQL,
		created.Format(time.RFC3339), r.Variant, r.Params,
		r.Epochs, r.TrainLoss, r.TestAccuracy, r.Artifacts,
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get run id")
	}
	return id, nil
}

// GetLatestRun returns the most recent run including its artifacts.
func GetLatestRun(db *sql.DB) (*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var r Run
	var created string
	err := db.QueryRow(selectLatestRunSQL).Scan(
		&r.ID, &created, &r.Variant, &r.Params,
		&r.Epochs, &r.TrainLoss, &r.TestAccuracy, &r.Artifacts,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no training runs found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query latest run")
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, errors.Wrap(err, "failed to parse run timestamp")
	}
	return &r, nil
}

// ListRuns returns run summaries, most recent first, without artifacts.
func ListRuns(db *sql.DB, limit int) ([]Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(selectRunSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	list := make([]Run, 0)
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(
			&r.ID, &created, &r.Variant, &r.Params,
			&r.Epochs, &r.TrainLoss, &r.TestAccuracy,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, errors.Wrap(err, "failed to parse run timestamp")
		}
		list = append(list, r)
	}
	return list, errors.Wrap(rows.Err(), "failed to iterate runs")
}
