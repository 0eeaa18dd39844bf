package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/bobg/sqlutil"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the run history: one row per dataset per invocation.
type DB struct {
	db *sql.DB
}

//go:embed db_schema.sql
var ddl string

type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Outcome struct {
	RunAt      time.Time
	Dataset    string
	BackupPool string
	Label      string
	Action     string
	Status     Status
	Detail     string
	Logs       string
	DryRun     bool
}

func Open(ctx context.Context, filename string) (*DB, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in '%s': %w", filename, err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) Record(ctx context.Context, o Outcome) error {
	const q = `INSERT INTO outcomes
		(run_at, dataset, backup_pool, label, action, status, detail, logs, dry_run)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := db.db.ExecContext(ctx, q,
		o.RunAt.Unix(), o.Dataset, o.BackupPool, o.Label, o.Action,
		string(o.Status), o.Detail, o.Logs, Bool(o.DryRun),
	); err != nil {
		return fmt.Errorf("recording outcome for '%s': %w", o.Dataset, err)
	}
	return nil
}

// Recent returns up to limit outcomes, newest first. An empty dataset
// means every dataset.
func (db *DB) Recent(ctx context.Context, dataset string, limit int) ([]Outcome, error) {
	const q = `SELECT run_at, dataset, backup_pool, label, action, status, detail, logs, dry_run
		FROM outcomes
		WHERE $1 = '' OR dataset = $1
		ORDER BY run_at DESC, id DESC
		LIMIT $2`

	var out []Outcome
	err := sqlutil.ForQueryRows(ctx, db.db, q, dataset, limit, func(runAt int64, dataset, backupPool, label, action, status, detail, logs string, dryRun sql.NullBool) {
		out = append(out, Outcome{
			RunAt:      time.Unix(runAt, 0),
			Dataset:    dataset,
			BackupPool: backupPool,
			Label:      label,
			Action:     action,
			Status:     Status(status),
			Detail:     detail,
			Logs:       logs,
			DryRun:     IsTrue(dryRun),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	return out, nil
}
