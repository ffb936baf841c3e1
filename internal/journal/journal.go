// Package journal keeps the history of curfew runs in a SQLite database.
//
// Writes fail open: a run whose journal write fails is logged once and
// stops recording, the curfew itself is never held up by the database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	day        TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at   INTEGER,
	outcome    TEXT NOT NULL DEFAULT 'running'
);
CREATE TABLE IF NOT EXISTS events (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	at     INTEGER NOT NULL,
	kind   TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS events_run ON events(run_id, at);
`

// writeTimeout bounds each journal write.
const writeTimeout = 5 * time.Second

// ErrNotFound is returned for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Journal is an open history database.
type Journal struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string, log logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}
	return &Journal{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin starts a run for the curfew day. It never fails; on a database
// error the returned run records nothing.
func (j *Journal) Begin(day time.Time) *Run {
	r := &Run{j: j, id: uuid.NewString()}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, day, started_at) VALUES (?, ?, ?)`,
		r.id, day.Format(time.DateOnly), j.now().UnixMilli())
	if err != nil {
		r.fail(err)
	}
	return r
}

// Run records the events of one curfew run. It implements curfew.Recorder.
type Run struct {
	j  *Journal
	id string

	mu       sync.Mutex
	disabled bool
}

var _ curfew.Recorder = (*Run)(nil)

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// Record appends an event.
func (r *Run) Record(kind, detail string) {
	r.exec(`INSERT INTO events (run_id, at, kind, detail) VALUES (?, ?, ?, ?)`,
		r.id, r.j.now().UnixMilli(), kind, detail)
}

// Finish stores the outcome and end time.
func (r *Run) Finish(outcome string) {
	r.exec(`UPDATE runs SET ended_at = ?, outcome = ? WHERE id = ?`,
		r.j.now().UnixMilli(), outcome, r.id)
}

func (r *Run) exec(query string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := r.j.db.ExecContext(ctx, query, args...); err != nil {
		r.disabled = true
		r.j.log.Warning("Journal disabled for this run: %v", err)
	}
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled = true
	r.j.log.Warning("Journal disabled for this run: %v", err)
}

// Summary describes one stored run.
type Summary struct {
	ID        string
	Day       string
	StartedAt time.Time
	// EndedAt is zero while the run has not finished.
	EndedAt time.Time
	Outcome string
	Events  int
}

// Event is one stored event.
type Event struct {
	At     time.Time
	Kind   string
	Detail string
}

// History returns up to limit runs, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.day, r.started_at, r.ended_at, r.outcome,
		       (SELECT count(*) FROM events e WHERE e.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Summary
	for rows.Next() {
		var (
			s       Summary
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Day, &started, &ended, &s.Outcome, &s.Events); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		s.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			s.EndedAt = time.UnixMilli(ended.Int64)
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}
	return runs, nil
}

// Events returns the events of a run in order.
func (j *Journal) Events(ctx context.Context, runID string) ([]Event, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT at, kind, detail FROM events WHERE run_id = ? ORDER BY at, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e  Event
			at int64
		)
		if err := rows.Scan(&at, &e.Kind, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.At = time.UnixMilli(at)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return events, nil
}

// Prune deletes runs that started before cutoff and returns how many went.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	ms := cutoff.UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, ms); err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, ms)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
