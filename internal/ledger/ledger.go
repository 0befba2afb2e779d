// Package ledger keeps a local SQLite record of session outcomes so runs can
// be compared after the fact. Credentials are never stored.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	_ "modernc.org/sqlite"

	"github.com/xkilldash9x/hogflix-traffic/internal/workflow"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_outcomes (
	run_id      TEXT    NOT NULL,
	number      INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	state       TEXT    NOT NULL,
	failed_at   TEXT    NOT NULL DEFAULT '',
	error       TEXT    NOT NULL DEFAULT '',
	session_id  TEXT    NOT NULL DEFAULT '',
	device      TEXT    NOT NULL DEFAULT '',
	city        TEXT    NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (run_id, number)
);
CREATE INDEX IF NOT EXISTS session_outcomes_created_at ON session_outcomes (created_at);
`

// Entry is one stored outcome.
type Entry struct {
	RunID     string
	Number    int
	Succeeded bool
	State     string
	FailedAt  string
	Error     string
	SessionID string
	Device    string
	City      string
	Duration  time.Duration
	CreatedAt time.Time
}

// Ledger is a SQLite-backed outcome store.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger at path. A leading ~ is expanded.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ledger path is required")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand ledger path: %w", err)
	}
	cleanPath := filepath.Clean(expanded)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Ledger{db: db, now: time.Now}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores one session outcome under runID.
func (l *Ledger) Record(ctx context.Context, runID string, out workflow.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l == nil || l.db == nil {
		return errors.New("ledger is not open")
	}
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is required")
	}

	var errText string
	if out.Err != nil {
		errText = out.Err.Error()
	}
	_, err := l.db.ExecContext(ctx, `
INSERT OR REPLACE INTO session_outcomes (
	run_id, number, succeeded, state, failed_at, error,
	session_id, device, city, duration_ms, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		runID,
		out.Number,
		out.Succeeded,
		string(out.State),
		string(out.FailedAt),
		errText,
		out.SessionID,
		out.Device,
		out.City,
		out.Duration.Milliseconds(),
		l.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// List returns the entries of a run ordered by session number.
func (l *Ledger) List(ctx context.Context, runID string) ([]Entry, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("ledger is not open")
	}
	rows, err := l.db.QueryContext(ctx, `
SELECT run_id, number, succeeded, state, failed_at, error,
	session_id, device, city, duration_ms, created_at
FROM session_outcomes
WHERE run_id = ?
ORDER BY number
`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&e.RunID, &e.Number, &e.Succeeded, &e.State, &e.FailedAt, &e.Error,
			&e.SessionID, &e.Device, &e.City, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return entries, nil
}

// SuccessRate returns succeeded and total counts across every recorded run.
func (l *Ledger) SuccessRate(ctx context.Context) (succeeded, total int, err error) {
	if l == nil || l.db == nil {
		return 0, 0, errors.New("ledger is not open")
	}
	row := l.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(succeeded), 0), COUNT(*) FROM session_outcomes`)
	if err := row.Scan(&succeeded, &total); err != nil {
		return 0, 0, fmt.Errorf("count outcomes: %w", err)
	}
	return succeeded, total, nil
}
