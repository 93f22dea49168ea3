package timelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the history database at path.
// ":memory:" keeps everything in memory.
func NewRepository(path string) (*Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A second pooled connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	timeLogsQuery := `
	CREATE TABLE IF NOT EXISTS time_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		stopped_at TEXT NOT NULL,
		period INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		outcome TEXT NOT NULL DEFAULT ''
	)
	`
	_, err := r.db.Exec(timeLogsQuery)
	return err
}

func (r *Repository) CreateLog(ctx context.Context, log *TimeLog) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO time_logs (started_at, stopped_at, period, remaining, outcome) VALUES (?, ?, ?, ?, ?)",
		log.StartedAt.UTC().Format(time.RFC3339Nano),
		log.StoppedAt.UTC().Format(time.RFC3339Nano),
		int64(log.Period),
		int64(log.Remaining),
		string(log.Outcome),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// GetRecent returns up to limit runs, newest first.
func (r *Repository) GetRecent(ctx context.Context, limit int) ([]TimeLog, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, stopped_at, period, remaining, outcome FROM time_logs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var logs []TimeLog
	for rows.Next() {
		var l TimeLog
		var startedAt, stoppedAt, outcome string
		var period, remaining int64
		if err := rows.Scan(&l.ID, &startedAt, &stoppedAt, &period, &remaining, &outcome); err != nil {
			return nil, err
		}
		l.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		l.StoppedAt, _ = time.Parse(time.RFC3339Nano, stoppedAt)
		l.Period = time.Duration(period)
		l.Remaining = time.Duration(remaining)
		l.Outcome = Outcome(outcome)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Summary counts runs per outcome.
func (r *Repository) Summary(ctx context.Context) (map[Outcome]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM time_logs GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to summarise runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM time_logs")
	return err
}

func (r *Repository) Close() error {
	return r.db.Close()
}
