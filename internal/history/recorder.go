package history

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"schedloop"
	logx "schedloop/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Recorder is the persistence API cmd/schedloopd wires a Scheduler's
// Observer onto, via internal/eventbus.
type Recorder interface {
	Record(ctx context.Context, event, reason, label string, pid schedloop.PID) error
	Close() error
}

// SQLiteRecorder is the default Recorder, backed by a single SQLite file.
// One process-lifetime runID tags every row written by this instance, so
// separate schedloopd runs against the same database file stay
// distinguishable.
type SQLiteRecorder struct {
	db    *sql.DB
	log   logx.Logger
	runID string
}

// Open initializes path (creating parent directories as needed), applies
// migrations, and returns a ready SQLiteRecorder.
func Open(path string, log logx.Logger) (*SQLiteRecorder, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	r := &SQLiteRecorder{db: db, log: log, runID: uuid.NewString()}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	info, statErr := os.Stat(path)
	if statErr == nil {
		log.Info("history: opened database",
			logx.String("path", path),
			logx.String("size", humanize.Bytes(uint64(info.Size()))),
			logx.String("run_id", r.runID),
		)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, string(b))
	return err
}

// Record inserts a single lifecycle row.
func (r *SQLiteRecorder) Record(ctx context.Context, event, reason, label string, pid schedloop.PID) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dispatch_log(run_id, at, pid, event, reason, label) VALUES(?,?,?,?,?,?)`,
		r.runID, time.Now().Format(time.RFC3339Nano), uint16(pid), event, nullStr(reason), nullStr(label),
	)
	if err != nil {
		r.log.Warn("history: record failed", logx.Err(err), logx.String("event", event))
	}
	return err
}

// CountSince reports how many rows this run has written since start,
// useful for a systemd watchdog health line.
func (r *SQLiteRecorder) CountSince(ctx context.Context, start time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, nil
	}
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dispatch_log WHERE run_id = ? AND at >= ?`,
		r.runID, start.Format(time.RFC3339Nano),
	).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
