package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"schedloop"
	logx "schedloop/pkg/logx"
)

func TestSQLiteRecorderRecordAndCount(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	r, err := Open(path, logx.Nop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	if err := r.Record(ctx, "task.dispatch", "", "morning-report", schedloop.PID(7)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := r.Record(ctx, "task.remove", "completed", "morning-report", schedloop.PID(7)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	start := time.Now().Add(-time.Minute)
	n, err := r.CountSince(ctx, start)
	if err != nil {
		t.Fatalf("CountSince() error: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountSince() = %d, want 2", n)
	}
}

func TestSQLiteRecorderReopenPreservesData(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	r1, err := Open(path, logx.Nop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := r1.Record(context.Background(), "task.dispatch", "", "", schedloop.PID(1)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := r1.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	r2, err := Open(path, logx.Nop())
	if err != nil {
		t.Fatalf("re-Open() error: %v", err)
	}
	defer r2.Close()

	n, err := r2.CountSince(context.Background(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountSince() error: %v", err)
	}
	if n != 0 {
		t.Fatalf("CountSince() = %d for a fresh run_id, want 0 (rows are tagged per run)", n)
	}

	var total int64
	if err := r2.db.QueryRow(`SELECT COUNT(*) FROM dispatch_log`).Scan(&total); err != nil {
		t.Fatalf("counting all rows error: %v", err)
	}
	if total != 1 {
		t.Fatalf("dispatch_log has %d rows after reopen, want 1 (the first run's row)", total)
	}
}
