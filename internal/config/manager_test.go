package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "schedloop/pkg/logx"
)

const sampleJSON = `{
	"logging": {"level": "info", "console": true},
	"scheduler": {"mode": "parallel", "tick_interval": "100ms"},
	"tasks": [{"name": "beacon", "kind": "timed", "delay_ms": 500, "command": "true"}]
}`

const sampleYAML = `
logging:
  level: info
  console: true
scheduler:
  mode: parallel
  tick_interval: 100ms
tasks:
  - name: beacon
    kind: timed
    delay_ms: 500
    command: "true"
`

func TestManagerParseJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "schedloopd.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	mgr := NewManager(path)
	cfg, err := mgr.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(cfg.Tasks) != 1 || cfg.Tasks[0].Name != "beacon" {
		t.Fatalf("Parse() = %+v, want one task named beacon", cfg.Tasks)
	}
}

func TestManagerParseYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "schedloopd.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	mgr := NewManager(path)
	cfg, err := mgr.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Scheduler.Mode != "parallel" || cfg.Scheduler.TickInterval != "100ms" {
		t.Fatalf("Parse() = %+v, unexpected scheduler section", cfg.Scheduler)
	}
}

func TestManagerLoadCommitsAndGet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "schedloopd.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	mgr := NewManager(path)
	if _, err := mgr.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if mgr.Get() == nil {
		t.Fatalf("Get() = nil after Load()")
	}
}

func TestManagerSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()
	mgr := NewManager(filepath.Join(t.TempDir(), "unused.json"))
	ch := mgr.Subscribe(1)
	mgr.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("channel not closed after Unsubscribe()")
	}
}

func TestManagerWatchReloadsOnWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "schedloopd.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	mgr := NewManager(path)
	mgr.SetLogger(logx.Nop())
	if _, err := mgr.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	sub := mgr.Subscribe(1)
	defer mgr.Unsubscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mgr.Watch(ctx) }()

	// Let the watcher attach before mutating the file.
	time.Sleep(50 * time.Millisecond)

	updated := `{
		"logging": {"level": "debug", "console": true},
		"scheduler": {"mode": "sequential", "tick_interval": "200ms"}
	}`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	select {
	case cfg := <-sub:
		if cfg.Scheduler.Mode != "sequential" {
			t.Fatalf("reloaded config Scheduler.Mode = %q, want sequential", cfg.Scheduler.Mode)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for config reload")
	}
}
