package config

import (
	"encoding/json"
	"testing"
)

func TestTaskConfigUnmarshalJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	raw := `{"name":"beacon","kind":"timed","delay_ms":500,"command":"true","bogus":1}`
	var tc TaskConfig
	if err := json.Unmarshal([]byte(raw), &tc); err == nil {
		t.Fatalf("Unmarshal() with unknown field succeeded, want error")
	}
}

func TestTaskConfigUnmarshalJSONOK(t *testing.T) {
	t.Parallel()
	raw := `{"name":"beacon","kind":"timed","delay_ms":500,"repeat":true,"interval_ms":1000,"command":"true"}`
	var tc TaskConfig
	if err := json.Unmarshal([]byte(raw), &tc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if tc.Name != "beacon" || tc.Kind != "timed" || tc.DelayMs != 500 || !tc.Repeat || tc.Interval != 1000 {
		t.Fatalf("Unmarshal() = %+v, unexpected fields", tc)
	}
}

func TestConfigUnmarshalJSONFullDocument(t *testing.T) {
	t.Parallel()
	raw := `{
		"logging": {"level": "info", "console": true, "file": {"enabled": false}},
		"scheduler": {"mode": "sequential", "tick_interval": "50ms"},
		"history": {"enabled": true, "path": "/var/lib/schedloopd/history.db"},
		"tasks": [{"name": "t1", "kind": "timed", "delay_ms": 100, "command": "echo hi"}],
		"scheduled_actions": [{"name": "digest", "at": "09:00:00", "command": "echo digest"}]
	}`
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if cfg.Scheduler.Mode != "sequential" {
		t.Fatalf("Scheduler.Mode = %q, want sequential", cfg.Scheduler.Mode)
	}
	if cfg.History == nil || !cfg.History.Enabled {
		t.Fatalf("History = %+v, want enabled", cfg.History)
	}
	if len(cfg.Tasks) != 1 || cfg.Tasks[0].Name != "t1" {
		t.Fatalf("Tasks = %+v, want one task named t1", cfg.Tasks)
	}
	if len(cfg.ScheduledActions) != 1 || cfg.ScheduledActions[0].At != "09:00:00" {
		t.Fatalf("ScheduledActions = %+v, want one action at 09:00:00", cfg.ScheduledActions)
	}
}
