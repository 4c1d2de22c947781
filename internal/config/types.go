package config

import (
	"bytes"
	"encoding/json"
)

// Config is the declarative shape of schedloopd's config file: engine
// settings plus a static task list, loaded once at startup. On a hot reload
// cmd/schedloopd re-applies only the pprof section; the task list and
// scheduled actions are not re-registered.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Pprof   PprofConfig   `json:"pprof,omitempty"`

	Scheduler SchedulerConfig `json:"scheduler"`
	History   *HistoryConfig  `json:"history,omitempty"`

	Tasks            []TaskConfig            `json:"tasks,omitempty"`
	ScheduledActions []ScheduledActionConfig `json:"scheduled_actions,omitempty"`
}

// SchedulerConfig controls the Scheduler engine and its outer driver loop.
type SchedulerConfig struct {
	// Mode is "parallel" or "sequential". Defaults to "parallel".
	Mode string `json:"mode,omitempty"`

	// TickInterval is a Go duration string for the driver's time.Ticker
	// (e.g. "50ms", "1s"). Defaults to "100ms".
	TickInterval string `json:"tick_interval,omitempty"`

	// WatchdogSec, if nonzero, enables an sd_notify watchdog ping after
	// every successful tick, matching systemd's WatchdogSec unit setting.
	WatchdogSec int `json:"watchdog_sec,omitempty"`
}

// HistoryConfig controls the optional SQLite dispatch recorder.
//
// If the whole section is omitted, history recording is disabled.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingConfig mirrors the ambient logging setup shared across this
// module's ecosystem: a console sink plus an optional file sink, which is
// appended to and not rotated.
type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// PprofConfig controls the optional pprof HTTP server, useful for
// diagnosing a stuck driver loop in production.
//
// Security note: prefer binding to localhost.
type PprofConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default: "127.0.0.1:6060"
}

// TaskConfig declaratively describes one task registered at startup via
// Scheduler.AddTimedTask / AddConditionalTask / AddConditionalTimedTask.
// Exactly one of the three shapes below applies, selected by Kind.
type TaskConfig struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "timed" | "conditional" | "conditional_timed"

	// timed
	DelayMs  uint32 `json:"delay_ms,omitempty"`
	Repeat   bool   `json:"repeat,omitempty"`
	Interval uint32 `json:"interval_ms,omitempty"`

	// conditional / conditional_timed
	ConditionWaitMs uint32 `json:"condition_wait_ms,omitempty"`
	PostDelayMs     uint32 `json:"post_delay_ms,omitempty"`

	// Command is the shell command this task's action runs. Kept minimal
	// and generic (like cron's own model) rather than an embedded
	// scripting language.
	Command string `json:"command"`
}

// ScheduledActionConfig declaratively describes one ScheduledAction.
// Exactly one of At or Cron is set.
type ScheduledActionConfig struct {
	Name    string `json:"name"`
	At      string `json:"at,omitempty"`   // "HH:MM:SS" daily local time
	Cron    string `json:"cron,omitempty"` // robfig/cron/v3 standard expression
	Command string `json:"command"`
}

// UnmarshalJSON disallows unknown fields so a typo in a hand-edited config
// file surfaces immediately instead of being silently ignored.
func (c *TaskConfig) UnmarshalJSON(b []byte) error {
	type tmp TaskConfig
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var t tmp
	if err := dec.Decode(&t); err != nil {
		return err
	}
	*c = TaskConfig(t)
	return nil
}
