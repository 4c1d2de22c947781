package config

import (
	"reflect"
	"sort"
	"strings"

	logx "schedloop/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections and
// (2) safe structured attrs for logging, comparing oldCfg against newCfg.
// Grounded on pewbot/internal/config/diff.go's SummarizeConfigChange, cut
// down to this module's sections.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 6)
	attrs := make([]logx.Field, 0, 16)

	if oldCfg.Logging.Level != newCfg.Logging.Level ||
		oldCfg.Logging.Console != newCfg.Logging.Console ||
		oldCfg.Logging.File.Enabled != newCfg.Logging.File.Enabled ||
		strings.TrimSpace(oldCfg.Logging.File.Path) != strings.TrimSpace(newCfg.Logging.File.Path) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Pprof.Enabled != newCfg.Pprof.Enabled ||
		strings.TrimSpace(oldCfg.Pprof.Addr) != strings.TrimSpace(newCfg.Pprof.Addr) {
		changed = append(changed, "pprof")
		attrs = append(attrs,
			logx.Bool("pprof.enabled", newCfg.Pprof.Enabled),
			logx.String("pprof.addr", strings.TrimSpace(newCfg.Pprof.Addr)),
		)
	}

	if oldCfg.Scheduler.Mode != newCfg.Scheduler.Mode ||
		oldCfg.Scheduler.TickInterval != newCfg.Scheduler.TickInterval ||
		oldCfg.Scheduler.WatchdogSec != newCfg.Scheduler.WatchdogSec {
		changed = append(changed, "scheduler")
		attrs = append(attrs,
			logx.String("scheduler.mode", newCfg.Scheduler.Mode),
			logx.String("scheduler.tick_interval", newCfg.Scheduler.TickInterval),
			logx.Int("scheduler.watchdog_sec", newCfg.Scheduler.WatchdogSec),
		)
	}

	oldH := derefHistory(oldCfg.History)
	newH := derefHistory(newCfg.History)
	if oldH != newH {
		changed = append(changed, "history")
		attrs = append(attrs,
			logx.Bool("history.enabled", newH.Enabled),
			logx.Bool("history.path_set", strings.TrimSpace(newH.Path) != ""),
		)
	}

	taskDiff := diffTasks(oldCfg.Tasks, newCfg.Tasks)
	if len(taskDiff) > 0 {
		changed = append(changed, "tasks")
		attrs = append(attrs,
			logx.Int("tasks.changed_count", len(taskDiff)),
			logx.Int("tasks.total_count", len(newCfg.Tasks)),
		)
	}

	actionDiff := diffScheduledActions(oldCfg.ScheduledActions, newCfg.ScheduledActions)
	if len(actionDiff) > 0 {
		changed = append(changed, "scheduled_actions")
		attrs = append(attrs,
			logx.Int("scheduled_actions.changed_count", len(actionDiff)),
			logx.Int("scheduled_actions.total_count", len(newCfg.ScheduledActions)),
		)
	}

	sort.Strings(changed)
	return changed, attrs
}

func derefHistory(h *HistoryConfig) HistoryConfig {
	if h == nil {
		return HistoryConfig{}
	}
	return *h
}

// diffTasks returns the names of tasks whose declared shape changed, was
// added, or was removed between oldTasks and newTasks.
func diffTasks(oldTasks, newTasks []TaskConfig) []string {
	oldByName := make(map[string]TaskConfig, len(oldTasks))
	for _, t := range oldTasks {
		oldByName[t.Name] = t
	}
	newByName := make(map[string]TaskConfig, len(newTasks))
	for _, t := range newTasks {
		newByName[t.Name] = t
	}
	return diffNamed(oldByName, newByName)
}

func diffScheduledActions(oldActions, newActions []ScheduledActionConfig) []string {
	oldByName := make(map[string]ScheduledActionConfig, len(oldActions))
	for _, a := range oldActions {
		oldByName[a.Name] = a
	}
	newByName := make(map[string]ScheduledActionConfig, len(newActions))
	for _, a := range newActions {
		newByName[a.Name] = a
	}
	return diffNamed(oldByName, newByName)
}

// diffNamed returns the keys present in only one map, or present in both
// with unequal values.
func diffNamed[T any](oldByName, newByName map[string]T) []string {
	names := make(map[string]struct{}, len(oldByName)+len(newByName))
	for n := range oldByName {
		names[n] = struct{}{}
	}
	for n := range newByName {
		names[n] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for n := range names {
		o, oOK := oldByName[n]
		nw, nOK := newByName[n]
		if oOK != nOK || !reflect.DeepEqual(o, nw) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
