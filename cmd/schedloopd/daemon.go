package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"schedloop"
	"schedloop/internal/action"
	"schedloop/internal/config"
	"schedloop/internal/diagsrv"
	"schedloop/internal/eventbus"
	"schedloop/internal/history"
	logx "schedloop/pkg/logx"
)

// daemonCtx owns every long-lived component wired up for one run of
// schedloopd: the scheduler core, its config manager, the event bus and
// history recorder subscribed to it, and the diagnostic HTTP server.
type daemonCtx struct {
	cfgMgr *config.Manager
	log    logx.Logger

	sched    *schedloop.Scheduler
	bus      eventbus.Bus
	recorder *history.SQLiteRecorder
	diag     *diagsrv.Server
	actions  *schedloop.ScheduledActions

	tick time.Duration
}

func newLogger(cfg *config.Config) logx.Logger {
	if cfg.Logging.File.Enabled && cfg.Logging.File.Path != "" {
		f, err := os.OpenFile(cfg.Logging.File.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			return logx.NewMulti(cfg.Logging.Level, cfg.Logging.Console, f)
		}
	}
	return logx.NewConsole(cfg.Logging.Level, os.Stdout)
}

func buildDaemon(cfgPath string) (*daemonCtx, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)
	mgr.SetLogger(log)

	bus := eventbus.New()

	var recorder *history.SQLiteRecorder
	if cfg.History != nil && cfg.History.Enabled {
		recorder, err = history.Open(cfg.History.Path, log)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	obs := eventbus.Observer(bus)
	mode := schedloop.Parallel
	if cfg.Scheduler.Mode == "sequential" {
		mode = schedloop.Sequential
	}
	sched := schedloop.New(schedloop.NewSystemClock(),
		schedloop.WithLogger(log),
		schedloop.WithObserver(obs),
		schedloop.WithMode(mode),
	)

	actions := schedloop.NewScheduledActions()

	if err := registerTasks(sched, cfg.Tasks, log); err != nil {
		return nil, fmt.Errorf("register tasks: %w", err)
	}
	if err := registerScheduledActions(actions, cfg.ScheduledActions, log); err != nil {
		return nil, fmt.Errorf("register scheduled actions: %w", err)
	}

	tick, err := config.ParseDurationOrDefault("scheduler.tick_interval", cfg.Scheduler.TickInterval, 100*time.Millisecond)
	if err != nil {
		return nil, err
	}

	d := &daemonCtx{
		cfgMgr:   mgr,
		log:      log,
		sched:    sched,
		bus:      bus,
		recorder: recorder,
		diag:     diagsrv.New(log),
		actions:  actions,
		tick:     tick,
	}
	d.diag.Apply(context.Background(), cfg.Pprof)
	return d, nil
}

func registerTasks(sched *schedloop.Scheduler, tasks []config.TaskConfig, log logx.Logger) error {
	for _, t := range tasks {
		act := action.Shell(log, t.Name, t.Command)
		switch t.Kind {
		case "timed":
			sched.AddTimedTask(act, t.DelayMs, t.Repeat, t.Interval)
		case "conditional":
			// Declarative tasks have no live predicate to poll; a nil
			// predicate is repaired to alwaysTrue (as AddTimedTask uses),
			// so a bare conditional entry runs on the tick after its
			// activation and its condition wait never expires.
			sched.AddConditionalTask(act, nil, t.ConditionWaitMs, nil)
		case "conditional_timed":
			sched.AddConditionalTimedTask(act, nil, t.PostDelayMs, t.ConditionWaitMs, nil)
		default:
			return fmt.Errorf("task %q: unknown kind %q", t.Name, t.Kind)
		}
	}
	return nil
}

func registerScheduledActions(actions *schedloop.ScheduledActions, cfgs []config.ScheduledActionConfig, log logx.Logger) error {
	for _, a := range cfgs {
		act := action.Shell(log, a.Name, a.Command)
		switch {
		case a.Cron != "":
			sa, err := schedloop.NewCronScheduledAction(a.Cron, act)
			if err != nil {
				return fmt.Errorf("scheduled action %q: %w", a.Name, err)
			}
			actions.Add(sa)
		case a.At != "":
			hour, minute, second, err := parseClockTime(a.At)
			if err != nil {
				return fmt.Errorf("scheduled action %q: %w", a.Name, err)
			}
			actions.Add(schedloop.NewScheduledAction(hour, minute, second, act))
		default:
			return fmt.Errorf("scheduled action %q: neither at nor cron set", a.Name)
		}
	}
	return nil
}

func parseClockTime(s string) (hour, minute, second int, err error) {
	_, err = fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &second)
	if err != nil {
		second = 0
		_, err = fmt.Sscanf(s, "%d:%d", &hour, &minute)
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", s)
	}
	return hour, minute, second, nil
}

// run drives the scheduler until ctx is cancelled.
func (d *daemonCtx) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.cfgMgr.Watch(ctx) })

	sub := d.cfgMgr.Subscribe(1)
	defer d.cfgMgr.Unsubscribe(sub)
	prev := d.cfgMgr.Get()
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case cfg, ok := <-sub:
				if !ok {
					return nil
				}
				changed, attrs := config.SummarizeConfigChange(prev, cfg)
				if len(changed) > 0 {
					d.log.Info("config changed", append(attrs, logx.Any("sections", changed))...)
				}
				d.diag.Apply(ctx, cfg.Pprof)
				prev = cfg
			}
		}
	})

	if d.recorder != nil {
		g.Go(func() error { return d.recordLoop(ctx) })
	}

	if ok, _ := daemon.SdNotify(false, daemon.SdNotifyReady); ok {
		d.log.Debug("systemd: notified ready")
	}

	g.Go(func() error { return d.driverLoop(ctx) })

	err := g.Wait()

	if ok, _ := daemon.SdNotify(false, daemon.SdNotifyStopping); ok {
		d.log.Debug("systemd: notified stopping")
	}
	d.diag.Stop(context.Background())
	if d.recorder != nil {
		_ = d.recorder.Close()
	}
	return err
}

// driverLoop is the outer polling loop from spec.md's model of an
// event-loop-driven microcontroller: something external ticks Loop() on a
// fixed cadence. ScheduledActions.Check runs alongside it since it has its
// own wall-clock cadence, independent of the cooperative store. Every
// successful tick pings the systemd watchdog, if WatchdogSec is set, so a
// wedged driver loop (not just a crashed process) gets caught.
func (d *daemonCtx) driverLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	watchdogEnabled := d.cfgMgr.Get().Scheduler.WatchdogSec > 0

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.sched.Loop()
			d.actions.Check(time.Now())
			if watchdogEnabled {
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}
}

// recordLoop tails the event bus and persists every lifecycle event to
// history, decoupled from the driver loop by the bus's own buffering.
func (d *daemonCtx) recordLoop(ctx context.Context) error {
	ch, unsub := d.bus.Subscribe(64)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			reason := ""
			if ev.Type == eventbus.TypeRemove {
				reason = ev.Reason.String()
			}
			_ = d.recorder.Record(ctx, ev.Type, reason, "", ev.PID)
		}
	}
}

// drain pauses the scheduler before the process exits: Hold() first so no
// task fires after the shutdown signal, then Stop() to mark whatever
// remains for cancellation. Both act only through Loop, and a held Loop
// returns at once, so the marked tasks are not erased before exit.
func (d *daemonCtx) drain() {
	d.sched.Hold()
	d.sched.Stop()
}
