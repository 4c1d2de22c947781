package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedloop"
	"schedloop/internal/config"
	logx "schedloop/pkg/logx"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "parse the config file and report errors without starting the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := config.NewManager(cfgPath)
			cfg, err := mgr.Parse()
			if err != nil {
				return fmt.Errorf("%s: %w", cfgPath, err)
			}
			sched := schedloop.New(schedloop.NewSystemClock())
			if err := registerTasks(sched, cfg.Tasks, logx.Nop()); err != nil {
				return err
			}
			if err := registerScheduledActions(schedloop.NewScheduledActions(), cfg.ScheduledActions, logx.Nop()); err != nil {
				return err
			}
			fmt.Printf("%s: ok (%d tasks, %d scheduled actions)\n", cfgPath, len(cfg.Tasks), len(cfg.ScheduledActions))
			return nil
		},
	}
}
