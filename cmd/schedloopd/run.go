package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	logx "schedloop/pkg/logx"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run the scheduler daemon until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDaemon(cfgPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			go func() {
				for s := range sig {
					switch s {
					case syscall.SIGHUP:
						d.log.Info("schedloopd: SIGHUP received, reloading config")
						if err := d.cfgMgr.Reload(ctx); err != nil {
							d.log.Warn("schedloopd: config reload failed", logx.Err(err))
						}
					default:
						d.log.Info("schedloopd: shutdown signal received")
						d.drain()
						cancel()
						return
					}
				}
			}()

			d.log.Info("schedloopd: starting")
			err = d.run(ctx)
			signal.Stop(sig)
			close(sig)
			d.log.Info("schedloopd: stopped")
			return err
		},
	}
}
