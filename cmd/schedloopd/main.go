// Command schedloopd drives a schedloop.Scheduler as a long-running
// daemon: it loads a declarative task/scheduled-action list from a config
// file, ticks the engine on a time.Ticker, republishes lifecycle events to
// an event bus and a SQLite history log, and (optionally) reports liveness
// to systemd's watchdog.
//
// Grounded on pewbot/cmd/bot/main.go's shape (flag-driven config path,
// signal.NotifyContext, App.Start/Stop), generalized with cobra
// subcommands the way wilke-GoWe/cmd/cwl-runner does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped by the release process; left as a placeholder for
// local builds.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "schedloopd",
		Short:         "cooperative task scheduler daemon",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "./schedloopd.yaml", "path to config file (YAML or JSON)")

	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

var cfgPath string
