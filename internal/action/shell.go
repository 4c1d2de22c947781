// Package action turns a config.TaskConfig/ScheduledActionConfig's Command
// string into the func() callback the scheduler core actually calls.
//
// Grounded on pewbot/pkg/systemd's exec.CommandContext usage: same
// context-bounded shell invocation, generalized from a fixed systemctl
// argv to an arbitrary configured command line.
package action

import (
	"context"
	"os/exec"
	"time"

	logx "schedloop/pkg/logx"
)

// DefaultTimeout bounds how long a single shell action may run before it
// is killed, so a hung command can never starve the driver loop's next
// tick.
const DefaultTimeout = 30 * time.Second

// Shell returns a func() that runs command via "sh -c" and logs its
// outcome. label identifies the task/scheduled action in log lines.
func Shell(log logx.Logger, label, command string) func() {
	return func() {
		if command == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()

		start := time.Now()
		out, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
		took := time.Since(start)

		if err != nil {
			log.Warn("action: command failed",
				logx.String("label", label),
				logx.String("command", command),
				logx.Duration("took", took),
				logx.Err(err),
			)
			return
		}
		log.Debug("action: command ok",
			logx.String("label", label),
			logx.Duration("took", took),
			logx.Int("output_bytes", len(out)),
		)
	}
}
