package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/output"
	"taskr/internal/service"
	"taskr/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskr` (no args) and `taskr list`.
type ListCmd struct {
	status string
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(status string) {
	c.status = status
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskr list [--status pending|completed]" }
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return userError(errOut, "unexpected argument: %s", args[0])
	}

	var filter service.Status
	if c.status != "" {
		s, err := service.ParseStatus(c.status)
		if err != nil {
			return userError(errOut, "%v", err)
		}
		filter = s
	}

	if err := sess.Store.FetchAll(ctx); err != nil {
		return reportError(errOut, err)
	}

	// Numbers are positions in the full listing so that `done 3` means the
	// same task whatever filter was used to print it.
	shown := 0
	for i, task := range sess.Store.Tasks() {
		if filter != "" && task.Status != filter {
			continue
		}
		output.FormatTask(out, i+1, task)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
