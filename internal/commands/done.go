package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/service"
	"taskr/internal/session"
)

func init() {
	Register(&StatusCmd{name: "done", status: service.StatusCompleted, synopsis: "Mark a task completed"})
	Register(&StatusCmd{name: "undo", status: service.StatusPending, synopsis: "Mark a task pending again"})
}

// StatusCmd sets a task's status. It backs both done and undo.
type StatusCmd struct {
	name     string
	status   service.Status
	synopsis string
}

func (c *StatusCmd) Name() string       { return c.name }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return c.synopsis }
func (c *StatusCmd) Usage() string      { return "taskr " + c.name + " <ref>" }
func (c *StatusCmd) NeedsSession() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return parseRefError(errOut, err)
	}

	id, err := resolveID(ctx, sess.Store, ref)
	if err != nil {
		return resolveError(errOut, err)
	}

	if err := sess.Store.SetStatus(ctx, id, c.status); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
