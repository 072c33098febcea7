package commands

import (
	"context"
	"flag"
	"io"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/output"
	"taskr/internal/session"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints one task in full. The task is fetched from the backend by
// ID, not read from the cache.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Show task details" }
func (c *ShowCmd) Usage() string      { return "taskr show <ref>" }
func (c *ShowCmd) NeedsSession() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return parseRefError(errOut, err)
	}

	id, err := resolveID(ctx, sess.Store, ref)
	if err != nil {
		return resolveError(errOut, err)
	}

	task, err := sess.API.GetTask(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}

	output.FormatDetail(out, task)
	return exitcode.Success
}
