package commands

import (
	"context"
	"flag"
	"io"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/session"
	"taskr/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd starts the interactive list, create and detail screens.
type TUICmd struct{}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return []string{"ui"} }
func (c *TUICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *TUICmd) Usage() string      { return "taskr tui [common flags]" }
func (c *TUICmd) NeedsSession() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

// runTUI is swapped in tests; the real program needs a terminal.
var runTUI = tui.Run

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return userError(errOut, "unexpected argument: %s", args[0])
	}
	if err := runTUI(ctx, sess); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
