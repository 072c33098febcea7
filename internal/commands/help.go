package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. With a command name it prints that
// command's usage; otherwise the overview.
type HelpCmd struct {
	// Registry defaults to DefaultRegistry.
	Registry *Registry
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskr help [command]" }
func (c *HelpCmd) NeedsSession() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	switch len(args) {
	case 0:
		fmt.Fprint(out, helpText)
		fmt.Fprintln(out, "\nCommands:")
		for _, cmd := range reg.All() {
			fmt.Fprintf(out, "  %-8s %s\n", cmd.Name(), cmd.Synopsis())
		}
		return exitcode.Success
	case 1:
	default:
		return userError(errOut, "unexpected argument: %s", args[1])
	}

	cmd, ok := reg.Find(args[0])
	if !ok {
		return userError(errOut, "unknown command: %s", args[0])
	}
	fmt.Fprintf(out, "%s: %s\n\nUsage:\n  %s\n", cmd.Name(), cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskr                                              List all tasks
  taskr list [common flags] [--status pending|completed]
  taskr add [common flags] [--description <text>] [--due YYYY-MM-DD] <title...>
  taskr create [common flags] [--description <text>] [--due YYYY-MM-DD] <title...>
  taskr show [common flags] <ref>
  taskr done [common flags] <ref>
  taskr undo [common flags] <ref>
  taskr rm [common flags] <ref>
  taskr tui [common flags]                           Interactive task list
  taskr login [common flags] [--token <token>]
  taskr logout [common flags]
  taskr help [command]
  taskr version

Task references:
  3          third task in 'taskr list' output
  id:<id>    task with the given server ID
  <id>       any other value is taken as a server ID

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
