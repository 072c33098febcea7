package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/service"
	"taskr/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command. `create` is an alias.
type AddCmd struct {
	description string
	due         string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

// SetDue sets the due date argument (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskr add [--description <text>] [--due YYYY-MM-DD] <title...>"
}
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	task, code := c.newTask(args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := sess.Store.Create(ctx, task); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// newTask validates arguments without touching the backend.
func (c *AddCmd) newTask(args []string, errOut io.Writer) (service.NewTask, int) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return service.NewTask{}, userError(errOut, "title required")
	}

	task := service.NewTask{
		Title:       title,
		Description: strings.TrimSpace(c.description),
	}
	if c.due != "" {
		d, err := service.ParseDate(c.due)
		if err != nil {
			return service.NewTask{}, userError(errOut, "invalid due date: %s", c.due)
		}
		task.DueDate = &d
	}
	return task, exitcode.Success
}
