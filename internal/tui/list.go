package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskr/internal/output"
	"taskr/internal/service"
	"taskr/internal/session"
)

// listScreen shows every cached task.
type listScreen struct {
	id   int
	ctx  context.Context
	sess *session.Session

	cursor  int
	confirm *service.Task // awaiting y/n before delete
}

func newListScreen(ctx context.Context, sess *session.Session) *listScreen {
	return &listScreen{id: nextScreenID(), ctx: ctx, sess: sess}
}

func (s *listScreen) ID() int { return s.id }

func (s *listScreen) Init() tea.Cmd {
	return fetchAll(s.ctx, s.sess.Store, s.id)
}

// selected returns the task under the cursor.
func (s *listScreen) selected() (service.Task, bool) {
	tasks := s.sess.Store.Tasks()
	s.cursor = clamp(s.cursor, len(tasks))
	if len(tasks) == 0 {
		return service.Task{}, false
	}
	return tasks[s.cursor], true
}

func (s *listScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.err != nil && msg.op != opFetch {
			return s, alertErr(msg.op.failure(), msg.err)
		}
		return s, nil

	case tea.KeyMsg:
		if s.confirm != nil {
			return s.updateConfirm(msg.String())
		}
		return s.updateKey(msg.String())
	}
	return s, nil
}

func (s *listScreen) updateConfirm(key string) (screen, tea.Cmd) {
	task := *s.confirm
	switch key {
	case "y", "Y":
		s.confirm = nil
		return s, remove(s.ctx, s.sess.Store, s.id, task.ID)
	case "n", "N", "esc":
		s.confirm = nil
	}
	return s, nil
}

func (s *listScreen) updateKey(key string) (screen, tea.Cmd) {
	n := s.sess.Store.Len()
	switch key {
	case "q":
		return s, tea.Quit
	case "up", "k":
		s.cursor = clamp(s.cursor-1, n)
	case "down", "j":
		s.cursor = clamp(s.cursor+1, n)
	case "r":
		return s, fetchAll(s.ctx, s.sess.Store, s.id)
	case "n":
		return s, push(newCreateScreen(s.ctx, s.sess))
	case "enter":
		if task, ok := s.selected(); ok {
			return s, push(newDetailScreen(s.ctx, s.sess, task.ID))
		}
	case " ", "space":
		if task, ok := s.selected(); ok {
			return s, setStatus(s.ctx, s.sess.Store, s.id, task.ID, task.Status.Toggle())
		}
	case "d":
		if task, ok := s.selected(); ok {
			s.confirm = &task
		}
	}
	return s, nil
}

func (s *listScreen) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	if s.sess.Store.Loading() {
		b.WriteString("  " + mutedStyle.Render("loading…"))
	}
	b.WriteString("\n\n")

	tasks := s.sess.Store.Tasks()
	s.cursor = clamp(s.cursor, len(tasks))
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks. Press n to add one."))
		b.WriteString("\n")
	}
	for i, task := range tasks {
		b.WriteString(s.row(i, task))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.confirm != nil {
		fmt.Fprintf(&b, "Delete %q? y/n\n", output.NormalizeTitle(s.confirm.Title))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ move • enter open • n new • space toggle • d delete • r refresh • q quit"))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *listScreen) row(i int, task service.Task) string {
	line := output.Checkbox(task.Status) + " " + output.NormalizeTitle(task.Title)
	if task.DueDate != nil {
		line += mutedStyle.Render("  " + task.DueDate.String())
	}
	if task.Done() {
		line = doneStyle.Render(line)
	}
	if i == s.cursor {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

// clamp keeps i within [0, n).
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
