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

// detailScreen shows one task. It loads the task straight from the API by
// ID instead of reading the store, so it can show a task the cache has not
// seen yet. Writes still go through the store.
type detailScreen struct {
	id     int
	ctx    context.Context
	sess   *session.Session
	taskID string

	task    *service.Task
	busy    bool
	confirm bool

	// prev is the status shown before an optimistic toggle.
	prev service.Status
}

func newDetailScreen(ctx context.Context, sess *session.Session, taskID string) *detailScreen {
	return &detailScreen{id: nextScreenID(), ctx: ctx, sess: sess, taskID: taskID}
}

func (s *detailScreen) ID() int { return s.id }

func (s *detailScreen) Init() tea.Cmd {
	ctx, api, id, taskID := s.ctx, s.sess.API, s.id, s.taskID
	return func() tea.Msg {
		task, err := api.GetTask(ctx, taskID)
		return resultMsg{to: id, op: opGet, task: task, err: err}
	}
}

func (s *detailScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return s.handleResult(msg)
	case tea.KeyMsg:
		if s.confirm {
			return s.updateConfirm(msg.String())
		}
		return s.updateKey(msg.String())
	}
	return s, nil
}

func (s *detailScreen) handleResult(msg resultMsg) (screen, tea.Cmd) {
	switch msg.op {
	case opGet:
		if msg.err != nil {
			return s, tea.Batch(alertErr(opGet.failure(), msg.err), pop(s.id))
		}
		task := msg.task
		s.task = &task

	case opToggle:
		s.busy = false
		if msg.err != nil {
			if s.task != nil {
				s.task.Status = s.prev
			}
			return s, alertErr(opToggle.failure(), msg.err)
		}

	case opRemove:
		s.busy = false
		if msg.err != nil {
			return s, alertErr(opRemove.failure(), msg.err)
		}
		return s, pop(s.id)
	}
	return s, nil
}

func (s *detailScreen) updateConfirm(key string) (screen, tea.Cmd) {
	switch key {
	case "y", "Y":
		s.confirm = false
		s.busy = true
		return s, remove(s.ctx, s.sess.Store, s.id, s.taskID)
	case "n", "N", "esc":
		s.confirm = false
	}
	return s, nil
}

func (s *detailScreen) updateKey(key string) (screen, tea.Cmd) {
	switch key {
	case "esc", "q", "backspace":
		return s, pop(s.id)
	}
	if s.task == nil || s.busy {
		return s, nil
	}
	switch key {
	case " ", "space", "t":
		// The new status is shown while the write and resync run. This
		// screen does not read from the store, so it keeps the patch.
		s.busy = true
		s.prev = s.task.Status
		s.task.Status = s.prev.Toggle()
		return s, setStatus(s.ctx, s.sess.Store, s.id, s.taskID, s.task.Status)
	case "d":
		s.confirm = true
	}
	return s, nil
}

func (s *detailScreen) View() string {
	var b strings.Builder

	if s.task == nil {
		b.WriteString(titleStyle.Render("Task"))
		b.WriteString("  " + mutedStyle.Render("loading…") + "\n\n")
		b.WriteString(helpStyle.Render("esc back"))
		b.WriteString("\n")
		return b.String()
	}

	t := s.task
	b.WriteString(titleStyle.Render(output.NormalizeTitle(t.Title)))
	if s.busy {
		b.WriteString("  " + mutedStyle.Render("saving…"))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Status") + output.Checkbox(t.Status) + " " + string(t.Status) + "\n")
	b.WriteString(labelStyle.Render("Due") + output.FormatDue(t.DueDate) + "\n")
	b.WriteString(labelStyle.Render("ID") + mutedStyle.Render(t.ID) + "\n")
	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n" + desc + "\n")
	}

	b.WriteString("\n")
	if s.confirm {
		fmt.Fprintf(&b, "Delete %q? y/n\n", output.NormalizeTitle(t.Title))
	} else {
		b.WriteString(helpStyle.Render("space toggle • d delete • esc back"))
		b.WriteString("\n")
	}
	return b.String()
}
