package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskr/internal/service"
	"taskr/internal/session"
)

type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldDue
	fieldCount
)

// createScreen is the new-task form.
type createScreen struct {
	id   int
	ctx  context.Context
	sess *session.Session

	title      textinput.Model
	desc       textarea.Model
	due        datePicker
	focus      createField
	submitting bool
}

func newCreateScreen(ctx context.Context, sess *session.Session) *createScreen {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	ta := textarea.New()
	ta.Placeholder = "Details (optional)"
	ta.ShowLineNumbers = false
	ta.SetWidth(40)
	ta.SetHeight(4)
	ta.Cursor.SetMode(cursor.CursorStatic)

	s := &createScreen{
		id:    nextScreenID(),
		ctx:   ctx,
		sess:  sess,
		title: ti,
		desc:  ta,
		due:   newDatePicker(),
	}
	s.title.Focus()
	return s
}

func (s *createScreen) ID() int { return s.id }

func (s *createScreen) Init() tea.Cmd { return nil }

func (s *createScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.submitting = false
		if msg.err != nil {
			return s, alertErr(opCreate.failure(), msg.err)
		}
		return s, pop(s.id)

	case tea.WindowSizeMsg:
		w := max(20, min(msg.Width-16, 72))
		s.title.Width = w
		s.desc.SetWidth(w)
		return s, nil

	case tea.KeyMsg:
		return s.updateKey(msg)
	}
	return s, nil
}

func (s *createScreen) updateKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	if s.due.open {
		s.due = s.due.Update(msg)
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s, pop(s.id)
	case "ctrl+s":
		return s, s.submit()
	case "tab":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldTitle:
		if msg.String() == "enter" {
			return s, s.submit()
		}
		s.title, cmd = s.title.Update(msg)
	case fieldDescription:
		s.desc, cmd = s.desc.Update(msg)
	case fieldDue:
		switch msg.String() {
		case "enter", " ", "space":
			s.due = s.due.Open()
		case "x", "backspace", "delete":
			s.due = s.due.Clear()
		}
	}
	return s, cmd
}

func (s *createScreen) setFocus(f createField) tea.Cmd {
	s.focus = f
	s.title.Blur()
	s.desc.Blur()
	switch f {
	case fieldTitle:
		return s.title.Focus()
	case fieldDescription:
		return s.desc.Focus()
	}
	return nil
}

// submit validates locally and sends the create. A blank title never
// reaches the store.
func (s *createScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	title := strings.TrimSpace(s.title.Value())
	if title == "" {
		return alertText("Title required", "Enter a title before saving.")
	}

	task := service.NewTask{
		Title:       title,
		Description: strings.TrimSpace(s.desc.Value()),
		DueDate:     s.due.Value(),
	}
	s.submitting = true
	ctx, st, id := s.ctx, s.sess.Store, s.id
	return func() tea.Msg {
		return resultMsg{to: id, op: opCreate, err: st.Create(ctx, task)}
	}
}

func (s *createScreen) label(f createField, text string) string {
	if s.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (s *createScreen) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New task"))
	if s.submitting {
		b.WriteString("  " + mutedStyle.Render("saving…"))
	}
	b.WriteString("\n\n")

	b.WriteString(s.label(fieldTitle, "Title") + s.title.View() + "\n\n")
	b.WriteString(s.label(fieldDescription, "Description") + "\n" + s.desc.View() + "\n\n")
	b.WriteString(s.label(fieldDue, "Due") + s.due.String() + "\n")
	if cal := s.due.View(); cal != "" {
		b.WriteString(cal + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • enter/ctrl+s save • esc cancel"))
	b.WriteString("\n")
	return b.String()
}
