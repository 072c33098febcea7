// Package tui implements the interactive task screens on bubbletea.
//
// The root Model owns a stack of screens and a queue of alerts. Screens
// never keep their own copy of the task collection: the list renders the
// session store at render time, and requests run as tea.Cmds that answer
// with a resultMsg addressed to the screen that started them.
package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskr/internal/service"
	"taskr/internal/session"
	"taskr/internal/store"
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	stack  []screen
	alerts []alertMsg

	width  int
	height int
}

// New returns a model showing the task list.
func New(ctx context.Context, sess *session.Session) Model {
	return Model{
		ctx:   ctx,
		sess:  sess,
		stack: []screen{newListScreen(ctx, sess)},
	}
}

// Run shows the screens until the user quits or ctx is cancelled. Log
// output is held back while the terminal is in use and written afterwards.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := sess.Store.Subscribe(func(ev store.Event) {
		p.Send(storeEventMsg{ev: ev})
	})
	defer unsubscribe()

	out := sess.Log.Out
	var held bytes.Buffer
	sess.Log.SetOutput(&held)
	defer func() {
		sess.Log.SetOutput(out)
		_, _ = io.Copy(out, &held)
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.top().Init()
}

func (m Model) top() screen {
	return m.stack[len(m.stack)-1]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.alerts) > 0 {
			// The alert blocks everything else until dismissed.
			switch msg.String() {
			case "enter", "esc", " ", "space":
				m.alerts = m.alerts[1:]
			}
			return m, nil
		}
		return m.updateTop(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.updateTop(msg)

	case storeEventMsg:
		if msg.ev.Kind == store.EventError {
			m.alerts = append(m.alerts, alertMsg{
				title: opFetch.failure(),
				body:  service.Describe(msg.ev.Err),
			})
		}
		return m, nil

	case alertMsg:
		m.alerts = append(m.alerts, msg)
		return m, nil

	case pushMsg:
		m.stack = append(m.stack, msg.s)
		cmds := []tea.Cmd{msg.s.Init()}
		if m.width > 0 {
			var cmd tea.Cmd
			m, cmd = m.updateTop(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case popMsg:
		if len(m.stack) > 1 && m.top().ID() == msg.from {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return m, nil

	case resultMsg:
		for i, s := range m.stack {
			if s.ID() == msg.to {
				var cmd tea.Cmd
				m.stack = append([]screen(nil), m.stack...)
				m.stack[i], cmd = s.Update(msg)
				return m, cmd
			}
		}
		// The screen is gone. Failures are still shown; fetch failures
		// already arrived as a store event.
		if msg.err != nil && msg.op != opFetch {
			m.alerts = append(m.alerts, alertMsg{title: msg.op.failure(), body: service.Describe(msg.err)})
		}
		return m, nil
	}

	return m.updateTop(msg)
}

func (m Model) updateTop(msg tea.Msg) (Model, tea.Cmd) {
	i := len(m.stack) - 1
	var cmd tea.Cmd
	m.stack = append([]screen(nil), m.stack...)
	m.stack[i], cmd = m.stack[i].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	view := m.top().View()
	if len(m.alerts) == 0 {
		return view
	}

	a := m.alerts[0]
	var b strings.Builder
	b.WriteString(alertTitleStyle.Render(a.title))
	b.WriteString("\n\n")
	b.WriteString(a.body)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: dismiss"))
	box := alertStyle.Render(b.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return view + "\n\n" + box
}
