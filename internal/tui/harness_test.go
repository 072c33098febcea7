package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskr/internal/session"
	"taskr/internal/store"
	"taskr/internal/testutil"
)

// harness drives a Model synchronously: every returned command is executed
// in place and its message fed back, the way the bubbletea runtime would.
type harness struct {
	t      *testing.T
	m      Model
	svc    *testutil.FakeService
	sess   *session.Session
	events []store.Event
	quit   bool
}

func newHarness(t *testing.T, svc *testutil.FakeService) *harness {
	t.Helper()
	sess := session.New(svc, nil)
	t.Cleanup(func() { _ = sess.Close() })

	h := &harness{t: t, svc: svc, sess: sess}
	sess.Store.Subscribe(func(ev store.Event) {
		h.events = append(h.events, ev)
	})
	h.m = New(context.Background(), sess)
	h.run(h.m.Init())
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	model, cmd := h.m.Update(msg)
	h.m = model.(Model)
	h.run(cmd)
	h.flushEvents()
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case tea.QuitMsg:
		h.quit = true
	case resultMsg, pushMsg, popMsg, alertMsg:
		h.send(msg)
	}
	h.flushEvents()
}

// flushEvents delivers queued store events the way Run's subscription does.
func (h *harness) flushEvents() {
	for len(h.events) > 0 {
		ev := h.events[0]
		h.events = h.events[1:]
		model, _ := h.m.Update(storeEventMsg{ev: ev})
		h.m = model.(Model)
	}
}

func (h *harness) key(k string) {
	h.t.Helper()
	h.send(keyMsg(k))
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func (h *harness) top() screen {
	return h.m.top()
}

func (h *harness) alertTitles() []string {
	var titles []string
	for _, a := range h.m.alerts {
		titles = append(titles, a.title)
	}
	return titles
}
