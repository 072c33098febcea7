package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"taskr/internal/service"
	"taskr/internal/store"
)

// screen is one entry of the navigation stack.
type screen interface {
	ID() int
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

var lastScreenID atomic.Int64

func nextScreenID() int {
	return int(lastScreenID.Add(1))
}

// op names the request a resultMsg answers.
type op int

const (
	opFetch op = iota
	opGet
	opCreate
	opToggle
	opRemove
)

// failure is the alert title used when op fails.
func (o op) failure() string {
	switch o {
	case opFetch:
		return "Could not load tasks"
	case opGet:
		return "Could not load task"
	case opCreate:
		return "Could not create task"
	case opToggle:
		return "Could not update task"
	case opRemove:
		return "Could not delete task"
	default:
		return "Request failed"
	}
}

// resultMsg carries the outcome of a request started by screen `to`.
// It is delivered even if that screen has been popped meanwhile.
type resultMsg struct {
	to     int
	op     op
	task   service.Task
	status service.Status
	err    error
}

type pushMsg struct{ s screen }

// popMsg pops the top screen if it is still `from`.
type popMsg struct{ from int }

type alertMsg struct{ title, body string }

type storeEventMsg struct{ ev store.Event }

func push(s screen) tea.Cmd {
	return func() tea.Msg { return pushMsg{s: s} }
}

func pop(from int) tea.Cmd {
	return func() tea.Msg { return popMsg{from: from} }
}

func alertErr(title string, err error) tea.Cmd {
	return func() tea.Msg { return alertMsg{title: title, body: service.Describe(err)} }
}

func alertText(title, body string) tea.Cmd {
	return func() tea.Msg { return alertMsg{title: title, body: body} }
}

// fetchAll refreshes the store. Failures reach the user through the store's
// error event, so the result carries no alert of its own.
func fetchAll(ctx context.Context, st *store.Store, from int) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{to: from, op: opFetch, err: st.FetchAll(ctx)}
	}
}

func setStatus(ctx context.Context, st *store.Store, from int, id string, status service.Status) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{to: from, op: opToggle, status: status, err: st.SetStatus(ctx, id, status)}
	}
}

func remove(ctx context.Context, st *store.Store, from int, id string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{to: from, op: opRemove, err: st.Remove(ctx, id)}
	}
}
