package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskr/internal/service"
)

// datePicker edits an optional due date. While open, arrow keys move the
// selection by a day (left/right) or a week (up/down).
type datePicker struct {
	date  *service.Date
	open  bool
	today func() service.Date
}

func newDatePicker() datePicker {
	return datePicker{today: func() service.Date { return service.DateOf(time.Now()) }}
}

// Open shows the calendar, starting from today when no date is set.
func (p datePicker) Open() datePicker {
	if p.date == nil {
		d := p.today()
		p.date = &d
	}
	p.open = true
	return p
}

// Clear removes the date and closes the calendar.
func (p datePicker) Clear() datePicker {
	p.date = nil
	p.open = false
	return p
}

// Update handles keys while the calendar is open.
func (p datePicker) Update(msg tea.KeyMsg) datePicker {
	if !p.open {
		return p
	}
	switch msg.String() {
	case "left", "h":
		p = p.shift(-1)
	case "right", "l":
		p = p.shift(1)
	case "up", "k":
		p = p.shift(-7)
	case "down", "j":
		p = p.shift(7)
	case "x":
		p = p.Clear()
	case "enter", "esc":
		p.open = false
	}
	return p
}

func (p datePicker) shift(days int) datePicker {
	d := p.date.AddDays(days)
	p.date = &d
	return p
}

// Value returns the chosen date, or nil.
func (p datePicker) Value() *service.Date {
	if p.date == nil {
		return nil
	}
	d := *p.date
	return &d
}

func (p datePicker) String() string {
	if p.date == nil {
		return "none"
	}
	return p.date.String()
}

// View renders the month of the selected date with the day highlighted.
func (p datePicker) View() string {
	if !p.open || p.date == nil {
		return ""
	}
	sel := *p.date
	first := time.Date(sel.Year, sel.Month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	// Weeks start on Monday.
	offset := (int(first.Weekday()) + 6) % 7

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", sel.Month, sel.Year)
	b.WriteString(" Mo Tu We Th Fr Sa Su\n")
	b.WriteString(strings.Repeat("   ", offset))
	for day := 1; day <= days; day++ {
		cell := fmt.Sprintf("%d", day)
		if day == sel.Day {
			b.WriteString(calendarPickStyle.Render(cell))
		} else {
			b.WriteString(calendarDayStyle.Render(cell))
		}
		if (offset+day)%7 == 0 && day != days {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ day • ↑/↓ week • x clear • enter done"))
	return b.String()
}
