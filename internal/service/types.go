// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus parses a status string. Only "pending" and "completed" are valid.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// UnmarshalJSON accepts only the two known statuses.
func (s *Status) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid status: %s", data)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task represents a single task item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	DueDate     *Date  `json:"dueDate"`
}

// Validate checks a task decoded from a backend. A missing status never
// reaches UnmarshalJSON, so it is caught here. Empty titles are allowed and
// rendered as "(untitled)".
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task without id")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task %s: invalid status: %q", t.ID, t.Status)
	}
	return nil
}

// Done reports whether the task is completed.
func (t Task) Done() bool {
	return t.Status == StatusCompleted
}

// NewTask is the create request payload. The server assigns the ID.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     *Date  `json:"dueDate"`
}

// StatusUpdate is the status update request payload.
type StatusUpdate struct {
	Status Status `json:"status"`
}

// Date is a calendar date without a time component.
type Date civil.Date

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(civil.DateOf(t))
}

// ParseDate parses a YYYY-MM-DD string. RFC 3339 timestamps are accepted
// too; only their date part is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return Date(d), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return civil.Date(d).In(time.UTC)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date(civil.Date(d).AddDays(n))
}

func (d Date) String() string {
	return civil.Date(d).String()
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes "YYYY-MM-DD" or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date: %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
