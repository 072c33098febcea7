// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskr/internal/service"
)

// FormatTask formats a task line for the list.
// Format: "{N:>4}  [{x| }] {TITLE}[  (due YYYY-MM-DD)]\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s%s\n", num, Checkbox(task.Status), NormalizeTitle(task.Title), dueSuffix(task))
}

// FormatDetail prints every field of a task, one per line.
func FormatDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "ID:          %s\n", task.ID)
	fmt.Fprintf(w, "Title:       %s\n", NormalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:      %s\n", task.Status)
	fmt.Fprintf(w, "Due:         %s\n", FormatDue(task.DueDate))
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintln(w, "Description:")
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r"))
		}
	}
}

// Checkbox renders a status as "[ ]" or "[x]".
func Checkbox(s service.Status) string {
	if s == service.StatusCompleted {
		return "[x]"
	}
	return "[ ]"
}

// FormatDue renders an optional due date; "-" when absent.
func FormatDue(d *service.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func dueSuffix(task service.Task) string {
	if task.DueDate == nil {
		return ""
	}
	return "  (due " + task.DueDate.String() + ")"
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
