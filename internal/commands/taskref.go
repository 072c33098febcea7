package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskr/internal/store"
)

// idPrefix forces a reference to be read as a task ID, even when it is all digits.
const idPrefix = "id:"

// TaskRef represents a parsed task reference.
// Exactly one of Num and ID is set.
type TaskRef struct {
	Num int    // 1-based position in the listing
	ID  string // server-assigned task ID
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// IsNumber reports whether the reference is a listing position.
func (r TaskRef) IsNumber() bool { return r.ID == "" }

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. All digits: a 1-based position in `taskr list` output.
//  2. "id:<value>": the literal task ID <value>.
//  3. Anything else: a literal task ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, idPrefix); ok {
		if strings.TrimSpace(id) == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id}, nil
	}
	return TaskRef{ID: arg}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// errOutOfRange is a user error: the number does not match a listed task.
type errOutOfRange int

func (e errOutOfRange) Error() string {
	return fmt.Sprintf("task number out of range: %d", int(e))
}

// resolveID turns ref into a task ID. Numbers are looked up in a fresh
// listing so they match what `taskr list` prints. IDs pass through without
// any request; the server decides whether they exist.
func resolveID(ctx context.Context, st *store.Store, ref TaskRef) (string, error) {
	if !ref.IsNumber() {
		return ref.ID, nil
	}
	if err := st.FetchAll(ctx); err != nil {
		return "", err
	}
	tasks := st.Tasks()
	if ref.Num > len(tasks) {
		return "", errOutOfRange(ref.Num)
	}
	return tasks[ref.Num-1].ID, nil
}

// parseRefError reports a ParseTaskRef failure.
func parseRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		return userError(errOut, "task reference required")
	}
	return userError(errOut, "%v", err)
}

// resolveError reports a resolveID failure.
func resolveError(errOut io.Writer, err error) int {
	var oor errOutOfRange
	if errors.As(err, &oor) {
		return userError(errOut, "%v", oor)
	}
	return reportError(errOut, err)
}
