// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskr/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference, not found).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps a service error to an exit code.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, service.ErrUnauthorized):
		return AuthError
	case errors.Is(err, service.ErrNotFound):
		return UserError
	default:
		return BackendError
	}
}
