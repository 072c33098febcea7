// Package session wires one task store to one backend for the lifetime of a
// single CLI invocation or interactive run.
package session

import (
	"io"

	log "github.com/sirupsen/logrus"

	"taskr/internal/service"
	"taskr/internal/store"
)

// Session owns the shared task store and the service it talks to.
// Views receive a Session; none of them keep a task collection of their own.
type Session struct {
	Store *store.Store

	// API is the raw service. Only the detail view uses it directly, to
	// fetch a single task past the cache.
	API service.Service

	Log *log.Logger
}

// New creates a session around svc.
func New(svc service.Service, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	return &Session{
		Store: store.New(svc, logger),
		API:   svc,
		Log:   logger,
	}
}

// Close tears the store down.
func (s *Session) Close() error {
	return s.Store.Close()
}
