// Package store holds the in-process task cache shared by every view.
//
// The store is the single source of truth for the task collection within one
// session. All reads and writes go through a service.Service. Writes are
// never applied to the cache locally: after every successful mutation the
// whole collection is re-fetched and replaced (resync). This costs a round
// trip per write but keeps the cache equal to what the server returned last.
// Do not turn this into incremental patching without re-establishing that
// guarantee.
//
// Operations are not queued. Concurrent fetches race and the last one to
// complete overwrites the cache. The mutex only protects the fields.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"taskr/internal/service"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// EventKind identifies a store notification.
type EventKind int

const (
	// EventLoading is emitted when the loading flag changes.
	EventLoading EventKind = iota
	// EventChanged is emitted after the cache has been replaced.
	EventChanged
	// EventError is emitted when a fetch fails. Err holds the failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventLoading:
		return "loading"
	case EventChanged:
		return "changed"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to subscribers.
type Event struct {
	Kind    EventKind
	Loading bool
	Err     error
}

// Listener receives store events. It is called outside the store lock and
// may call back into the store.
type Listener func(Event)

// Store caches the task collection for one session.
type Store struct {
	svc    service.Service
	logger *log.Logger

	mu        sync.RWMutex
	tasks     []service.Task
	inflight  int
	closed    bool
	listeners map[int]Listener
	nextSub   int
}

// New creates a store backed by svc. The cache starts empty; call FetchAll.
func New(svc service.Service, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	return &Store{
		svc:       svc,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close tears the store down. Listeners are dropped and later operations
// return ErrClosed. Requests already in flight still complete.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[int]Listener)
	s.tasks = nil
	return nil
}

// Tasks returns a copy of the cached collection in server order.
func (s *Store) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of cached tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// GetByID looks id up in the cache. It never performs I/O, so a task that
// exists remotely but has not been fetched yet is reported absent.
func (s *Store) GetByID(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// FetchAll replaces the cache with the server's collection. On failure the
// cache keeps its last good value and an EventError is emitted.
func (s *Store) FetchAll(ctx context.Context) error {
	if err := s.beginFetch(); err != nil {
		return err
	}

	tasks, err := s.svc.ListTasks(ctx)

	s.mu.Lock()
	s.inflight--
	loading := s.inflight > 0
	if err == nil && !s.closed {
		s.tasks = append(make([]service.Task, 0, len(tasks)), tasks...)
	}
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoading, Loading: loading})
	if err != nil {
		err = fmt.Errorf("fetch tasks: %w", err)
		s.logger.WithError(err).Debug("store.fetch.failed")
		s.emit(Event{Kind: EventError, Err: err})
		return err
	}
	s.logger.WithField("tasks", len(tasks)).Debug("store.fetch")
	s.emit(Event{Kind: EventChanged})
	return nil
}

func (s *Store) beginFetch() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.inflight++
	s.mu.Unlock()
	s.emit(Event{Kind: EventLoading, Loading: true})
	return nil
}

// Create sends a new task and resyncs. The title is not validated here;
// callers reject blank titles before calling.
func (s *Store) Create(ctx context.Context, task service.NewTask) error {
	return s.mutate(ctx, "create", func() error {
		return s.svc.CreateTask(ctx, task)
	})
}

// SetStatus updates a task's status and resyncs.
func (s *Store) SetStatus(ctx context.Context, id string, status service.Status) error {
	return s.mutate(ctx, "set_status", func() error {
		return s.svc.UpdateStatus(ctx, id, status)
	})
}

// Remove deletes a task and resyncs.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove", func() error {
		return s.svc.DeleteTask(ctx, id)
	})
}

// mutate runs op and, when it succeeds, resyncs the whole collection. The
// cache is never touched when op fails. A failed resync does not fail the
// mutation: it has already been reported through EventError.
func (s *Store) mutate(ctx context.Context, name string, op func() error) error {
	if s.isClosed() {
		return ErrClosed
	}
	if err := op(); err != nil {
		s.logger.WithError(err).WithField("op", name).Debug("store.mutation.failed")
		return err
	}
	if err := s.FetchAll(ctx); err != nil && !errors.Is(err, ErrClosed) {
		s.logger.WithError(err).WithField("op", name).Warn("resync after write failed; showing last known tasks")
	}
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) emit(ev Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
