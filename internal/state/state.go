// Package state holds the shared application state: the handle of the one
// supervised backend process. The UI event loop delivers events sequentially,
// so the mutex only guards against the tray goroutine racing the Wails callbacks.
package state

import (
	"sync"

	"github.com/promethea-app/promethea/internal/supervisor"
)

// AppState tracks at most one backend process handle. The handle is nil before
// a successful start and after a successful stop, never shared outside this type.
type AppState struct {
	mu      sync.Mutex
	backend *supervisor.Handle
}

// New creates the state container with the freshly started backend handle.
func New(backend *supervisor.Handle) *AppState {
	return &AppState{backend: backend}
}

// Take removes and returns the tracked handle. After Take the state holds
// nothing, so a second caller gets nil: quit can only stop the backend once.
func (s *AppState) Take() *supervisor.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.backend
	s.backend = nil
	return h
}

// Tracking reports whether a backend handle is currently held.
func (s *AppState) Tracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend != nil
}
