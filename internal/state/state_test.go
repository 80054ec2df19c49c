package state

import (
	"sync"
	"testing"

	"github.com/promethea-app/promethea/internal/supervisor"
)

func TestTakeReturnsHandleOnce(t *testing.T) {
	h := &supervisor.Handle{PID: 99}
	s := New(h)

	if !s.Tracking() {
		t.Fatal("Tracking() = false after New with handle")
	}
	if got := s.Take(); got != h {
		t.Errorf("first Take() = %v, want %v", got, h)
	}
	if got := s.Take(); got != nil {
		t.Errorf("second Take() = %v, want nil", got)
	}
	if s.Tracking() {
		t.Error("Tracking() = true after Take")
	}
}

func TestTakeNilHandle(t *testing.T) {
	s := New(nil)
	if s.Tracking() {
		t.Error("Tracking() = true for empty state")
	}
	if got := s.Take(); got != nil {
		t.Errorf("Take() = %v, want nil", got)
	}
}

func TestTakeConcurrent(t *testing.T) {
	s := New(&supervisor.Handle{PID: 7})

	const callers = 16
	results := make(chan *supervisor.Handle, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Take()
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for h := range results {
		if h != nil {
			won++
		}
	}
	if won != 1 {
		t.Errorf("%d callers received the handle, want exactly 1", won)
	}
}
