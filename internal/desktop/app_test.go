package desktop

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/promethea-app/promethea/internal/config"
	"github.com/promethea-app/promethea/internal/state"
	"github.com/promethea-app/promethea/internal/supervisor"
)

type fakeStopper struct {
	stopped []*supervisor.Handle
}

func (f *fakeStopper) Stop(h *supervisor.Handle) {
	f.stopped = append(f.stopped, h)
}

type appFixture struct {
	app     *LauncherApp
	stopper *fakeStopper
	hidden  int
	shown   int
	exits   []int
	order   []string
}

func newAppFixture(handle *supervisor.Handle) *appFixture {
	f := &appFixture{stopper: &fakeStopper{}}
	backend := config.Backend{Host: "127.0.0.1", Port: 8000}
	f.app = NewLauncherApp(backend, state.New(handle), &stopRecorder{f}, nil, "")
	f.app.hideWindow = func() { f.hidden++; f.order = append(f.order, "hide") }
	f.app.showWindow = func() { f.shown++; f.order = append(f.order, "show") }
	f.app.exit = func(code int) { f.exits = append(f.exits, code); f.order = append(f.order, "exit") }
	return f
}

// stopRecorder keeps the stop/exit ordering observable in one place.
type stopRecorder struct{ f *appFixture }

func (s *stopRecorder) Stop(h *supervisor.Handle) {
	s.f.stopper.Stop(h)
	s.f.order = append(s.f.order, "stop")
}

func TestBeforeCloseHidesAndSuppresses(t *testing.T) {
	f := newAppFixture(&supervisor.Handle{PID: 1})

	if !f.app.BeforeClose(context.Background()) {
		t.Error("BeforeClose() = false, close would destroy the window")
	}
	if f.hidden != 1 {
		t.Errorf("window hidden %d times, want 1", f.hidden)
	}
	if len(f.exits) != 0 {
		t.Error("BeforeClose must never terminate the application")
	}
	if !f.app.state.Tracking() {
		t.Error("BeforeClose must not touch the backend handle")
	}
}

func TestQuitStopsBackendThenExits(t *testing.T) {
	h := &supervisor.Handle{PID: 42}
	f := newAppFixture(h)

	f.app.Quit()

	if len(f.stopper.stopped) != 1 || f.stopper.stopped[0] != h {
		t.Fatalf("stop invocations = %v, want exactly the tracked handle once", f.stopper.stopped)
	}
	if len(f.exits) != 1 || f.exits[0] != 0 {
		t.Fatalf("exit calls = %v, want [0]", f.exits)
	}
	if len(f.order) != 2 || f.order[0] != "stop" || f.order[1] != "exit" {
		t.Errorf("order = %v, want stop before exit", f.order)
	}
}

func TestQuitWithoutHandleStillExits(t *testing.T) {
	f := newAppFixture(nil)

	f.app.Quit()

	if len(f.stopper.stopped) != 0 {
		t.Errorf("stop invoked %d times with no handle, want 0", len(f.stopper.stopped))
	}
	if len(f.exits) != 1 || f.exits[0] != 0 {
		t.Fatalf("exit calls = %v, want [0]", f.exits)
	}
}

func TestQuitTwiceStopsOnce(t *testing.T) {
	f := newAppFixture(&supervisor.Handle{PID: 42})

	f.app.Quit()
	f.app.Quit()

	if len(f.stopper.stopped) != 1 {
		t.Errorf("stop invoked %d times across two quits, want 1", len(f.stopper.stopped))
	}
}

func TestCheckBackendStatus(t *testing.T) {
	tests := []struct {
		name    string
		dialErr error
		ready   bool
	}{
		{name: "backend reachable", dialErr: nil, ready: true},
		{name: "backend down", dialErr: errors.New("connection refused"), ready: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(nil)
			f.app.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
				if addr != "127.0.0.1:8000" {
					t.Errorf("dialed %q, want 127.0.0.1:8000", addr)
				}
				if tt.dialErr != nil {
					return nil, tt.dialErr
				}
				server, client := net.Pipe()
				go server.Close()
				return client, nil
			}

			status := f.app.CheckBackendStatus()
			if status.Ready != tt.ready {
				t.Errorf("Ready = %v, want %v", status.Ready, tt.ready)
			}
			if status.Addr != "127.0.0.1:8000" {
				t.Errorf("Addr = %q, want 127.0.0.1:8000", status.Addr)
			}
		})
	}
}
