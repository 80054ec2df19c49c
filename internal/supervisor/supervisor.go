package supervisor

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// Handle is the reference to a spawned backend process. It is only ever used
// to request termination; the launcher does no further IPC with the backend.
type Handle struct {
	PID     int
	process *os.Process
}

// Supervisor spawns and kills the Python API server process.
type Supervisor struct {
	interpreter string
	module      string
	host        string
	port        int
	warmup      time.Duration

	// spawn and kill are replaceable in tests
	spawn func(*exec.Cmd) error
	kill  func(*os.Process) error
	sleep func(time.Duration)
}

// New creates a supervisor for the given backend.
func New(interpreter, module, host string, port int, warmup time.Duration) *Supervisor {
	return &Supervisor{
		interpreter: interpreter,
		module:      module,
		host:        host,
		port:        port,
		warmup:      warmup,
		spawn:       (*exec.Cmd).Start,
		kill:        (*os.Process).Kill,
		sleep:       time.Sleep,
	}
}

// InterpreterFor returns the Python binary name for the target platform.
func InterpreterFor(goos string) string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// Args returns the uvicorn argument list the backend is launched with.
func (s *Supervisor) Args() []string {
	return []string{
		"-m", "uvicorn", s.module,
		"--host", s.host,
		"--port", strconv.Itoa(s.port),
	}
}

// Start spawns the backend and blocks for the warm-up delay so the server can
// bind its port before the UI becomes interactive. The delay is a blind wait,
// not a readiness check; it runs before the event loop exists.
// A spawn failure is fatal to the caller: the UI has no value without the backend.
func (s *Supervisor) Start() (*Handle, error) {
	log.Printf("[Supervisor] Starting backend: %s %v", s.interpreter, s.Args())

	cmd := exec.Command(s.interpreter, s.Args()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := s.spawn(cmd); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", s.interpreter, err)
	}

	log.Printf("[Supervisor] Backend started, PID: %d", cmd.Process.Pid)

	s.sleep(s.warmup)

	return &Handle{PID: cmd.Process.Pid, process: cmd.Process}, nil
}

// Stop delivers a best-effort kill to the backend. It does not wait for exit:
// quit must proceed unconditionally, so a failed kill is logged and dropped.
func (s *Supervisor) Stop(h *Handle) {
	if h == nil || h.process == nil {
		return
	}
	log.Printf("[Supervisor] Stopping backend, PID: %d", h.PID)
	if err := s.kill(h.process); err != nil {
		log.Printf("Warning: Failed to kill backend PID %d: %v", h.PID, err)
		return
	}
	log.Printf("[Supervisor] Backend stopped")
}
