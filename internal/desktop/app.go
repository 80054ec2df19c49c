package desktop

import (
	"context"
	"log"
	"net"
	"os"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/promethea-app/promethea/internal/config"
	"github.com/promethea-app/promethea/internal/launchlog"
	"github.com/promethea-app/promethea/internal/state"
	"github.com/promethea-app/promethea/internal/supervisor"
)

const statusDialTimeout = 500 * time.Millisecond

// BackendStopper requests termination of a supervised backend process.
type BackendStopper interface {
	Stop(h *supervisor.Handle)
}

// LauncherApp 桌面应用：持有后端进程状态，响应窗口和托盘事件
type LauncherApp struct {
	ctx       context.Context
	backend   config.Backend
	state     *state.AppState
	sup       BackendStopper
	launches  *launchlog.Store // nil when the launch log failed to open
	sessionID string

	// replaceable in tests
	hideWindow func()
	showWindow func()
	exit       func(code int)
	dial       func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// NewLauncherApp creates the desktop app around an already-started backend.
func NewLauncherApp(backend config.Backend, st *state.AppState, sup BackendStopper, launches *launchlog.Store, sessionID string) *LauncherApp {
	a := &LauncherApp{
		backend:   backend,
		state:     st,
		sup:       sup,
		launches:  launches,
		sessionID: sessionID,
		exit:      os.Exit,
		dial:      net.DialTimeout,
	}
	a.hideWindow = func() {
		if a.ctx != nil {
			runtime.WindowHide(a.ctx)
		}
	}
	a.showWindow = func() {
		if a.ctx != nil {
			runtime.WindowShow(a.ctx)
			runtime.WindowUnminimise(a.ctx)
		}
	}
	return a
}

// Startup is called by Wails once the window context exists.
func (a *LauncherApp) Startup(ctx context.Context) {
	a.ctx = ctx
	log.Println("[Launcher] Window context ready")
}

// DomReady is called once the frontend has rendered.
func (a *LauncherApp) DomReady(ctx context.Context) {}

// Shutdown is called if the Wails loop ever ends normally. Quit bypasses it.
func (a *LauncherApp) Shutdown(ctx context.Context) {}

// BeforeClose 拦截窗口关闭：隐藏到托盘，不退出。
// Returning true suppresses the close; quitting is the tray's job alone.
func (a *LauncherApp) BeforeClose(ctx context.Context) bool {
	log.Println("[Launcher] Window close requested - hiding to tray")
	a.hideWindow()
	return true
}

// ShowWindow 显示主窗口并取得焦点
func (a *LauncherApp) ShowWindow() {
	a.showWindow()
}

// HideWindow 隐藏主窗口
func (a *LauncherApp) HideWindow() {
	a.hideWindow()
}

// Quit stops the backend if one is still tracked, then terminates the process.
// The two steps are ordered: the stop attempt always happens before exit, and
// exit happens whether or not a handle was present or the kill succeeded.
func (a *LauncherApp) Quit() {
	log.Println("[Launcher] Quitting application...")
	if h := a.state.Take(); h != nil {
		a.sup.Stop(h)
		a.recordStop("quit")
	}
	a.exit(0)
}

func (a *LauncherApp) recordStop(reason string) {
	if a.launches == nil || a.sessionID == "" {
		return
	}
	if err := a.launches.RecordStop(a.sessionID, reason); err != nil {
		log.Printf("Warning: Failed to record backend stop: %v", err)
	}
}

// BackendStatus describes the backend for display in the tray and frontend.
type BackendStatus struct {
	Ready bool   `json:"ready"`
	Addr  string `json:"addr"`
}

// CheckBackendStatus dials the backend port. Display only: startup readiness
// stays the fixed warm-up delay, this never gates anything.
func (a *LauncherApp) CheckBackendStatus() BackendStatus {
	status := BackendStatus{Addr: a.backend.Addr()}
	conn, err := a.dial("tcp", status.Addr, statusDialTimeout)
	if err != nil {
		return status
	}
	conn.Close()
	status.Ready = true
	return status
}
