package desktop

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// TrayEvent is one tray interaction, delivered sequentially by the menu loop.
type TrayEvent string

const (
	EventOpen        TrayEvent = "open"
	EventHide        TrayEvent = "hide"
	EventQuit        TrayEvent = "quit"
	EventDoubleClick TrayEvent = "double-click"
)

// MenuEntry is one row of the tray menu. The model is fixed at build time and
// read-only afterwards.
type MenuEntry struct {
	ID        TrayEvent
	Label     string
	Tooltip   string
	Separator bool
}

// BuildMenu returns the tray menu model: open, hide, separator, quit.
func BuildMenu() []MenuEntry {
	return []MenuEntry{
		{ID: EventOpen, Label: "打开主窗口", Tooltip: "显示主窗口"},
		{ID: EventHide, Label: "隐藏窗口", Tooltip: "隐藏主窗口"},
		{Separator: true},
		{ID: EventQuit, Label: "退出 Promethea", Tooltip: "停止后端并退出"},
	}
}

// TrayManager 管理系统托盘
type TrayManager struct {
	ctx              context.Context
	app              *LauncherApp
	items            map[TrayEvent]*systray.MenuItem
	menuServerStatus *systray.MenuItem
	menuServerAddr   *systray.MenuItem

	// doubleClickCh receives icon double-clicks where the platform tray
	// delivers them; on other platforms it simply never fires.
	doubleClickCh chan struct{}
}

// NewTrayManager 创建托盘管理器
func NewTrayManager(ctx context.Context, app *LauncherApp) *TrayManager {
	return &TrayManager{
		ctx:           ctx,
		app:           app,
		items:         make(map[TrayEvent]*systray.MenuItem),
		doubleClickCh: make(chan struct{}, 1),
	}
}

// Start 启动托盘（阻塞当前 goroutine）
func (t *TrayManager) Start() {
	systray.Run(t.onReady, t.onExit)
}

// onReady 托盘就绪回调
func (t *TrayManager) onReady() {
	log.Println("[Tray] Initializing system tray...")

	systray.SetIcon(iconData)
	systray.SetTitle("Promethea")
	systray.SetTooltip("Promethea")

	for _, entry := range BuildMenu() {
		if entry.Separator {
			systray.AddSeparator()
			continue
		}
		t.items[entry.ID] = systray.AddMenuItem(entry.Label, entry.Tooltip)
	}

	systray.AddSeparator()

	// 后端状态（只读）
	t.menuServerStatus = systray.AddMenuItem("后端状态: 检查中...", "后端运行状态")
	t.menuServerStatus.Disable()
	t.menuServerAddr = systray.AddMenuItem("后端地址: -", "后端监听地址")
	t.menuServerAddr.Disable()

	t.UpdateStatus()

	go t.handleMenuEvents()
}

// onExit 托盘退出回调
func (t *TrayManager) onExit() {
	log.Println("[Tray] System tray exited")
}

// NotifyDoubleClick is the platform hook for a double-click on the tray icon.
func (t *TrayManager) NotifyDoubleClick() {
	select {
	case t.doubleClickCh <- struct{}{}:
	default:
	}
}

// handleMenuEvents 处理菜单事件
func (t *TrayManager) handleMenuEvents() {
	for {
		select {
		case <-t.items[EventOpen].ClickedCh:
			t.Dispatch(EventOpen)
		case <-t.items[EventHide].ClickedCh:
			t.Dispatch(EventHide)
		case <-t.doubleClickCh:
			t.Dispatch(EventDoubleClick)
		case <-t.items[EventQuit].ClickedCh:
			t.Dispatch(EventQuit)
			return
		}
	}
}

// Dispatch maps one tray event to its action. Unknown events are no-ops; only
// EventQuit touches the backend handle.
func (t *TrayManager) Dispatch(event TrayEvent) {
	switch event {
	case EventOpen, EventDoubleClick:
		log.Println("[Tray] Show window")
		t.app.ShowWindow()
	case EventHide:
		log.Println("[Tray] Hide window")
		t.app.HideWindow()
	case EventQuit:
		log.Println("[Tray] Quit")
		// Quit never returns in production: stop-then-exit is unconditional.
		t.app.Quit()
	default:
	}
}

// UpdateStatus 更新托盘菜单状态
func (t *TrayManager) UpdateStatus() {
	if t.app == nil || t.menuServerStatus == nil {
		return
	}

	status := t.app.CheckBackendStatus()
	if status.Ready {
		t.menuServerStatus.SetTitle("后端状态: 运行中")
	} else {
		t.menuServerStatus.SetTitle("后端状态: 已停止")
	}
	t.menuServerAddr.SetTitle(fmt.Sprintf("后端地址: %s", status.Addr))
}
