package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/promethea-app/promethea/internal/config"
	"github.com/promethea-app/promethea/internal/desktop"
	"github.com/promethea-app/promethea/internal/launchlog"
	"github.com/promethea-app/promethea/internal/state"
	"github.com/promethea-app/promethea/internal/supervisor"
	"github.com/promethea-app/promethea/internal/version"
)

//go:embed all:frontend/dist
var assets embed.FS

// 保存 app context 用于托盘回调
var appCtx context.Context

func main() {
	dataDir := flag.String("data", "", "Data directory for config and launch log (default: ~/.config/promethea)")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("promethea", version.Full())
		os.Exit(0)
	}

	// Determine data directory: CLI flag > env var > default
	dataDirPath := *dataDir
	if dataDirPath == "" {
		if envDataDir := os.Getenv("PROMETHEA_DATA_DIR"); envDataDir != "" {
			dataDirPath = envDataDir
		} else {
			dataDirPath = config.DefaultDataDir()
		}
	}
	if err := os.MkdirAll(dataDirPath, 0755); err != nil {
		log.Fatalf("Failed to create data directory %s: %v", dataDirPath, err)
	}

	cfg, err := config.Load(dataDirPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Promethea %s", version.Info())
	log.Printf("Data directory: %s", dataDirPath)

	// Launch log is best-effort: a broken database never blocks the launcher.
	var launches *launchlog.Store
	dsn := cfg.DatabaseDSN
	if envDSN := os.Getenv("PROMETHEA_DSN"); envDSN != "" {
		dsn = envDSN
	}
	if dsn == "" {
		dsn = "sqlite://" + filepath.Join(dataDirPath, "promethea.db")
	}
	if db, err := launchlog.OpenDSN(dsn); err != nil {
		log.Printf("Warning: Failed to open launch log: %v", err)
	} else {
		launches = launchlog.NewStore(db)
		if summary, err := launches.Summary(); err != nil {
			log.Printf("Warning: Failed to read launch history: %v", err)
		} else if summary.TotalSessions > 0 {
			log.Printf("[LaunchLog] %d previous launches, last at %s",
				summary.TotalSessions, summary.LastStartedAt.Format(time.RFC3339))
		}
	}

	// A backend left behind by a crashed run would keep the port bound.
	if err := desktop.TerminateProcessByPort(cfg.Backend.Port); err != nil {
		log.Printf("Warning: Port %d preflight failed: %v", cfg.Backend.Port, err)
	}

	// Start the backend before any UI exists. The warm-up delay blocks here,
	// on the startup thread, so it cannot starve the event loop.
	sup := supervisor.New(
		cfg.Backend.ResolveInterpreter(),
		cfg.Backend.Module,
		cfg.Backend.Host,
		cfg.Backend.Port,
		time.Duration(cfg.Backend.WarmupSeconds)*time.Second,
	)
	handle, err := sup.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动 Python 服务失败: %v\n", err)
		fmt.Fprintln(os.Stderr, "请确保：")
		fmt.Fprintln(os.Stderr, "1. 已安装 Python 3.8+")
		fmt.Fprintln(os.Stderr, "2. 已安装依赖: pip install -r api_server/requirements.txt")
		fmt.Fprintln(os.Stderr, "3. 在项目根目录运行此程序")
		os.Exit(1)
	}

	var sessionID string
	if launches != nil {
		cmdline := cfg.Backend.ResolveInterpreter() + " " + strings.Join(sup.Args(), " ")
		if sessionID, err = launches.RecordStart(handle.PID, cmdline); err != nil {
			log.Printf("Warning: Failed to record backend start: %v", err)
		}
	}

	appState := state.New(handle)
	app := desktop.NewLauncherApp(cfg.Backend, appState, sup, launches, sessionID)

	// 初始化托盘（在 goroutine 中运行，避免阻塞主线程）
	go func() {
		// 等待 OnStartup 设置 appCtx
		for appCtx == nil {
			time.Sleep(10 * time.Millisecond)
		}
		tray := desktop.NewTrayManager(appCtx, app)
		tray.Start()
	}()

	err = wails.Run(&options.App{
		Title:             "Promethea",
		Width:             1280,
		Height:            800,
		MinWidth:          1024,
		MinHeight:         768,
		HideWindowOnClose: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			appCtx = ctx
			app.Startup(ctx)
		},
		OnDomReady:    app.DomReady,
		OnBeforeClose: app.BeforeClose,
		OnShutdown:    app.Shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal("Error:", err)
	}
}
