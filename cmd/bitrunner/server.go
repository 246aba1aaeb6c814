package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/bitrunner/internal/backup"
	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/game"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/history"
	"github.com/tinytelemetry/bitrunner/internal/httpserver"
	"github.com/tinytelemetry/bitrunner/internal/model"
	"github.com/tinytelemetry/bitrunner/internal/poller"
	"github.com/tinytelemetry/bitrunner/internal/savegame"
	"github.com/tinytelemetry/bitrunner/internal/socketrpc"
	"golang.org/x/sync/errgroup"
)

// runServer owns the game state and serves it over the socket and HTTP API.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	tables, err := loadTables(cfg.TuningFile)
	if err != nil {
		return err
	}

	saves, err := savegame.Open(cfg.SavePath)
	if err != nil {
		return fmt.Errorf("failed to open save file: %w", err)
	}
	initial, loaded, err := loadOrNewPlayer(saves, cfg)
	if err != nil {
		return err
	}

	backupManager, err := backup.NewManager(saves, backup.Config{
		Enabled:  cfg.BackupEnabled,
		Interval: cfg.BackupInterval,
		Dir:      cfg.BackupDir,
		KeepLast: cfg.BackupKeep,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	bus := broadcast.New()
	svc := game.NewService(tables, game.RealClock{}, initial,
		game.WithSaver(saves),
		game.WithChangeNotifier(func() { bus.Emit() }),
	)

	// History is optional; an empty db-path disables it.
	var (
		historyReader model.HistoryReader
		historyStore  *history.Store
	)
	if cfg.DBPath != "" {
		historyStore, err = history.NewStore(cfg.DBPath, cfg.QueryTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize history store: %w", err)
		}
		defer historyStore.Close()
		historyReader = historyStore

		insertBuffer := history.NewInsertBuffer(historyStore, history.InsertBufferConfig{
			BatchSize: cfg.HistoryBatchSize,
		})
		defer insertBuffer.Stop()

		retentionCleaner := history.NewRetentionCleaner(historyStore, history.RetentionConfig{
			Retention: cfg.HistoryRetention,
		})
		if retentionCleaner != nil {
			defer retentionCleaner.Stop()
		}

		recorder := history.NewRecorder(svc, tables, insertBuffer, cfg.HistoryInterval)
		defer bus.Subscribe(recorder.Notify)()
	}

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, svc, historyReader, bus)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for TUI IPC
	sockServer := socketrpc.NewServer(cfg.SocketPath, svc)
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
	} else {
		defer sockServer.Stop()
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	// The driver catches the game up before every emit so subscribers read
	// fresh state even between cycle ticks.
	driver := poller.New(cfg.UpdateInterval, bus, func(time.Time) { svc.Process() })

	printStartupBanner(cfg, loaded)

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.Run(gctx, cfg.CycleInterval)
	})
	g.Go(func() error {
		return svc.RunAutosave(gctx)
	})
	g.Go(func() error {
		driver.Start(gctx)
		<-gctx.Done()
		driver.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	cancel()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := svc.Save(saveCtx); err != nil {
		log.Printf("server: final save failed: %v", err)
	}

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

func loadTables(path string) (hacknet.Tables, error) {
	if path == "" {
		return hacknet.DefaultTables(), nil
	}
	tables, err := hacknet.LoadTables(path)
	if err != nil {
		return hacknet.Tables{}, fmt.Errorf("failed to load tuning file: %w", err)
	}
	return tables, nil
}

// loadOrNewPlayer resumes from the save file, or starts a fresh run when none
// exists. loaded reports which happened.
func loadOrNewPlayer(saves *savegame.Store, cfg appConfig) (model.Player, bool, error) {
	p, ok, err := saves.Load()
	if err != nil {
		return model.Player{}, false, fmt.Errorf("failed to load save: %w", err)
	}
	if ok {
		return p, true, nil
	}
	return game.NewPlayer(cfg.BitNode, int(cfg.AutosaveInterval/time.Second)), false, nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "bitrunner")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "bitrunner.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, resumed bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := green.Bold(true).Render(`
    ╔╗ ╦╔╦╗╦═╗╦ ╦╔╗╔╔╗╔╔═╗╦═╗
    ╠╩╗║ ║ ╠╦╝║ ║║║║║║║║╣ ╠╦╝
    ╚═╝╩ ╩ ╩╚═╚═╝╝╚╝╝╚╝╚═╝╩╚═`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Game"))
	lines = append(lines, "")

	if resumed {
		lines = append(lines, fmt.Sprintf("    %s  Save           %s", check, dim.Render(shortenPath(cfg.SavePath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Save           %s", dot, dim.Render("new game in BitNode "+fmt.Sprint(cfg.BitNode))))
	}
	if cfg.AutosaveInterval > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Autosave       %s", check, dim.Render(cfg.AutosaveInterval.String())))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Autosave       %s", dot, yellow.Render("disabled")))
	}
	if cfg.TuningFile != "" {
		lines = append(lines, fmt.Sprintf("    %s  Tuning         %s", check, dim.Render(shortenPath(cfg.TuningFile))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Tuning         %s", dot, dim.Render("built-in")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Updates        %s", check, dim.Render(cfg.UpdateInterval.String())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"))
	lines = append(lines, "")
	if cfg.BackupEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Backups        %s", check, dim.Render(shortenPath(cfg.BackupDir))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Backups        %s", dot, dim.Render("disabled")))
	}
	if cfg.DBPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  History        %s", check, dim.Render(shortenPath(cfg.DBPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  History        %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
