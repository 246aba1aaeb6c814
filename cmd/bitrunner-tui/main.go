package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/socketrpc"
	"github.com/tinytelemetry/bitrunner/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/bitrunner/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to bitrunner service")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Bitrunner CLI - Overview Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	cleanupLogger := configureLogger()
	defer cleanupLogger()

	tables, err := hacknet.LoadTables(cfg.TuningFile)
	if err != nil {
		return fmt.Errorf("failed to load tuning file: %w", err)
	}

	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("cannot connect to bitrunner service at %s: %w\nIs the bitrunner service running? Start it with: bitrunner", cfg.SocketPath, err)
	}
	defer client.Close()

	keys := tui.DefaultKeyMap()
	bus := broadcast.New()
	overview := tui.NewOverview(client, tables, bus, cfg.UpdateInterval)
	app := tui.NewApp(overview, client, keys,
		tui.NewHacknetPage(overview, client, keys),
		tui.NewSkillsPage(overview),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// configureLogger keeps log output off the alt screen.
func configureLogger() func() {
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
	f, err := os.OpenFile(filepath.Join(logDir, "bitrunner-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }
}
