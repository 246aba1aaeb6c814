package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/savegame"
)

func TestLoadConfigDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.UpdateInterval != 600*time.Millisecond {
		t.Fatalf("update-interval = %s, want 600ms", cfg.UpdateInterval)
	}
	if cfg.CycleInterval != 200*time.Millisecond {
		t.Fatalf("cycle-interval = %s, want 200ms", cfg.CycleInterval)
	}
	if cfg.APIAddr != "127.0.0.1:3000" {
		t.Fatalf("api-addr = %q", cfg.APIAddr)
	}
	if want := filepath.Join(home, ".local", "share", "bitrunner", "save.json"); cfg.SavePath != want {
		t.Fatalf("save-path = %q, want %q", cfg.SavePath, want)
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("config path = %q, want empty without a file", cfg.ConfigPath)
	}
	if cfg.BitNode != 1 {
		t.Fatalf("bitnode = %d, want 1", cfg.BitNode)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BITRUNNER_API_PORT", "3100")

	path := filepath.Join(t.TempDir(), "config.yml")
	body := strings.Join([]string{
		"update-interval: 1s",
		"autosave-interval: 0s",
		"db-path: ~/hist.duckdb",
		"bitnode: 9",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.UpdateInterval != time.Second {
		t.Fatalf("update-interval = %s, want 1s", cfg.UpdateInterval)
	}
	if cfg.AutosaveInterval != 0 {
		t.Fatalf("autosave-interval = %s, want 0", cfg.AutosaveInterval)
	}
	if want := filepath.Join(home, "hist.duckdb"); cfg.DBPath != want {
		t.Fatalf("db-path = %q, want %q", cfg.DBPath, want)
	}
	if cfg.APIAddr != "127.0.0.1:3100" {
		t.Fatalf("api-addr = %q, want env override", cfg.APIAddr)
	}
	if cfg.BitNode != 9 {
		t.Fatalf("bitnode = %d, want 9", cfg.BitNode)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("config path = %q, want %q", cfg.ConfigPath, path)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"api port":        "api-port: 70000",
		"update interval": "update-interval: 0s",
		"bitnode":         "bitnode: 15",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := loadConfig(path); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestLoadOrNewPlayer(t *testing.T) {
	t.Parallel()

	cfg := appConfig{
		SavePath:         filepath.Join(t.TempDir(), "save.json"),
		AutosaveInterval: 30 * time.Second,
		BitNode:          4,
	}
	saves, err := savegame.Open(cfg.SavePath)
	if err != nil {
		t.Fatal(err)
	}

	p, loaded, err := loadOrNewPlayer(saves, cfg)
	if err != nil {
		t.Fatalf("loadOrNewPlayer: %v", err)
	}
	if loaded {
		t.Fatal("expected a new game without a save file")
	}
	if p.BitNodeN != 4 || p.Settings.AutosaveInterval != 30 {
		t.Fatalf("new player = bitnode %d autosave %d", p.BitNodeN, p.Settings.AutosaveInterval)
	}
}

func TestLoadTablesDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	tables, err := loadTables("")
	if err != nil {
		t.Fatalf("loadTables: %v", err)
	}
	if tables.Node.MaxLevel != 200 {
		t.Fatalf("node max level = %d, want 200", tables.Node.MaxLevel)
	}
	if _, err := loadTables(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for a missing tuning file")
	}
}
