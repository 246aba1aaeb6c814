package main

import (
	"time"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

const (
	defaultUpdateInterval   = model.DefaultUpdateInterval
	defaultCycleInterval    = model.CycleInterval
	defaultBindHost         = "127.0.0.1"
	defaultAPIPort          = 3000
	defaultQueryTimeout     = 30 * time.Second
	defaultHistoryInterval  = model.DefaultHistoryInterval
	defaultHistoryRetention = 7 * 24 * time.Hour
	defaultHistoryBatchSize = 64
	defaultAutosaveInterval = model.DefaultAutosaveInterval
	defaultBitNode          = 1
	defaultBackupInterval   = 30 * time.Minute
	defaultBackupKeep       = 10
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	UpdateInterval   time.Duration `mapstructure:"update-interval"`
	CycleInterval    time.Duration `mapstructure:"cycle-interval"`
	SocketPath       string        `mapstructure:"socket-path"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	DBPath           string        `mapstructure:"db-path"`
	QueryTimeout     time.Duration `mapstructure:"query-timeout"`
	HistoryInterval  time.Duration `mapstructure:"history-interval"`
	HistoryRetention time.Duration `mapstructure:"history-retention"`
	HistoryBatchSize int           `mapstructure:"history-batch-size"`
	SavePath         string        `mapstructure:"save-path"`
	AutosaveInterval time.Duration `mapstructure:"autosave-interval"`
	TuningFile       string        `mapstructure:"tuning-file"`
	BitNode          int           `mapstructure:"bitnode"`
	BackupEnabled    bool          `mapstructure:"backup-enabled"`
	BackupInterval   time.Duration `mapstructure:"backup-interval"`
	BackupDir        string        `mapstructure:"backup-dir"`
	BackupKeep       int           `mapstructure:"backup-keep"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}
