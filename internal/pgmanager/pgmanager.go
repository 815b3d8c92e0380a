// Package pgmanager runs a managed embedded PostgreSQL for development
// deployments where no external database is configured.
package pgmanager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
)

const (
	dbUser = "smsbridge"
	dbPass = "smsbridge"
	dbName = "sms_bridge"
)

// Config holds settings for the managed instance.
type Config struct {
	Port    uint32
	DataDir string // default: ~/.smsbridge/data
	Logger  *slog.Logger
}

// Manager controls the lifecycle of an embedded PostgreSQL instance.
type Manager struct {
	cfg Config
	pg  *embeddedpostgres.EmbeddedPostgres
}

// New creates a Manager. Start must be called before the database is usable.
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{cfg: cfg}
}

// Start boots the embedded instance and returns its connection URL.
func (m *Manager) Start(ctx context.Context) (string, error) {
	dataDir := m.cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".smsbridge", "data")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	m.pg = embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Port(m.cfg.Port).
		Username(dbUser).
		Password(dbPass).
		Database(dbName).
		DataPath(dataDir).
		StartTimeout(60 * time.Second).
		Logger(io.Discard))

	m.cfg.Logger.Info("starting managed postgres", "port", m.cfg.Port, "data_dir", dataDir)
	if err := m.pg.Start(); err != nil {
		return "", fmt.Errorf("starting embedded postgres: %w", err)
	}

	return fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		dbUser, dbPass, m.cfg.Port, dbName), nil
}

// Stop shuts down the embedded instance.
func (m *Manager) Stop() error {
	if m.pg == nil {
		return nil
	}
	m.cfg.Logger.Info("stopping managed postgres")
	return m.pg.Stop()
}
