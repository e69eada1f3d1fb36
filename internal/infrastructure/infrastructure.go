// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/whitfield-io/batesd/internal/config"
	"github.com/whitfield-io/batesd/pkg/database"
	"github.com/whitfield-io/batesd/pkg/lifecycle"
	"github.com/whitfield-io/batesd/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and blob storage.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System

	fontDir string
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		fontDir:   cfg.Engine.FontDir,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown
// coordination, and user stamp fonts are installed when configured.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	if i.fontDir != "" {
		i.Lifecycle.OnStartup(i.installFonts)
	}
	return nil
}

// installFonts registers TrueType fonts from the configured directory so
// stamp specs can name them beyond the standard font set. Failures are
// logged, not fatal: stamping falls back to the standard fonts.
func (i *Infrastructure) installFonts() {
	logger := i.Logger.With("system", "fonts")

	var files []string
	for _, pattern := range []string{"*.ttf", "*.ttc"} {
		matches, err := filepath.Glob(filepath.Join(i.fontDir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		logger.Warn("no fonts found in font directory", "dir", i.fontDir)
		return
	}

	if err := api.InstallFonts(files); err != nil {
		logger.Error("font installation failed", "dir", i.fontDir, "error", err)
		return
	}

	logger.Info("user fonts installed", "count", len(files))
}
