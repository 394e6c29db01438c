// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package orchestrate wires configuration, clients, snapshots, the
// manifest, and the operation drivers into the runs the CLI exposes.
// Setup failures (configuration, I/O, sign-in) are fatal; per-item
// API failures are journaled by the drivers and reported at the end.
package orchestrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/restapi"
	"github.com/sitelift/sitelift/internal/snapshot"
)

// manifestFileName is the SDK-format manifest written into the
// configured manifest folder.
const manifestFileName = "manifest.json"

// App holds the shared run state: configuration, the snapshot cache,
// and the log file handle.
type App struct {
	cfg      *config.Config
	store    *snapshot.Store
	closeLog func() error
}

// Open loads configuration, initializes logging with the rolling log
// file, and opens the snapshot cache.
func Open(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	closeLog, err := logging.AttachFile(cfg.Log.FilePath)
	if err != nil {
		return nil, err
	}

	store, err := snapshot.Open(cfg.Log.CacheFolderPath)
	if err != nil {
		closeLog()
		return nil, err
	}
	return &App{cfg: cfg, store: store, closeLog: closeLog}, nil
}

// Close releases the snapshot cache and the log file.
func (a *App) Close() error {
	err := a.store.Close()
	if closeErr := a.closeLog(); err == nil {
		err = closeErr
	}
	return err
}

// Config exposes the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// client builds a REST client for one environment.
func (a *App) client(env config.Environment) (*restapi.Client, error) {
	conn, err := a.cfg.Pick(env)
	if err != nil {
		return nil, err
	}
	return restapi.New(conn, a.cfg.Rate), nil
}

// role maps an environment onto its snapshot role.
func role(env config.Environment) snapshot.Role {
	if env == config.EnvDestination {
		return snapshot.RoleDestination
	}
	return snapshot.RoleSource
}

// manifestPath is where BuildManifest writes and the drivers read.
func (a *App) manifestPath() string {
	return filepath.Join(a.cfg.Log.ManifestFolderPath, manifestFileName)
}

// requireManifest asserts the manifest file exists before a
// destination-dependent driver runs.
func (a *App) requireManifest() error {
	if _, err := os.Stat(a.manifestPath()); err != nil {
		return fmt.Errorf("manifest %s not found; run the manifest build and reconcile first: %w",
			a.manifestPath(), err)
	}
	return nil
}

// Snapshot walks one site into the cache. The source walk includes
// the server-only collections (schedules with details, subscriptions,
// tasks, favorites).
func (a *App) Snapshot(ctx context.Context, env config.Environment) error {
	client, err := a.client(env)
	if err != nil {
		return err
	}
	return client.WithSession(ctx, func(ctx context.Context) error {
		builder := snapshot.NewBuilder(client, a.store, role(env))
		if err := builder.BuildContent(ctx); err != nil {
			return err
		}
		if env != config.EnvSource {
			return nil
		}
		return builder.BuildServerExtras(ctx)
	})
}
