// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Command sitelift migrates analytics content from a self-hosted
// server site to a managed cloud site. The typical run order is:
//
//	sitelift snapshot source
//	sitelift snapshot destination
//	sitelift manifest build
//	sitelift manifest reconcile
//	sitelift migrate favorites        (and the other kinds)
//
// Per-item API failures land in the per-kind reports; the process
// exits non-zero only on configuration or I/O setup failures.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/orchestrate"
)

var configPath string

// withApp opens the application around one command run.
func withApp(fn func(ctx context.Context, app *orchestrate.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := orchestrate.Open(configPath)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, app)
	}
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "snapshot {source|destination}",
		Short:     "Walk a site's collections into the local cache",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(config.EnvSource), string(config.EnvDestination)},
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Environment(args[0])
			return withApp(func(ctx context.Context, app *orchestrate.App) error {
				return app.Snapshot(ctx, env)
			})(cmd, nil)
		},
	}
	return cmd
}

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Build, reconcile, and export the content manifest",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "build",
			Short: "Build the source manifest from the cached source snapshot",
			Args:  cobra.NoArgs,
			RunE: withApp(func(_ context.Context, app *orchestrate.App) error {
				return app.BuildManifest()
			}),
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Fill destination ids by matching mapped paths against the destination snapshot",
			Args:  cobra.NoArgs,
			RunE: withApp(func(_ context.Context, app *orchestrate.App) error {
				return app.Reconcile()
			}),
		},
		&cobra.Command{
			Use:   "export",
			Short: "Export the manifest as per-kind CSV inventory tables",
			Args:  cobra.NoArgs,
			RunE: withApp(func(_ context.Context, app *orchestrate.App) error {
				return app.ExportInventory()
			}),
		},
	)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Recreate source content on the destination site",
	}
	kinds := []struct {
		use   string
		short string
		run   func(app *orchestrate.App, ctx context.Context) error
	}{
		{"favorites", "Recreate user favorites", (*orchestrate.App).MigrateFavorites},
		{"subscriptions", "Recreate subscriptions with translated schedules", (*orchestrate.App).MigrateSubscriptions},
		{"tasks", "Recreate extract refresh tasks", (*orchestrate.App).MigrateTasks},
		{"flows", "Download and republish prep flows", (*orchestrate.App).MigrateFlows},
		{"customviews", "Republish custom views and assign default users", (*orchestrate.App).MigrateCustomViews},
	}
	for _, kind := range kinds {
		run := kind.run
		cmd.AddCommand(&cobra.Command{
			Use:   kind.use,
			Short: kind.short,
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, app *orchestrate.App) error {
				return run(app, ctx)
			}),
		})
	}
	return cmd
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitelift",
		Short:         "Migrate analytics content from a server site to a cloud site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "sitelift.yaml", "path to the configuration file")
	root.AddCommand(newSnapshotCmd(), newManifestCmd(), newMigrateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
