// Package cli implements the command-line interface for snip.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kilupskalvis/snip/internal/backup"
	"github.com/kilupskalvis/snip/internal/config"
	"github.com/kilupskalvis/snip/internal/core"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/kilupskalvis/snip/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	Store   store.Store
	Service *core.Service
	Logger  *slog.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

var logLevelOverride string

// initContext loads config, opens the store and hydrates the service
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}
	if logLevelOverride != "" {
		if _, err := config.ParseLevel(logLevelOverride); err != nil {
			exitError("%v", err)
		}
		cfg.LogLevel = logLevelOverride
	}
	logger := cfg.NewLogger(os.Stderr)

	st, err := store.OpenWithRetry(context.Background(), cfg.Backend, cfg.DatabasePath(), nil)
	if err != nil {
		exitError("failed to open store: %v", err)
	}

	svc := core.New(st, core.WithLogger(logger))
	if err := svc.Load(context.Background()); err != nil {
		st.Close()
		exitError("failed to load snippets: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st, Service: svc, Logger: logger}
}

// openArchive opens the backup archive of the workspace
func (c *cmdContext) openArchive() *backup.FSStore {
	archive, err := backup.NewFSStore(c.Config.BackupsPath())
	if err != nil {
		exitError("failed to open backups: %v", err)
	}
	return archive
}

// resolveSnippet looks up a snippet by ID or unique prefix
func (c *cmdContext) resolveSnippet(ref string) models.Snippet {
	sn, err := c.Service.Lookup(ref)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAmbiguous):
			exitError("snippet id %q is ambiguous, use more characters", ref)
		default:
			exitError("snippet not found: %s", ref)
		}
	}
	return sn
}

var rootCmd = &cobra.Command{
	Use:   "snip",
	Short: "Local code snippet manager",
	Long: `snip keeps a local library of code snippets. Snippets carry tags,
notes, one or more code blocks, a favorite flag and a manual order. Every edit
keeps a copy of the previous state, so any earlier version can be inspected
or restored.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override the configured log level (debug|info|warn|error)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(langsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
