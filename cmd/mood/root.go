// ABOUTME: Root Cobra command and global flags for the mood CLI.
// ABOUTME: Sets up lifecycle hooks for config, logging, and store initialization.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/mood/internal/config"
	"github.com/2389-research/mood/internal/logging"
	"github.com/2389-research/mood/internal/storage"
)

var globalConfig *config.Config
var globalLogger *logging.Logger
var globalStore *storage.MoodStore

var verbose bool

// skipStore marks commands (and their children) that run without opening the database.
const skipStore = "skip-store"

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStore] == "true" {
			return false
		}
	}
	return true
}

var noStore = map[string]string{skipStore: "true"}

var rootCmd = &cobra.Command{
	Use:   "mood",
	Short: "A local-first mood journal",
	Long: `
███╗   ███╗ ██████╗  ██████╗ ██████╗
████╗ ████║██╔═══██╗██╔═══██╗██╔══██╗
██╔████╔██║██║   ██║██║   ██║██║  ██║
██║╚██╔╝██║██║   ██║██║   ██║██║  ██║
██║ ╚═╝ ██║╚██████╔╝╚██████╔╝██████╔╝
╚═╝     ╚═╝ ╚═════╝  ╚═════╝ ╚═════╝

Log how you feel, add a note, and look back over the day, week, or month.
Everything stays in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logPath, err := cfg.GetLogPath()
		if err != nil {
			return fmt.Errorf("failed to resolve log path: %w", err)
		}
		opts := logging.Options{Path: logPath}
		if verbose {
			opts.Console = os.Stderr
		}
		logger, err := logging.New(cfg.Log, opts)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		globalLogger = logger

		if !needsStore(cmd) {
			return nil
		}

		dbPath, err := cfg.GetDBPath()
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %w", err)
		}
		medium, err := storage.OpenGormMedium(dbPath, logger.With().Str("component", "sqlite").Logger())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		store, err := storage.NewMoodStore(cmd.Context(), medium,
			storage.WithLogger(logger.With().Str("component", "store").Logger()),
			storage.WithTimeout(time.Duration(cfg.Database.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			_ = medium.Close()
			return fmt.Errorf("failed to open mood store: %w", err)
		}
		globalStore = store
		logger.Debug().Str("command", cmd.Name()).Str("db", dbPath).Int("entries", len(store.Entries())).Msg("store opened")

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalStore != nil {
			_ = globalStore.Close()
			globalStore = nil
		}
		if globalLogger != nil {
			_ = globalLogger.Close()
			globalLogger = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror log output to stderr")
}
