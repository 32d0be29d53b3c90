// ABOUTME: MCP server command implementation for mood.
// ABOUTME: Starts the MCP server in stdio mode, optionally alongside reminders.
package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/mood/internal/config"
	mcppkg "github.com/2389-research/mood/internal/mcp"
	"github.com/2389-research/mood/internal/reminders"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to log moods
and read mood history through a standardized protocol.`,
	RunE: runMCP,
}

var mcpWithReminders bool

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpWithReminders, "reminders", false, "Also run the reminder scheduler (notifications go to stderr)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := globalLogger.With().Str("component", "mcp").Logger()
	server, err := mcppkg.NewServer(globalStore, version, mcppkg.WithLogger(log))
	if err != nil {
		return err
	}

	if !mcpWithReminders {
		return server.Serve(ctx)
	}

	// stdout carries the protocol, so reminders must not write there.
	scheduler, err := newReminderScheduler(globalConfig, os.Stderr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return server.Serve(gctx)
	})
	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}
	return g.Wait()
}

// newReminderScheduler builds a scheduler for the active reminder slots.
// It returns nil when no slot is active.
func newReminderScheduler(cfg *config.Config, out io.Writer) (*reminders.Scheduler, error) {
	triggers, err := reminders.TriggersFromSlots(cfg.Reminders)
	if err != nil {
		return nil, err
	}
	if len(triggers) == 0 {
		return nil, nil
	}

	log := globalLogger.With().Str("component", "reminders").Logger()
	scheduler := reminders.NewScheduler(reminders.NewWriterNotifier(out, true), log)
	scheduler.Schedule(triggers...)
	log.Info().Int("reminders", len(triggers)).Msg("reminder scheduler ready")
	return scheduler, nil
}
