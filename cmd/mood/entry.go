// ABOUTME: CLI commands for mood entries.
// ABOUTME: Provides add, list, delete, and types subcommands.
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/mood/internal/history"
	"github.com/2389-research/mood/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Log a mood",
	Long: `Log a mood entry. Type is one of happy, sad, anxious, angry, neutral, other.

Examples:
  mood add happy
  mood add anxious --comment "big presentation tomorrow"
  mood add neutral --at 2024-06-15T09:30:00+02:00`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged moods",
	Long:  "List mood entries newest first, limited to the last day, week, month, or everything.",
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id-or-prefix>",
	Short: "Delete a mood entry",
	Long:  "Delete a mood entry by its full id or a unique prefix of at least 4 characters.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var typesCmd = &cobra.Command{
	Use:         "types",
	Short:       "List mood types",
	Annotations: noStore,
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range models.AllMoodTypes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s\n", t.Emoji(), t, t.Label())
		}
	},
}

// Flags
var (
	addComment string
	addAt      string
	listRange  string
	listLimit  int
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(typesCmd)

	addCmd.Flags().StringVarP(&addComment, "comment", "c", "", "Optional note about the mood")
	addCmd.Flags().StringVar(&addAt, "at", "", "When the mood was felt, RFC3339 (default: now)")

	listCmd.Flags().StringVarP(&listRange, "range", "r", "week", "Time range: day, week, month, or all")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of entries to show (0 for no limit)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	moodType, err := models.ParseMoodType(args[0])
	if err != nil {
		return fmt.Errorf("%w (see 'mood types')", err)
	}

	var ts time.Time
	if addAt != "" {
		ts, err = time.Parse(time.RFC3339, addAt)
		if err != nil {
			return fmt.Errorf("invalid --at %q: expected RFC3339 like 2024-06-15T09:30:00Z", addAt)
		}
	}

	entry := models.NewMoodEntryAt(moodType, addComment, ts)
	if err := globalStore.Add(cmd.Context(), entry); err != nil {
		return fmt.Errorf("failed to log mood: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s (%s)\n", moodType.Emoji(), moodType.Label(), entry.ShortID())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	entries := globalStore.Entries()
	now := time.Now()

	var view []models.MoodEntry
	if strings.EqualFold(listRange, "all") {
		view = history.SortForDisplay(entries)
	} else {
		r, err := history.ParseTimeRange(listRange)
		if err != nil {
			return err
		}
		view = history.View(entries, r, now)
	}

	out := cmd.OutOrStdout()
	if len(view) == 0 {
		fmt.Fprintln(out, "No moods logged.")
		return nil
	}

	printEntries(out, view, listLimit)
	return nil
}

func printEntries(out io.Writer, view []models.MoodEntry, limit int) {
	summary := history.Summarize(view)
	shown := view
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	for _, e := range shown {
		line := fmt.Sprintf("%s  %s  %s %-8s", e.ShortID(), e.Timestamp.Local().Format("2006-01-02 15:04"), e.Type.Emoji(), e.Type.Label())
		if c := e.CommentText(); c != "" {
			line += "  " + strings.ReplaceAll(c, "\n", " ")
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "\n%d entries, average score %.1f", summary.Total, summary.AverageScore)
	if len(shown) < len(view) {
		fmt.Fprintf(out, " (showing %d)", len(shown))
	}
	fmt.Fprintln(out)
}

func runDelete(cmd *cobra.Command, args []string) error {
	entry, err := history.FindByPrefix(globalStore.Entries(), args[0])
	if err != nil {
		return err
	}
	if err := globalStore.Delete(cmd.Context(), entry); err != nil {
		return fmt.Errorf("failed to delete mood: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s from %s\n", entry.Type.Emoji(), entry.Type.Label(), entry.Timestamp.Local().Format("2006-01-02 15:04"))
	return nil
}
