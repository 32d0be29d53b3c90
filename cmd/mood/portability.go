// ABOUTME: CLI commands for exporting and importing mood entries.
// ABOUTME: Writes versioned JSON (optionally gzip) and merges imports by entry id.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/mood/internal/portability"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all mood entries",
	Long:  "Write every mood entry as a versioned JSON document to stdout or a file.",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import mood entries",
	Long:  "Import entries from an export file. Entries whose id already exists are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	exportOut  string
	exportGzip bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportGzip, "gzip", false, "Compress the export with gzip")
}

func runExport(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.OpenFile(exportOut, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	entries := globalStore.Entries()
	if err := portability.Export(w, entries, portability.Options{Gzip: exportGzip}); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	globalLogger.Info().Int("entries", len(entries)).Str("out", exportOut).Bool("gzip", exportGzip).Msg("exported mood entries")

	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), exportOut)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := portability.Import(f)
	if err != nil {
		return err
	}

	merged, err := portability.Merge(cmd.Context(), globalStore, res.Entries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range res.Rejected {
		fmt.Fprintf(out, "Rejected entry %d (%s): %s\n", r.Index, r.ID, r.Reason)
	}

	globalLogger.Info().Int("added", merged.Added).Int("skipped", merged.Skipped).Int("rejected", len(res.Rejected)).Msg("imported mood entries")
	fmt.Fprintf(out, "Imported %d entries (%d already present, %d rejected)\n", merged.Added, merged.Skipped, len(res.Rejected))
	return nil
}
