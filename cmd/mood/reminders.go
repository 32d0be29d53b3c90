// ABOUTME: CLI commands for daily mood reminders.
// ABOUTME: Lists, toggles, and runs the reminder scheduler from config slots.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/mood/internal/reminders"
)

var remindersCmd = &cobra.Command{
	Use:         "reminders",
	Short:       "Manage daily mood reminders",
	Long:        "List, enable, or disable the daily reminder slots, or run the reminder scheduler in the foreground.",
	Annotations: noStore,
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show reminder slots and when they fire next",
	RunE:  runRemindersList,
}

var remindersEnableCmd = &cobra.Command{
	Use:   "enable [slot]",
	Short: "Enable reminders, or a single slot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setReminder(cmd, args, true)
	},
}

var remindersDisableCmd = &cobra.Command{
	Use:   "disable [slot]",
	Short: "Disable reminders, or a single slot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setReminder(cmd, args, false)
	},
}

var remindersRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reminder scheduler until interrupted",
	RunE:  runReminders,
}

var reminderAt string

func init() {
	rootCmd.AddCommand(remindersCmd)
	remindersCmd.AddCommand(remindersListCmd)
	remindersCmd.AddCommand(remindersEnableCmd)
	remindersCmd.AddCommand(remindersDisableCmd)
	remindersCmd.AddCommand(remindersRunCmd)

	remindersEnableCmd.Flags().StringVar(&reminderAt, "at", "", "Set the slot time (HH:MM), creating the slot if needed")
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	cfg := globalConfig
	out := cmd.OutOrStdout()
	now := time.Now()

	state := "off"
	if cfg.Reminders.Enabled {
		state = "on"
	}
	fmt.Fprintf(out, "Reminders: %s\n\n", state)

	for _, slot := range cfg.Reminders.Slots {
		t, err := reminders.ParseTrigger(slot.Name, slot.At)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %-10s %s", slot.Name, t.Clock())
		switch {
		case !slot.Enabled:
			line += "  (disabled)"
		case cfg.Reminders.Enabled:
			line += "  next " + t.NextFire(now).Format("Mon 15:04")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func setReminder(cmd *cobra.Command, args []string, enabled bool) error {
	cfg := globalConfig
	out := cmd.OutOrStdout()

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	if err := cfg.Reminders.Toggle(name, reminderAt, enabled); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	if len(args) == 0 {
		fmt.Fprintf(out, "Reminders %s.\n", verb)
	} else {
		fmt.Fprintf(out, "Reminder %s %s.\n", args[0], verb)
		if enabled && !cfg.Reminders.Enabled {
			fmt.Fprintln(out, "Note: reminders are off; run 'mood reminders enable' to turn them on.")
		}
	}
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scheduler, err := newReminderScheduler(globalConfig, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if scheduler == nil {
		return fmt.Errorf("no active reminders; run 'mood reminders enable' first")
	}

	for _, t := range scheduler.Triggers() {
		fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s at %s\n", t.Name, t.Clock())
	}
	return scheduler.Run(ctx)
}
