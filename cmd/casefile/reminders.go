package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/reminder"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Manage the incident outreach reminders",
		Long:  `Schedules a two-stage outreach for the incident: a text message, then a phone call. Status only advances when something reads it; nothing fires in the background.`,
	}

	cmd.AddCommand(remindersEnableCmd())
	cmd.AddCommand(remindersStatusCmd())
	cmd.AddCommand(remindersCancelCmd())
	cmd.AddCommand(remindersCompleteCmd())

	return cmd
}

func remindersEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Start the reminder timeline (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sched, err := newScheduler(store)
			if err != nil {
				return err
			}

			state, err := sched.EnsureScheduled(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to schedule reminders: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Reminders scheduled"))
			printReminderState(state)
			return nil
		},
	}
}

func remindersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Materialize and show the reminder timeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sched, err := newScheduler(store)
			if err != nil {
				return err
			}

			state, err := sched.Materialize(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to materialize reminders: %w", err)
			}
			if state == nil {
				fmt.Println(cli.InfoStyle.Render("No reminders configured. Use 'casefile reminders enable'."))
				return nil
			}

			printReminderState(state)
			return nil
		},
	}
}

func remindersCancelCmd() *cobra.Command {
	return cancelCmd("cancel", "Cancel the reminder timeline", reminder.ReasonCanceled)
}

func remindersCompleteCmd() *cobra.Command {
	return cancelCmd("complete", "Mark the whole timeline completed", reminder.ReasonCompleted)
}

func cancelCmd(use, short string, reason reminder.CancelReason) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sched, err := newScheduler(store)
			if err != nil {
				return err
			}

			state, err := sched.Cancel(ctx, reason, time.Now())
			if err != nil {
				return fmt.Errorf("failed to %s reminders: %w", use, err)
			}
			if state == nil {
				fmt.Println(cli.InfoStyle.Render("No reminders configured; nothing to do."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Reminders %s", reason)))
			return nil
		},
	}
}

func printReminderState(state *model.ReminderState) {
	fmt.Printf("SMS:  %s (scheduled %s)\n", state.SMS.Status,
		state.SMS.ScheduledAt.Format(time.RFC822))
	if state.SMS.SentAt != nil {
		fmt.Printf("      sent %s\n", state.SMS.SentAt.Format(time.RFC822))
	}
	fmt.Printf("Call: %s (scheduled %s)\n", state.Call.Status,
		state.Call.ScheduledAt.Format(time.RFC822))
	if state.Call.CompletedAt != nil {
		fmt.Printf("      completed %s\n", state.Call.CompletedAt.Format(time.RFC822))
	}
	if !state.Enabled {
		fmt.Println(cli.SubtleStyle.Render("timeline disabled"))
	}
}
