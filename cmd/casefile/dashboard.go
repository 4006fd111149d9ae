package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/dashboard"
	"github.com/halcyonlegal/casefile/internal/tui"
)

func dashboardCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the case checklist and overall progress",
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
			agg, err := dashboard.NewAggregator(store, sched)
			if err != nil {
				return err
			}

			if watch {
				interval := viper.GetDuration("watch.interval")
				program := tea.NewProgram(tui.NewDashboardModel(agg, interval))
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("watch view failed: %w", err)
				}
				return nil
			}

			snap, checklist, err := agg.Overview(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to build dashboard: %w", err)
			}

			fmt.Println(cli.FormatTitle("Case dashboard"))
			fmt.Printf("%d%% complete (%d of %d required steps)\n\n",
				checklist.Percent, checklist.RequiredDone, checklist.RequiredTotal)

			current, completed, upcoming := dashboard.Partition(checklist.Steps)
			for _, step := range completed {
				fmt.Println(cli.SuccessStyle.Render(cli.DoneIcon + " " + step.Title))
			}
			if current != nil {
				fmt.Println(cli.BoldStyle.Render(cli.CurrentIcon+" "+current.Title) +
					cli.SubtleStyle.Render("  "+current.Description))
			}
			for _, step := range upcoming {
				title := step.Title
				if step.Optional {
					title += " (optional)"
				}
				fmt.Println(cli.SubtleStyle.Render(cli.PendingIcon + " " + title))
			}

			if snap.Reminders != nil {
				fmt.Printf("\nReminders: sms %s, call %s\n",
					snap.Reminders.SMS.Status, snap.Reminders.Call.Status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling and repaint on an interval")
	return cmd
}
