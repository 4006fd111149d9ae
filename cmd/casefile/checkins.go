package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/tracker"
)

func checkinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkins",
		Short: "Record periodic client check-ins",
	}

	cmd.AddCommand(checkinsListCmd())
	cmd.AddCommand(checkinsAddCmd())
	cmd.AddCommand(checkinsRemoveCmd())

	return cmd
}

func checkInManager(ctx context.Context) (*tracker.CheckIns, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := tracker.NewCheckIns(store, checkInCadenceDays())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func checkinsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List check-ins and when the next one is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := checkInManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			checkIns, err := mgr.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list check-ins: %w", err)
			}
			if len(checkIns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No check-ins recorded yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tPAIN\tTREATED\tNOTE")
			for _, c := range checkIns {
				fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%s\n",
					c.ID, c.Date.Format("2006-01-02"), c.PainLevel, c.Treated, c.Note)
			}
			_ = w.Flush()

			stats := mgr.Stats(checkIns, time.Now())
			fmt.Printf("\nLast check-in %d days ago, next due %s", stats.DaysSinceLast,
				stats.NextDue.Format("2006-01-02"))
			if stats.Overdue {
				fmt.Printf(" %s", cli.WarningStyle.Render("(overdue)"))
			}
			fmt.Println()
			return nil
		},
	}
}

func checkinsAddCmd() *cobra.Command {
	var (
		painLevel int
		treated   bool
		note      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a check-in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := checkInManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			entry, err := mgr.Add(ctx, time.Now(), painLevel, treated, note)
			if err != nil {
				return fmt.Errorf("failed to record check-in: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded check-in (ID: %s)", entry.ID)))
			return nil
		},
	}

	cmd.Flags().IntVar(&painLevel, "pain", 0, "pain level from 0 to 10")
	cmd.Flags().BoolVar(&treated, "treated", false, "received treatment since last check-in")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	return cmd
}

func checkinsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := checkInManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.Remove(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove check-in: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Removed check-in"))
			return nil
		},
	}
}
