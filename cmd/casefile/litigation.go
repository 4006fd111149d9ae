package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/tracker"
)

func litigationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "litigation",
		Short: "Track a litigation referral",
	}

	cmd.AddCommand(litigationStatusCmd())
	cmd.AddCommand(litigationReferCmd())

	return cmd
}

func litigationStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the litigation record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := tracker.NewLitigation(store)
			if err != nil {
				return err
			}

			state, err := mgr.Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to load litigation state: %w", err)
			}

			fmt.Println(cli.FormatTitle("Litigation"))
			if !state.Referred {
				fmt.Println(cli.InfoStyle.Render("Not referred to litigation."))
				return nil
			}
			fmt.Printf("Referred to %s, %d days ago\n", state.FirmName,
				tracker.DaysSinceReferral(state, time.Now()))
			if state.Notes != "" {
				fmt.Printf("Notes: %s\n", state.Notes)
			}
			return nil
		},
	}
}

func litigationReferCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "refer <firm-name>",
		Short: "Refer the case to litigation counsel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := tracker.NewLitigation(store)
			if err != nil {
				return err
			}

			if err := mgr.Refer(ctx, args[0], notes, time.Now()); err != nil {
				return fmt.Errorf("failed to refer case: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Referred to %s", args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "referral notes")
	return cmd
}
