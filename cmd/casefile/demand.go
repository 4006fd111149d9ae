package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/tracker"
)

func demandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Manage the demand letter",
	}

	cmd.AddCommand(demandStatusCmd())
	cmd.AddCommand(demandDraftCmd())
	cmd.AddCommand(demandApproveCmd())

	return cmd
}

func demandManager(ctx context.Context) (*tracker.Demand, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := tracker.NewDemand(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func demandStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the demand workflow state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := demandManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			state, err := mgr.Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to load demand state: %w", err)
			}
			canDraft, err := mgr.CanDraft(ctx)
			if err != nil {
				return fmt.Errorf("failed to check drafting gate: %w", err)
			}

			fmt.Println(cli.FormatTitle("Demand"))
			fmt.Printf("Drafting allowed: %v\n", canDraft)
			fmt.Printf("Draft ready:      %v\n", state.DraftReady)
			fmt.Printf("Approved:         %v\n", state.Approved)
			if state.ApprovedAt != nil {
				fmt.Printf("Approved at:      %s\n", state.ApprovedAt.Format(time.RFC822))
			}
			return nil
		},
	}
}

func demandDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Mark the demand draft as prepared",
		Long:  `Marks the demand draft ready. Requires bills received from a provider or documents uploaded at intake.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := demandManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.MarkDraftReady(ctx); err != nil {
				return fmt.Errorf("failed to mark draft ready: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Demand draft is ready for review"))
			return nil
		},
	}
}

func demandApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve",
		Short: "Approve the prepared draft for sending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := demandManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.Approve(ctx, time.Now()); err != nil {
				return fmt.Errorf("failed to approve demand: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Demand approved"))
			return nil
		},
	}
}
