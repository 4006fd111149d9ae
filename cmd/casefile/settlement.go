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

func settlementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settlement",
		Short: "Track the settlement and its disbursement",
	}

	cmd.AddCommand(settlementStatusCmd())
	cmd.AddCommand(settlementGrossCmd())
	cmd.AddCommand(settlementMarkCmd())
	cmd.AddCommand(settlementPayeeCmd())

	return cmd
}

func settlementManager(ctx context.Context) (*tracker.Settlement, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := tracker.NewSettlement(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func settlementStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the settlement record and disbursement math",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := settlementManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			state, payees, err := mgr.Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settlement: %w", err)
			}
			stats := tracker.SettlementStats(state, payees)

			fmt.Println(cli.FormatTitle("Settlement"))
			fmt.Printf("Gross amount:   $%.2f\n", stats.Gross)
			fmt.Printf("Release signed: %v\n", state.ReleaseSigned)
			fmt.Printf("Funds received: %v\n", state.FundsReceived)
			fmt.Printf("Payee total:    $%.2f (%d%% of gross)\n", stats.PayeeTotal, stats.PercentOfGross)
			fmt.Printf("Net to client:  $%.2f\n", stats.NetToClient)

			if len(payees) > 0 {
				fmt.Println()
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tPAYEE\tKIND\tAMOUNT")
				for _, p := range payees {
					fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\n", p.ID, p.Name, p.Kind, p.Amount)
				}
				_ = w.Flush()
			}
			return nil
		},
	}
}

func settlementGrossCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gross <amount>",
		Short: "Set the gross settlement amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[0], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			ctx := cmd.Context()
			mgr, done, err := settlementManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.SetGross(ctx, amount); err != nil {
				return fmt.Errorf("failed to set gross amount: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Gross amount set to $%.2f", amount)))
			return nil
		},
	}
}

func settlementMarkCmd() *cobra.Command {
	var release, funds bool

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark settlement milestones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !release && !funds {
				return fmt.Errorf("nothing to mark: pass --release or --funds")
			}

			ctx := cmd.Context()
			mgr, done, err := settlementManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			now := time.Now()
			if release {
				if err := mgr.MarkReleaseSigned(ctx, now); err != nil {
					return fmt.Errorf("failed to mark release signed: %w", err)
				}
			}
			if funds {
				if err := mgr.MarkFundsReceived(ctx, now); err != nil {
					return fmt.Errorf("failed to mark funds received: %w", err)
				}
			}

			fmt.Println(cli.FormatSuccess("Updated settlement"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&release, "release", false, "the client signed the release")
	cmd.Flags().BoolVar(&funds, "funds", false, "settlement funds arrived")
	return cmd
}

func settlementPayeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payee",
		Short: "Manage disbursement payees",
	}

	var kind string
	addCmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Add a disbursement line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[1], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			ctx := cmd.Context()
			mgr, done, err := settlementManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			payee, err := mgr.AddPayee(ctx, args[0], kind, amount)
			if err != nil {
				return fmt.Errorf("failed to add payee: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added payee %q (ID: %s)", payee.Name, payee.ID)))
			return nil
		},
	}
	addCmd.Flags().StringVar(&kind, "kind", "", "payee kind (lien, fees, costs, ...)")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a disbursement line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := settlementManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.RemovePayee(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove payee: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Removed payee"))
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}
