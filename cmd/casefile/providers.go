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

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Track bills and records from medical providers",
	}

	cmd.AddCommand(providersListCmd())
	cmd.AddCommand(providersAddCmd())
	cmd.AddCommand(providersMarkCmd())
	cmd.AddCommand(providersRemoveCmd())

	return cmd
}

func providerManager(ctx context.Context) (*tracker.Providers, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := tracker.NewProviders(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func providersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked providers with collection progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := providerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			providers, err := mgr.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list providers: %w", err)
			}
			if len(providers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No providers yet. Use 'casefile providers add' to track one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREQUESTED\tRECORDS\tBILLS")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name,
					mark(p.Requested), mark(p.RecordsReceived), mark(p.BillsReceived))
			}
			_ = w.Flush()

			stats := tracker.ProviderStats(providers)
			fmt.Printf("\n%d providers, %d complete (%d%%)\n", stats.Total, stats.Complete, stats.Percent)
			return nil
		},
	}
}

func providersAddCmd() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Track a new provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := providerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			provider, err := mgr.Add(ctx, args[0], phone)
			if err != nil {
				return fmt.Errorf("failed to add provider: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Tracking %q (ID: %s)", provider.Name, provider.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "provider phone number")
	return cmd
}

func providersMarkCmd() *cobra.Command {
	var requested, records, bills bool

	cmd := &cobra.Command{
		Use:   "mark <id>",
		Short: "Mark collection milestones for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !requested && !records && !bills {
				return fmt.Errorf("nothing to mark: pass --requested, --records or --bills")
			}

			ctx := cmd.Context()
			mgr, done, err := providerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			now := time.Now()
			if requested {
				if err := mgr.MarkRequested(ctx, args[0], now); err != nil {
					return fmt.Errorf("failed to mark requested: %w", err)
				}
			}
			if records {
				if err := mgr.MarkRecordsReceived(ctx, args[0], now); err != nil {
					return fmt.Errorf("failed to mark records received: %w", err)
				}
			}
			if bills {
				if err := mgr.MarkBillsReceived(ctx, args[0], now); err != nil {
					return fmt.Errorf("failed to mark bills received: %w", err)
				}
			}

			fmt.Println(cli.FormatSuccess("Updated provider"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&requested, "requested", false, "records and bills were requested")
	cmd.Flags().BoolVar(&records, "records", false, "medical records arrived")
	cmd.Flags().BoolVar(&bills, "bills", false, "bills arrived")
	return cmd
}

func providersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop tracking a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := providerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.Remove(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove provider: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Removed provider"))
			return nil
		},
	}
}

func mark(done bool) string {
	if done {
		return cli.SuccessStyle.Render(cli.SuccessIcon)
	}
	return cli.SubtleStyle.Render("–")
}
