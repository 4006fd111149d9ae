package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/tracker"
)

func offersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Log negotiation offers and demands",
	}

	cmd.AddCommand(offersListCmd())
	cmd.AddCommand(offersAddCmd())
	cmd.AddCommand(offersRemoveCmd())

	return cmd
}

func offerManager(ctx context.Context) (*tracker.Offers, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := tracker.NewOffers(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func offersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the negotiation history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := offerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			offers, err := mgr.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list offers: %w", err)
			}
			if len(offers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No offers logged yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tFROM\tAMOUNT\tNOTE")
			for _, o := range offers {
				fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%s\n", o.ID, o.DateISO, o.From, o.Amount, o.Note)
			}
			_ = w.Flush()

			stats := tracker.OfferStats(offers)
			if stats.HasInsurerOffer && stats.HasClientPosition {
				fmt.Printf("\nHighest insurer offer $%.2f is %d%% of the client demand ($%.2f gap)\n",
					stats.HighestInsurer, stats.PercentOfDemand, stats.Gap)
			}
			return nil
		},
	}
}

func offersAddCmd() *cobra.Command {
	var (
		from    string
		note    string
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Log an offer or demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[0], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			date := time.Now()
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, err)
				}
				date = parsed
			}

			ctx := cmd.Context()
			mgr, done, err := offerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			offer, err := mgr.Add(ctx, model.OfferOrigin(from), amount, note, date)
			if err != nil {
				return fmt.Errorf("failed to log offer: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Logged %s entry of $%.2f (ID: %s)",
				offer.From, offer.Amount, offer.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", string(model.OriginInsurer), `origin: "Insurer" or "Client"`)
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&dateStr, "date", "", "entry date (YYYY-MM-DD, default today)")
	return cmd
}

func offersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a negotiation entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := offerManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.Remove(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove offer: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Removed entry"))
			return nil
		},
	}
}
