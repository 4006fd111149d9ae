package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/model"
)

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage payout bank details",
	}

	cmd.AddCommand(bankSetCmd())
	cmd.AddCommand(bankShowCmd())

	return cmd
}

func bankSetCmd() *cobra.Command {
	var (
		holder        string
		bankName      string
		accountNumber string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set payout bank details for disbursement",
		Long: `Set payout bank details for disbursement.

Only the last four digits of the account number are stored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info := model.NewBankInfo(holder, bankName, accountNumber)
			if err := store.SaveBankInfo(ctx, info); err != nil {
				return fmt.Errorf("failed to save bank details: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved payout details for %s (%s ····%s)",
				info.AccountHolder, info.BankName, info.AccountLast4)))
			return nil
		},
	}

	cmd.Flags().StringVar(&holder, "holder", "", "account holder name")
	cmd.Flags().StringVar(&bankName, "bank", "", "bank name")
	cmd.Flags().StringVar(&accountNumber, "account", "", "account number (only last four digits are kept)")
	_ = cmd.MarkFlagRequired("holder")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func bankShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored payout details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := store.GetBankInfo(ctx)
			if err != nil {
				return fmt.Errorf("failed to load bank details: %w", err)
			}
			if info.AccountLast4 == "" {
				fmt.Println(cli.InfoStyle.Render("No payout details on file. Use 'casefile bank set' to add them."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Payout Details"))
			fmt.Printf("  Holder:  %s\n", info.AccountHolder)
			fmt.Printf("  Bank:    %s\n", info.BankName)
			fmt.Printf("  Account: ····%s\n", info.AccountLast4)
			return nil
		},
	}
}
