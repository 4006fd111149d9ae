package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Back up and restore the case database",
	}

	cmd.AddCommand(snapshotCreateCmd())
	cmd.AddCommand(snapshotListCmd())
	cmd.AddCommand(snapshotRestoreCmd())
	cmd.AddCommand(snapshotDeleteCmd())

	return cmd
}

func snapshotCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a snapshot of the case database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sm, err := store.NewSnapshotManager()
			if err != nil {
				return err
			}

			tag := ""
			if len(args) > 0 {
				tag = args[0]
			}

			metadata, err := sm.Create(ctx, tag, description)
			if err != nil {
				return fmt.Errorf("failed to create snapshot: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created snapshot %q (%d records)",
				metadata.ID, metadata.Records)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "what this snapshot captures")
	return cmd
}

func snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sm, err := store.NewSnapshotManager()
			if err != nil {
				return err
			}

			snapshots, err := sm.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			if len(snapshots) == 0 {
				fmt.Println(cli.InfoStyle.Render("No snapshots yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintln(w, "ID\tCREATED\tRECORDS\tSIZE\tDESCRIPTION")
			for _, s := range snapshots {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Records, s.FileSize, s.Description)
			}
			return nil
		},
	}
}

func snapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore the case database from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			// Restore closes the connection itself.

			sm, err := store.NewSnapshotManager()
			if err != nil {
				_ = store.Close()
				return err
			}

			if err := sm.Restore(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to restore snapshot: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Restored snapshot %q", args[0])))
			return nil
		},
	}
}

func snapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sm, err := store.NewSnapshotManager()
			if err != nil {
				return err
			}

			if err := sm.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete snapshot: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted snapshot %q", args[0])))
			return nil
		},
	}
}
