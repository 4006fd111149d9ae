package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/intake"
	"github.com/halcyonlegal/casefile/internal/model"
)

func intakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Work through the case intake wizard",
		Long:  `Fill in the intake wizard step by step: personal info, incident details, medical history, document uploads, agreements, review.`,
	}

	cmd.AddCommand(intakeStatusCmd())
	cmd.AddCommand(intakePersonalCmd())
	cmd.AddCommand(intakeIncidentCmd())
	cmd.AddCommand(intakeMedicalCmd())
	cmd.AddCommand(intakeUploadsCmd())
	cmd.AddCommand(intakeAgreementsCmd())
	cmd.AddCommand(intakeNextCmd())
	cmd.AddCommand(intakeBackCmd())

	return cmd
}

func intakeManager(ctx context.Context) (*intake.Manager, func(), error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := intake.NewManager(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = store.Close() }, nil
}

func intakeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current wizard step and what is filled in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			step, record, err := mgr.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to load intake status: %w", err)
			}

			fmt.Println(cli.FormatTitle("Intake"))
			fmt.Printf("Current step: %s (%d of %d)\n\n", cli.BoldStyle.Render(step.String()),
				int(step)+1, int(model.StepComplete)+1)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "Name\t%s %s\n", record.Personal.FirstName, record.Personal.LastName)
			fmt.Fprintf(w, "Email\t%s\n", record.Personal.Email)
			fmt.Fprintf(w, "Phone\t%s\n", record.Personal.Phone)
			fmt.Fprintf(w, "Incident\t%s at %s\n", record.Incident.Date, record.Incident.Location)
			fmt.Fprintf(w, "Uploads\t%d\n", len(record.Uploads))
			fmt.Fprintf(w, "Agreements\t%v\n", record.Agreements.Accepted())
			fmt.Fprintf(w, "Submitted\t%v\n", record.Agreed)
			return nil
		},
	}
}

func intakePersonalCmd() *cobra.Command {
	var personal model.PersonalInfo

	cmd := &cobra.Command{
		Use:   "personal",
		Short: "Fill in the personal-info step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.SetPersonal(ctx, personal); err != nil {
				return fmt.Errorf("failed to save personal info: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Saved personal info"))
			return nil
		},
	}

	cmd.Flags().StringVar(&personal.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&personal.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&personal.Email, "email", "", "email address")
	cmd.Flags().StringVar(&personal.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&personal.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&personal.Address, "address", "", "mailing address")

	return cmd
}

func intakeIncidentCmd() *cobra.Command {
	var incident model.IncidentDetails

	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Fill in the incident-details step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.SetIncident(ctx, incident); err != nil {
				return fmt.Errorf("failed to save incident details: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Saved incident details"))
			return nil
		},
	}

	cmd.Flags().StringVar(&incident.Date, "date", "", "incident date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&incident.Location, "location", "", "where the incident happened")
	cmd.Flags().StringVar(&incident.Description, "description", "", "what happened")
	cmd.Flags().BoolVar(&incident.PoliceReport, "police-report", false, "a police report was filed")
	cmd.Flags().StringVar(&incident.OtherParty, "other-party", "", "other party involved")

	return cmd
}

func intakeMedicalCmd() *cobra.Command {
	var medical model.MedicalHistory

	cmd := &cobra.Command{
		Use:   "medical",
		Short: "Fill in the medical-history step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.SetMedical(ctx, medical); err != nil {
				return fmt.Errorf("failed to save medical history: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Saved medical history"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&medical.Treated, "treated", false, "currently receiving treatment")
	cmd.Flags().StringVar(&medical.PriorInjuries, "prior", "", "prior injuries")
	cmd.Flags().StringVar(&medical.CurrentDoctors, "doctors", "", "current doctors")
	cmd.Flags().StringVar(&medical.Medications, "medications", "", "current medications")

	return cmd
}

func intakeUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Manage intake document uploads",
	}

	var kind string
	addCmd := &cobra.Command{
		Use:   "add <file-name>",
		Short: "Attach a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			upload, err := mgr.AddUpload(ctx, args[0], kind, time.Now())
			if err != nil {
				return fmt.Errorf("failed to add upload: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Attached %q (ID: %s)", upload.FileName, upload.ID)))
			return nil
		},
	}
	addCmd.Flags().StringVar(&kind, "kind", "", "document kind (bill, record, photo, ...)")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Detach a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.RemoveUpload(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove upload: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Removed upload"))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List attached documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			_, record, err := mgr.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to load uploads: %w", err)
			}
			if len(record.Uploads) == 0 {
				fmt.Println(cli.InfoStyle.Render("No documents attached yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			for _, u := range record.Uploads {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.FileName, u.Kind, u.AddedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd, listCmd)
	return cmd
}

func intakeAgreementsCmd() *cobra.Command {
	var agreements model.Agreements

	cmd := &cobra.Command{
		Use:   "agreements",
		Short: "Accept the engagement agreements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := mgr.SetAgreements(ctx, agreements); err != nil {
				return fmt.Errorf("failed to save agreements: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Saved agreements"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&agreements.Retainer, "retainer", false, "accept the retainer agreement")
	cmd.Flags().BoolVar(&agreements.HIPAA, "hipaa", false, "accept the HIPAA release")
	cmd.Flags().BoolVar(&agreements.Contingency, "contingency", false, "accept the contingency-fee agreement")

	return cmd
}

func intakeNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Validate the current step and advance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			step, fieldErrs, err := mgr.Advance(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to advance intake: %w", err)
			}
			if len(fieldErrs) > 0 {
				fmt.Println(cli.FormatWarning("Fix these fields before continuing:"))
				for _, fe := range fieldErrs {
					fmt.Printf("  %s %s\n", cli.ErrorStyle.Render(fe.Field), fe.Message)
				}
				return nil
			}

			if step >= model.StepComplete {
				fmt.Println(cli.FormatSuccess("Intake complete: agreements signed and record submitted"))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Advanced to step %q", step)))
			}
			return nil
		},
	}
}

func intakeBackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Go back one wizard step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, done, err := intakeManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			step, err := mgr.Back(ctx)
			if err != nil {
				return fmt.Errorf("failed to go back: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Back to step %q", step)))
			return nil
		},
	}
}
