package desk

import (
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/ticketcreator_backend/pkg/client"
)

func newNoteCommand(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Add or remove ticket notes",
	}

	var author string
	add := &cobra.Command{
		Use:   "add <ticket-id> <body>",
		Short: "Append a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := ctrl.AddNote(ctx, args[0], args[1], author)
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}
	add.Flags().StringVar(&author, "author", "", "note author")

	rm := &cobra.Command{
		Use:   "rm <ticket-id> <note-id>",
		Short: "Remove a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := ctrl.DeleteNote(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newStepCommand(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Add or change checklist steps",
	}

	add := &cobra.Command{
		Use:   "add <ticket-id> <title>",
		Short: "Append a step in status todo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := ctrl.AddStep(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}

	var title, notes, status string
	set := &cobra.Command{
		Use:   "set <ticket-id> <step-id>",
		Short: "Change a step's title, notes or status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var p client.StepPatch
			if f.Changed("title") {
				p.Title = &title
			}
			if f.Changed("notes") {
				p.Notes = &notes
			}
			if f.Changed("status") {
				p.Status = &status
			}

			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := ctrl.UpdateStep(ctx, args[0], args[1], p)
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}
	set.Flags().StringVar(&title, "title", "", "step title")
	set.Flags().StringVar(&notes, "notes", "", "free-text step notes")
	set.Flags().StringVar(&status, "status", "", "todo, doing or done")

	cmd.AddCommand(add, set)
	return cmd
}
