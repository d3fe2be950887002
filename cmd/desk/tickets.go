package desk

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/ticketcreator_backend/pkg/client"
)

func newListCommand(open opener) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets, optionally for one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ctrl.SetFilter(project)
			renderList(cmd.OutOrStdout(), ctrl.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "only tickets of this project (case-insensitive)")

	return cmd
}

func newShowCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one ticket with its steps and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ctrl.Select(args[0])
			v := ctrl.Snapshot()
			if v.Selected == nil || v.Selected.ID != args[0] {
				return fmt.Errorf("ticket %s not found", args[0])
			}
			renderTicket(cmd.OutOrStdout(), *v.Selected)
			return nil
		},
	}
}

func newCreateCommand(open opener) *cobra.Command {
	var in client.TicketInput
	var steps []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			for _, s := range steps {
				in.Steps = append(in.Steps, client.StepInput{Title: s})
			}
			t, err := ctrl.Create(ctx, in)
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Project, "project", "", "project label (required)")
	f.StringVar(&in.Title, "title", "", "ticket title (required)")
	f.StringVar(&in.Description, "description", "", "longer description")
	f.StringVar(&in.Status, "status", "", "open, in_progress, blocked or done")
	f.StringVar(&in.Priority, "priority", "", "low, med or high")
	f.StringVar(&in.Assignee, "assignee", "", "who works on it")
	f.StringArrayVar(&steps, "step", nil, "checklist step title (repeatable, replaces the default checklist)")

	return cmd
}

func newUpdateCommand(open opener) *cobra.Command {
	var project, title, description, status, priority, assignee string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a ticket; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			changed := func(name, v string) *string {
				if !f.Changed(name) {
					return nil
				}
				return &v
			}
			patch := client.TicketPatch{
				Project:     changed("project", project),
				Title:       changed("title", title),
				Description: changed("description", description),
				Status:      changed("status", status),
				Priority:    changed("priority", priority),
				Assignee:    changed("assignee", assignee),
			}

			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := ctrl.Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			renderTicket(cmd.OutOrStdout(), *t)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&project, "project", "", "project label")
	f.StringVar(&title, "title", "", "ticket title")
	f.StringVar(&description, "description", "", "longer description")
	f.StringVar(&status, "status", "", "open, in_progress, blocked or done")
	f.StringVar(&priority, "priority", "", "low, med or high")
	f.StringVar(&assignee, "assignee", "", "who works on it")

	return cmd
}

func newDeleteCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ticket with all its steps and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, ctx, cancel, err := open(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if err := ctrl.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			renderList(cmd.OutOrStdout(), ctrl.Snapshot())
			return nil
		},
	}
}
