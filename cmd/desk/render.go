package desk

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/Alijeyrad/ticketcreator_backend/internal/desk"
	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusOpen:
		return color.New(color.FgHiBlue).Sprint(s)
	case model.StatusInProgress:
		return color.New(color.FgYellow).Sprint(s)
	case model.StatusBlocked:
		return color.New(color.FgRed).Sprint(s)
	case model.StatusDone:
		return color.New(color.FgHiGreen).Sprint(s)
	default:
		return string(s)
	}
}

func priorityLabel(p model.Priority) string {
	if p == model.PriorityHigh {
		return color.New(color.FgRed, color.Bold).Sprint(p)
	}
	return string(p)
}

func stepMark(s model.StepStatus) string {
	switch s {
	case model.StepDone:
		return color.New(color.FgGreen).Sprint("[x]")
	case model.StepDoing:
		return color.New(color.FgYellow).Sprint("[~]")
	default:
		return "[ ]"
	}
}

func progress(steps model.Steps) string {
	done := lo.CountBy(steps, func(s model.Step) bool { return s.Status == model.StepDone })
	return fmt.Sprintf("%d/%d", done, len(steps))
}

func renderList(w io.Writer, v desk.View) {
	if len(v.Projects) > 0 {
		labels := lo.Map(v.Projects, func(p desk.ProjectOption, _ int) string {
			if p.Value == v.Filter {
				return color.New(color.FgHiMagenta).Sprintf("[%s]", p.Label)
			}
			return p.Label
		})
		fmt.Fprintf(w, "Projects: %s\n", strings.Join(labels, ", "))
	}

	if len(v.Visible) == 0 {
		if v.Filter == desk.AllProjects {
			fmt.Fprintln(w, "No tickets yet.")
		} else {
			fmt.Fprintln(w, "No tickets in this project.")
		}
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "ID", "Project", "Title", "Status", "Priority", "Assignee", "Steps", "Notes"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range v.Visible {
		marker := ""
		if t.ID == v.SelectedID {
			marker = ">"
		}
		table.Append([]string{
			marker,
			t.ID,
			strings.TrimSpace(t.Project),
			t.Title,
			statusLabel(t.Status),
			priorityLabel(t.Priority),
			t.Assignee,
			progress(t.Steps),
			fmt.Sprint(len(t.Notes)),
		})
	}
	table.Render()
}

func renderTicket(w io.Writer, t model.Ticket) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s  %s\n", bold.Sprint(t.Title), color.New(color.FgHiBlack).Sprint(t.ID))
	fmt.Fprintf(w, "Project:  %s\n", t.Project)
	fmt.Fprintf(w, "Status:   %s   Priority: %s\n", statusLabel(t.Status), priorityLabel(t.Priority))
	if t.Assignee != "" {
		fmt.Fprintf(w, "Assignee: %s\n", t.Assignee)
	}
	fmt.Fprintf(w, "Updated:  %s\n", t.UpdatedAt.Local().Format(time.DateTime))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}

	fmt.Fprintf(w, "\nSteps (%s)\n", progress(t.Steps))
	for _, s := range t.Steps {
		line := fmt.Sprintf("  %s %s  %s", stepMark(s.Status), s.Title, color.New(color.FgHiBlack).Sprint(s.ID))
		if s.Notes != "" {
			line += "\n      " + s.Notes
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\nNotes (%d)\n", len(t.Notes))
	for _, n := range t.Notes {
		who := lo.Ternary(n.Author == "", "anonymous", n.Author)
		fmt.Fprintf(w, "  %s %s  %s\n    %s\n",
			n.CreatedAt.Local().Format(time.DateTime), who,
			color.New(color.FgHiBlack).Sprint(n.ID), n.Body)
	}
}
