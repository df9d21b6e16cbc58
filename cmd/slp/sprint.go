package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir/internal/config"
	"github.com/tknoepfli/sleipnir/internal/lifecycle"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints (active and archived)",
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		sprints, err := store.ListSprints(ctx, p.ID)
		if err != nil {
			fatal("%v", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(sprints)
			return
		}

		green := color.New(color.FgGreen)
		gray := color.New(color.Faint)
		for _, s := range sprints {
			dates := fmt.Sprintf("%s → %s", s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
			switch {
			case s.IsActive && s.IsCurrent():
				_, _ = green.Printf("● %s  %s  (current)\n", s.Name, dates)
			case s.IsActive:
				fmt.Printf("○ %s  %s\n", s.Name, dates)
			default:
				_, _ = gray.Printf("· %s  %s  (archived)\n", s.Name, dates)
			}
		}
	},
}

var sprintPlanCmd = &cobra.Command{
	Use:   "plan [name]",
	Short: "Plan a new sprint (archives the project's current active sprints)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}

		start := time.Now()
		if startFlag != "" {
			if start, err = parseDate(startFlag); err != nil {
				fatal("%v", err)
			}
		}
		end := start.AddDate(0, 0, config.GetInt("sprint-length"))
		if endFlag != "" {
			if end, err = parseDate(endFlag); err != nil {
				fatal("%v", err)
			}
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		if name == "" {
			sprints, err := store.ListSprints(ctx, p.ID)
			if err != nil {
				fatal("%v", err)
			}
			name = lifecycle.DefaultSprintName(len(sprints))
		}

		mgr := newManager()
		sprint, err := mgr.PlanSprint(ctx, p.ID, name, start, end)
		if err != nil {
			fatal("%v", err)
		}

		green := color.New(color.FgGreen)
		_, _ = green.Printf("✓ Planned %s: %s → %s\n",
			sprint.Name, sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"))
	},
}

var sprintEditCmd = &cobra.Command{
	Use:   "edit [name-or-id]",
	Short: "Edit a sprint's name or date range",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		sprint, err := findSprint(ctx, p.ID, args[0])
		if err != nil {
			fatal("%v", err)
		}

		if name, _ := cmd.Flags().GetString("name"); name != "" {
			sprint.Name = name
		}
		if startFlag, _ := cmd.Flags().GetString("start"); startFlag != "" {
			if sprint.StartDate, err = parseDate(startFlag); err != nil {
				fatal("%v", err)
			}
		}
		if endFlag, _ := cmd.Flags().GetString("end"); endFlag != "" {
			if sprint.EndDate, err = parseDate(endFlag); err != nil {
				fatal("%v", err)
			}
		}

		mgr := newManager()
		if err := mgr.EditSprint(ctx, sprint); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Updated %s\n", sprint.Name)
	},
}

var sprintCompleteCmd = &cobra.Command{
	Use:   "complete [name-or-id]",
	Short: "Complete a sprint and roll unfinished issues into its successor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		sprint, err := findSprint(ctx, p.ID, args[0])
		if err != nil {
			fatal("%v", err)
		}

		mgr := newManager()
		moved, err := mgr.CompleteSprint(ctx, sprint.ID)
		if err != nil {
			var auditErr *lifecycle.AuditError
			if !errors.As(err, &auditErr) {
				fatal("%v", err)
			}
			// Sprint state is correct; only the audit trail is incomplete.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		green := color.New(color.FgGreen)
		_, _ = green.Printf("✓ Completed %s: %d unfinished issue(s) rolled over\n", sprint.Name, moved)
	},
}

var sprintDeleteCmd = &cobra.Command{
	Use:   "delete [name-or-id]",
	Short: "Delete a sprint, unassigning its issues",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")
		force, _ := cmd.Flags().GetBool("force")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		sprint, err := findSprint(ctx, p.ID, args[0])
		if err != nil {
			fatal("%v", err)
		}

		if !force {
			fmt.Printf("Delete %s? All associated issues will be unassigned. [y/N] ", sprint.Name)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println("Aborted.")
				return
			}
		}

		mgr := newManager()
		if err := mgr.DeleteSprint(ctx, sprint.ID); err != nil {
			var auditErr *lifecycle.AuditError
			if !errors.As(err, &auditErr) {
				fatal("%v", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		fmt.Printf("Deleted %s\n", sprint.Name)
	},
}

var sprintAssignCmd = &cobra.Command{
	Use:   "assign [issue-id] [sprint-name-or-id]",
	Short: "Assign an issue to a sprint",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		issue, err := findIssue(ctx, p.ID, args[0])
		if err != nil {
			fatal("%v", err)
		}
		sprint, err := findSprint(ctx, p.ID, args[1])
		if err != nil {
			fatal("%v", err)
		}

		mgr := newManager()
		if err := mgr.AssignIssue(ctx, issue, sprint); err != nil {
			var auditErr *lifecycle.AuditError
			if !errors.As(err, &auditErr) {
				fatal("%v", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		fmt.Printf("Planned %s into %s\n", issue.ID, sprint.Name)
	},
}

func init() {
	for _, c := range []*cobra.Command{sprintListCmd, sprintPlanCmd, sprintEditCmd, sprintCompleteCmd, sprintDeleteCmd, sprintAssignCmd} {
		c.Flags().StringP("project", "p", "", "Project name or ID")
	}
	sprintPlanCmd.Flags().String("start", "", "Start date (2006-01-02, default today)")
	sprintPlanCmd.Flags().String("end", "", "End date (2006-01-02, default start + sprint length)")
	sprintEditCmd.Flags().String("name", "", "New sprint name")
	sprintEditCmd.Flags().String("start", "", "New start date")
	sprintEditCmd.Flags().String("end", "", "New end date")
	sprintDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	sprintCmd.AddCommand(sprintListCmd)
	sprintCmd.AddCommand(sprintPlanCmd)
	sprintCmd.AddCommand(sprintEditCmd)
	sprintCmd.AddCommand(sprintCompleteCmd)
	sprintCmd.AddCommand(sprintDeleteCmd)
	sprintCmd.AddCommand(sprintAssignCmd)
}
