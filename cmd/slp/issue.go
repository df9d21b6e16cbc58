package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir/internal/types"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new issue",
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")
		categoryFlag, _ := cmd.Flags().GetString("category")
		statusFlag, _ := cmd.Flags().GetString("status")
		component, _ := cmd.Flags().GetString("component")
		subs, _ := cmd.Flags().GetStringSlice("sub")
		description, _ := cmd.Flags().GetString("description")
		sprintQuery, _ := cmd.Flags().GetString("sprint")
		priority, _ := cmd.Flags().GetInt("priority")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}

		category := types.Category(categoryFlag)
		if !category.IsValid() {
			fatal("invalid category %q (Backlog, Pipeline or Hub)", categoryFlag)
		}

		var sprintID *string
		if sprintQuery != "" {
			sprint, err := findSprint(ctx, p.ID, sprintQuery)
			if err != nil {
				fatal("%v", err)
			}
			sprintID = &sprint.ID
		}

		mgr := newManager()
		issue, err := mgr.CreateIssue(ctx, p.ID, category, types.NormalizeStatus(statusFlag), sprintID)
		if err != nil {
			fatal("%v", err)
		}

		// Apply the descriptive fields the board defaults leave as
		// placeholders.
		changed := false
		if component != "" {
			issue.ProgramComponent = component
			changed = true
		}
		if len(subs) > 0 {
			issue.SubComponents = types.JoinSubComponents(subs)
			changed = true
		}
		if description != "" {
			issue.Description = description
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			issue.Priority = priority
			changed = true
		}
		if changed {
			if err := store.UpdateIssue(ctx, issue); err != nil {
				fatal("%v", err)
			}
		}

		if jsonOutput {
			_ = json.NewEncoder(os.Stdout).Encode(issue)
			return
		}
		green := color.New(color.FgGreen)
		_, _ = green.Printf("✓ Created issue %s\n", issue.ID)
		fmt.Printf("  %s\n", issue.FormattedTitle())
	},
}

var issueStatusCmd = &cobra.Command{
	Use:   "status [issue-id] [new-status]",
	Short: "Change an issue's workflow status",
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

		newStatus := types.NormalizeStatus(args[1])
		mgr := newManager()
		if err := mgr.ChangeStatus(ctx, issue, newStatus); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("%s: %s\n", issue.ID, newStatus)
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show [issue-id]",
	Short: "Show an issue with its audit timeline",
	Args:  cobra.ExactArgs(1),
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
		logs, err := store.ListLogs(ctx, issue.ID)
		if err != nil {
			fatal("%v", err)
		}

		if jsonOutput {
			out := struct {
				Issue *types.Issue      `json:"issue"`
				Logs  []*types.IssueLog `json:"logs"`
			}{issue, logs}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(out)
			return
		}

		bold := color.New(color.Bold)
		_, _ = bold.Println(issue.FormattedTitle())
		fmt.Printf("  %s · %s · %s · %s · %s\n",
			issue.ID, issue.Category, issue.IssueType, issue.Status, issue.Age(time.Now()))
		if issue.SprintID != nil {
			fmt.Printf("  sprint: %s\n", *issue.SprintID)
		}
		fmt.Println("\nTimeline:")
		for _, l := range logs {
			fmt.Printf("  [%s] %s: %s (%s)\n", l.Timestamp.Format("15:04"), l.Actor, l.Action, l.Details)
		}
	},
}

func init() {
	issueCreateCmd.Flags().StringP("project", "p", "", "Project name or ID")
	issueCreateCmd.Flags().StringP("category", "c", "Backlog", "Board category (Backlog, Pipeline, Hub)")
	issueCreateCmd.Flags().StringP("status", "s", "Open", "Initial workflow status")
	issueCreateCmd.Flags().String("component", "", "Program component")
	issueCreateCmd.Flags().StringSlice("sub", nil, "Sub-components (repeatable)")
	issueCreateCmd.Flags().StringP("description", "d", "", "Issue description")
	issueCreateCmd.Flags().String("sprint", "", "Sprint name or ID to assign")
	issueCreateCmd.Flags().Int("priority", 1, "Priority")

	issueStatusCmd.Flags().StringP("project", "p", "", "Project name or ID")
	issueShowCmd.Flags().StringP("project", "p", "", "Project name or ID")

	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueStatusCmd)
	issueCmd.AddCommand(issueShowCmd)
}
