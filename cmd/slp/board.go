package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir/internal/board"
	"github.com/tknoepfli/sleipnir/internal/types"
)

var boardCmd = &cobra.Command{
	Use:   "board [category]",
	Short: "Show the issue board for a category",
	Long: `Show the issue board for a category (Backlog, Pipeline or Hub).

With --sprint the board shows that sprint's issues; without it, only the
unplanned pool is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")
		sprintQuery, _ := cmd.Flags().GetString("sprint")

		category := "Backlog"
		if len(args) > 0 {
			category = args[0]
		}

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}

		var sprintID *string
		var sprintName string
		if sprintQuery != "" {
			sprint, err := findSprint(ctx, p.ID, sprintQuery)
			if err != nil {
				fatal("%v", err)
			}
			sprintID = &sprint.ID
			sprintName = sprint.Name
		}

		issues, err := store.ListIssues(ctx, p.ID)
		if err != nil {
			fatal("%v", err)
		}
		b := board.Project(board.Snapshot(issues), category, sprintID)

		if jsonOutput {
			out := struct {
				Open       []types.Issue `json:"open"`
				InProgress []types.Issue `json:"in_progress"`
				Testing    []types.Issue `json:"testing"`
				Finished   []types.Issue `json:"finished"`
			}{b.Open, b.InProgress, b.Testing, b.Finished}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(out)
			return
		}

		scope := "unplanned pool"
		if sprintName != "" {
			scope = sprintName
		}
		bold := color.New(color.Bold)
		_, _ = bold.Printf("%s · %s · %s\n\n", p.Name, category, scope)

		printColumn(color.New(color.FgRed), "Open", b.Open)
		printColumn(color.New(color.FgYellow), "In Progress", b.InProgress)
		printColumn(color.New(color.FgBlue), "In Testing", b.Testing)
		printColumn(color.New(color.FgGreen), "Finished", b.Finished)
	},
}

func printColumn(c *color.Color, title string, issues []types.Issue) {
	_, _ = c.Printf("%s (%d)\n", title, len(issues))
	now := time.Now()
	for _, i := range issues {
		fmt.Printf("  %-8s %s  [%s]\n", shortID(i.ID), i.FormattedTitle(), i.Age(now))
	}
	fmt.Println()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	boardCmd.Flags().StringP("project", "p", "", "Project name or ID")
	boardCmd.Flags().String("sprint", "", "Sprint name or ID (empty shows the unplanned pool)")
}
