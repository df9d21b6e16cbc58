package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir/internal/timeline"
)

var burndownCmd = &cobra.Command{
	Use:   "burndown [sprint-name-or-id]",
	Short: "Show the historical status distribution of a sprint",
	Long: `Show the historical status distribution of a sprint, reconstructed
from the audit log.

The window defaults per scale: the sprint's full date range (day), the
trailing 24 hours (hour), or the trailing hour (minute).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectQuery, _ := cmd.Flags().GetString("project")
		scaleFlag, _ := cmd.Flags().GetString("scale")
		fromFlag, _ := cmd.Flags().GetString("from")
		toFlag, _ := cmd.Flags().GetString("to")

		ctx := context.Background()
		p, err := findProject(ctx, projectQuery)
		if err != nil {
			fatal("%v", err)
		}
		sprint, err := findSprint(ctx, p.ID, args[0])
		if err != nil {
			fatal("%v", err)
		}

		scale, err := timeline.ParseScale(scaleFlag)
		if err != nil {
			fatal("%v", err)
		}

		from, to := timeline.DefaultWindow(sprint, scale, time.Now())
		if fromFlag != "" {
			if from, err = parseTimeFlag(fromFlag); err != nil {
				fatal("%v", err)
			}
		}
		if toFlag != "" {
			if to, err = parseTimeFlag(toFlag); err != nil {
				fatal("%v", err)
			}
		}

		builder := timeline.NewBuilder(store)
		series, err := builder.BuildSeries(ctx, sprint, scale, from, to)
		if err != nil {
			fatal("%v", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(series)
			return
		}

		bold := color.New(color.Bold)
		_, _ = bold.Printf("%s · %s scale · %d samples\n\n", sprint.Name, scale, len(series))

		maxTotal := 0
		for _, c := range series {
			if c.Total() > maxTotal {
				maxTotal = c.Total()
			}
		}

		timeFormat := "15:04"
		if scale == timeline.ScaleDay {
			timeFormat = "01-02"
		}
		fmt.Printf("%-8s %5s %12s %9s %6s\n", "time", "open", "in progress", "testing", "done")
		for _, c := range series {
			fmt.Printf("%-8s %5d %12d %9d %6d  %s\n",
				c.Time.Format(timeFormat), c.Open, c.InProgress, c.Testing, c.Done,
				bar(c.Done, maxTotal))
		}
	},
}

// bar renders a proportional progress bar for the done count.
func bar(n, total int) string {
	if total == 0 {
		return ""
	}
	const width = 20
	filled := n * width / total
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}

func init() {
	burndownCmd.Flags().StringP("project", "p", "", "Project name or ID")
	burndownCmd.Flags().StringP("scale", "s", "day", "Sampling scale: day, hour or minute")
	burndownCmd.Flags().String("from", "", "Window start (2006-01-02 or RFC3339)")
	burndownCmd.Flags().String("to", "", "Window end")
}
