package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir"
	"github.com/tknoepfli/sleipnir/internal/config"
	"github.com/tknoepfli/sleipnir/internal/lifecycle"
	"github.com/tknoepfli/sleipnir/internal/logging"
	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

var (
	dbPath     string
	actor      string
	jsonOutput bool
	store      storage.Storage
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "slp",
	Short: "slp - Sprint-aware issue tracker",
	Long:  `Track issues across project boards and time-boxed sprints, with burndown reporting reconstructed from the audit log.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Priority: flags > config file + env vars > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("db") && dbPath == "" {
			dbPath = config.GetString("db")
		}
		if !cmd.Flags().Changed("actor") && actor == "" {
			actor = config.GetString("actor")
		}

		appLog = logging.New(config.GetString("log-file"), config.GetString("log-level"))

		// Commands that work without a database
		if cmd.Name() == "init" || cmd.Name() == "help" || cmd.Name() == "version" {
			return
		}

		if dbPath == "" {
			dbPath = sleipnir.FindDatabasePath()
		}
		if dbPath == "" {
			fmt.Fprintf(os.Stderr, "Error: no database found. Run 'slp init' first or set --db.\n")
			os.Exit(1)
		}

		var err error
		store, err = sleipnir.NewSQLiteStorage(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// newManager builds the lifecycle manager for the current invocation
func newManager() *lifecycle.Manager {
	return lifecycle.New(store,
		lifecycle.WithActor(actor),
		lifecycle.WithLogger(appLog),
		lifecycle.WithSprintLength(config.GetInt("sprint-length")),
	)
}

// findProject resolves a project by ID or (case-insensitive) name. With an
// empty query and exactly one project, that project is returned.
func findProject(ctx context.Context, query string) (*types.Project, error) {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if query == "" {
		if len(projects) == 1 {
			return projects[0], nil
		}
		return nil, fmt.Errorf("multiple projects exist; pick one with --project")
	}
	for _, p := range projects {
		if p.ID == query || strings.EqualFold(p.Name, query) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %q not found", query)
}

// findSprint resolves a sprint within a project by ID or name
func findSprint(ctx context.Context, projectID, query string) (*types.Sprint, error) {
	sprints, err := store.ListSprints(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	for _, s := range sprints {
		if s.ID == query || strings.EqualFold(s.Name, query) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sprint %q not found", query)
}

// findIssue resolves an issue within a project by ID or unique ID prefix
func findIssue(ctx context.Context, projectID, query string) (*types.Issue, error) {
	issues, err := store.ListIssues(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	var match *types.Issue
	for _, i := range issues {
		if i.ID == query {
			return i, nil
		}
		if strings.HasPrefix(i.ID, query) {
			if match != nil {
				return nil, fmt.Errorf("issue id prefix %q is ambiguous", query)
			}
			match = i
		}
	}
	if match == nil {
		return nil, fmt.Errorf("issue %q not found", query)
	}
	return match, nil
}

// parseDate parses a date-only flag value
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q (expected 2006-01-02)", s)
	}
	return t, nil
}

// parseTimeFlag parses time strings in multiple formats
func parseTimeFlag(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time %q (try formats: 2006-01-02, 2006-01-02T15:04:05, or RFC3339)", s)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name recorded on audit entries")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(sprintCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(burndownCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
