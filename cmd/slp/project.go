package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		projects, err := store.ListProjects(ctx)
		if err != nil {
			fatal("%v", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(projects)
			return
		}

		if len(projects) == 0 {
			fmt.Println("No projects. Create one with 'slp project create <name>'.")
			return
		}
		bold := color.New(color.Bold)
		for _, p := range projects {
			_, _ = bold.Printf("%s", p.Name)
			fmt.Printf("  %s\n", p.ID)
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
		}
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		logo, _ := cmd.Flags().GetString("logo")

		var logoURL *string
		if logo != "" {
			logoURL = &logo
		}

		ctx := context.Background()
		p, err := store.CreateProject(ctx, args[0], description, logoURL)
		if err != nil {
			fatal("%v", err)
		}

		if jsonOutput {
			_ = json.NewEncoder(os.Stdout).Encode(p)
			return
		}
		green := color.New(color.FgGreen)
		_, _ = green.Printf("✓ Created project %s (%s)\n", p.Name, p.ID)
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [name-or-id]",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		p, err := findProject(ctx, args[0])
		if err != nil {
			fatal("%v", err)
		}

		if name, _ := cmd.Flags().GetString("name"); name != "" {
			p.Name = name
		}
		if cmd.Flags().Changed("description") {
			p.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("logo") {
			logo, _ := cmd.Flags().GetString("logo")
			if logo == "" {
				p.LogoURL = nil
			} else {
				p.LogoURL = &logo
			}
		}

		if err := store.UpdateProject(ctx, p); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Updated project %s\n", p.Name)
	},
}

func init() {
	projectCreateCmd.Flags().StringP("description", "d", "", "Project description")
	projectCreateCmd.Flags().String("logo", "", "Logo reference (path or URL)")

	projectEditCmd.Flags().String("name", "", "New project name")
	projectEditCmd.Flags().StringP("description", "d", "", "New project description")
	projectEditCmd.Flags().String("logo", "", "New logo reference (empty clears it)")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectEditCmd)
}
