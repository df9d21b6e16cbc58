package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tknoepfli/sleipnir"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sleipnir database in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("failed to get working directory: %v", err)
		}

		appDir := filepath.Join(cwd, ".sleipnir")
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			fatal("failed to create %s: %v", appDir, err)
		}

		path := filepath.Join(appDir, sleipnir.DefaultDatabaseName)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Database already exists at %s\n", path)
			return
		}

		store, err := sleipnir.NewSQLiteStorage(path)
		if err != nil {
			fatal("failed to create database: %v", err)
		}
		defer func() { _ = store.Close() }()

		green := color.New(color.FgGreen)
		_, _ = green.Printf("✓ Initialized sleipnir database at %s\n", path)
		fmt.Println("\nNext steps:")
		fmt.Println("  slp project create \"My Project\"")
		fmt.Println("  slp sprint plan --project \"My Project\"")
	},
}
