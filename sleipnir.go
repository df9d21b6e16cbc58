// Package sleipnir provides a minimal public API for embedding the sprint
// tracker's storage and lifecycle layers in other Go programs.
//
// Most integrations only need a Storage opened via NewSQLiteStorage plus the
// exported domain types; everything else lives under internal/.
package sleipnir

import (
	"os"
	"path/filepath"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/storage/memory"
	"github.com/tknoepfli/sleipnir/internal/storage/sqlite"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// Core domain types
type (
	Project  = types.Project
	Sprint   = types.Sprint
	Issue    = types.Issue
	IssueLog = types.IssueLog
	Status   = types.Status
	Category = types.Category
)

// Status constants
const (
	StatusOpen       = types.StatusOpen
	StatusInProgress = types.StatusInProgress
	StatusInTesting  = types.StatusInTesting
	StatusFinished   = types.StatusFinished
)

// Category constants
const (
	CategoryBacklog  = types.CategoryBacklog
	CategoryPipeline = types.CategoryPipeline
	CategoryHub      = types.CategoryHub
)

// Storage is the repository contract consumed by the lifecycle and
// reporting layers
type Storage = storage.Storage

// NewSQLiteStorage opens a sleipnir SQLite database for programmatic access
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}

// NewMemoryStorage creates an in-memory storage backend
func NewMemoryStorage() Storage {
	return memory.New()
}

// DefaultDatabaseName is the database filename created by slp init.
const DefaultDatabaseName = "sleipnir.db"

// FindDatabasePath locates the database using the standard discovery order:
// the SLEIPNIR_DB environment variable, then a .sleipnir directory walking
// up from the current directory. Returns "" when nothing is found.
func FindDatabasePath() string {
	if envPath := os.Getenv("SLEIPNIR_DB"); envPath != "" {
		return envPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ".sleipnir", DefaultDatabaseName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return ""
}
