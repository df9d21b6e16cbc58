// Package storage defines the repository contract consumed by the lifecycle
// and reporting layers.
package storage

import (
	"context"
	"errors"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the repository contract. Every call may fail with a
// generic I/O error; callers treat a failed multi-step operation as failed
// overall and re-read state rather than assume partial success.
//
// ListLogs returns entries in ascending timestamp order, ties broken by
// insertion order. The reconstruction layer depends on that ordering.
type Storage interface {
	// Projects
	ListProjects(ctx context.Context) ([]*types.Project, error)
	CreateProject(ctx context.Context, name, description string, logoURL *string) (*types.Project, error)
	UpdateProject(ctx context.Context, project *types.Project) error

	// Sprints
	ListSprints(ctx context.Context, projectID string) ([]*types.Sprint, error)
	CreateSprint(ctx context.Context, sprint *types.Sprint) error
	UpdateSprint(ctx context.Context, sprint *types.Sprint) error
	DeleteSprint(ctx context.Context, sprintID string) error

	// Issues
	ListIssues(ctx context.Context, projectID string) ([]*types.Issue, error)
	CreateIssue(ctx context.Context, issue *types.Issue, actor string) error
	UpdateIssue(ctx context.Context, issue *types.Issue) error
	DeleteIssue(ctx context.Context, issueID string) error

	// Audit log (append-only; entries are never mutated or removed)
	ListLogs(ctx context.Context, issueID string) ([]*types.IssueLog, error)
	AppendLog(ctx context.Context, entry *types.IssueLog) error

	// Lifecycle
	Close() error

	// Database path (empty for non-file backends)
	Path() string
}

// Config holds database configuration
type Config struct {
	Backend string // "sqlite" or "memory"
	Path    string // database file path for sqlite
}
