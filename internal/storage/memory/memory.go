// Package memory implements the storage interface using in-memory data
// structures. It backs tests and library embedding; reads return deep copies
// so callers always hold an isolated snapshot.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// MemoryStorage implements the Storage interface using in-memory maps
type MemoryStorage struct {
	mu sync.RWMutex // Protects all maps

	projects map[string]*types.Project
	sprints  map[string]*types.Sprint
	issues   map[string]*types.Issue
	logs     map[string][]*types.IssueLog // IssueID -> entries in insertion order

	failMu   sync.Mutex
	failures map[string]error // op name -> error injected on next call

	clock func() time.Time
}

// New creates a new in-memory storage backend
func New() *MemoryStorage {
	return &MemoryStorage{
		projects: make(map[string]*types.Project),
		sprints:  make(map[string]*types.Sprint),
		issues:   make(map[string]*types.Issue),
		logs:     make(map[string][]*types.IssueLog),
		failures: make(map[string]error),
		clock:    time.Now,
	}
}

// SetClock overrides the time source. Used by tests that pin "now".
func (m *MemoryStorage) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// FailNext makes the next call to the named operation (e.g. "UpdateIssue",
// "AppendLog") return the given error. Used to exercise partial-failure
// paths in lifecycle tests.
func (m *MemoryStorage) FailNext(op string, err error) {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	m.failures[op] = err
}

func (m *MemoryStorage) takeFailure(op string) error {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	if err, ok := m.failures[op]; ok {
		delete(m.failures, op)
		return err
	}
	return nil
}

// ListProjects returns all projects ordered by creation time
func (m *MemoryStorage) ListProjects(ctx context.Context) ([]*types.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListProjects"); err != nil {
		return nil, err
	}

	projects := make([]*types.Project, 0, len(m.projects))
	for _, p := range m.projects {
		cp := *p
		projects = append(projects, &cp)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

// CreateProject creates a new project
func (m *MemoryStorage) CreateProject(ctx context.Context, name, description string, logoURL *string) (*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateProject"); err != nil {
		return nil, err
	}

	p := &types.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		LogoURL:     logoURL,
		CreatedAt:   m.clock().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	m.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

// UpdateProject updates a project's mutable fields
func (m *MemoryStorage) UpdateProject(ctx context.Context, project *types.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("UpdateProject"); err != nil {
		return err
	}

	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, ok := m.projects[project.ID]; !ok {
		return fmt.Errorf("project %s: %w", project.ID, storage.ErrNotFound)
	}
	cp := *project
	m.projects[project.ID] = &cp
	return nil
}

// ListSprints returns all sprints of a project ordered by start date
func (m *MemoryStorage) ListSprints(ctx context.Context, projectID string) ([]*types.Sprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListSprints"); err != nil {
		return nil, err
	}

	var sprints []*types.Sprint
	for _, s := range m.sprints {
		if s.ProjectID != projectID {
			continue
		}
		cp := *s
		sprints = append(sprints, &cp)
	}
	sort.Slice(sprints, func(i, j int) bool {
		if sprints[i].StartDate.Equal(sprints[j].StartDate) {
			return sprints[i].ID < sprints[j].ID
		}
		return sprints[i].StartDate.Before(sprints[j].StartDate)
	})
	return sprints, nil
}

// CreateSprint persists a new sprint. The ID is generated when unset.
func (m *MemoryStorage) CreateSprint(ctx context.Context, sprint *types.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateSprint"); err != nil {
		return err
	}

	if sprint.ID == "" {
		sprint.ID = uuid.NewString()
	}
	if err := sprint.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, exists := m.sprints[sprint.ID]; exists {
		return fmt.Errorf("sprint %s already exists", sprint.ID)
	}
	cp := *sprint
	m.sprints[sprint.ID] = &cp
	return nil
}

// UpdateSprint updates a sprint's fields, including its active flag
func (m *MemoryStorage) UpdateSprint(ctx context.Context, sprint *types.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("UpdateSprint"); err != nil {
		return err
	}

	if err := sprint.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, ok := m.sprints[sprint.ID]; !ok {
		return fmt.Errorf("sprint %s: %w", sprint.ID, storage.ErrNotFound)
	}
	cp := *sprint
	m.sprints[sprint.ID] = &cp
	return nil
}

// DeleteSprint removes the sprint record itself
func (m *MemoryStorage) DeleteSprint(ctx context.Context, sprintID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("DeleteSprint"); err != nil {
		return err
	}
	delete(m.sprints, sprintID)
	return nil
}

// ListIssues returns all issues of a project ordered by creation time
func (m *MemoryStorage) ListIssues(ctx context.Context, projectID string) ([]*types.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListIssues"); err != nil {
		return nil, err
	}

	var issues []*types.Issue
	for _, i := range m.issues {
		if i.ProjectID != projectID {
			continue
		}
		cp := *i
		if i.SprintID != nil {
			sid := *i.SprintID
			cp.SprintID = &sid
		}
		issues = append(issues, &cp)
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].ID < issues[j].ID
		}
		return issues[i].CreatedAt.Before(issues[j].CreatedAt)
	})
	return issues, nil
}

// CreateIssue stores a new issue and records its "Created" audit entry
func (m *MemoryStorage) CreateIssue(ctx context.Context, issue *types.Issue, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateIssue"); err != nil {
		return err
	}

	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = m.clock().UTC()
	}
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, exists := m.issues[issue.ID]; exists {
		return fmt.Errorf("issue %s already exists", issue.ID)
	}

	cp := *issue
	if issue.SprintID != nil {
		sid := *issue.SprintID
		cp.SprintID = &sid
	}
	m.issues[issue.ID] = &cp

	if actor == "" {
		actor = "System"
	}
	m.logs[issue.ID] = append(m.logs[issue.ID], &types.IssueLog{
		ID:        uuid.NewString(),
		IssueID:   issue.ID,
		Actor:     actor,
		Action:    types.ActionCreated,
		Details:   "Initial creation",
		Timestamp: issue.CreatedAt,
	})
	return nil
}

// UpdateIssue rewrites an issue's mutable fields
func (m *MemoryStorage) UpdateIssue(ctx context.Context, issue *types.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("UpdateIssue"); err != nil {
		return err
	}

	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, ok := m.issues[issue.ID]; !ok {
		return fmt.Errorf("issue %s: %w", issue.ID, storage.ErrNotFound)
	}
	cp := *issue
	if issue.SprintID != nil {
		sid := *issue.SprintID
		cp.SprintID = &sid
	}
	m.issues[issue.ID] = &cp
	return nil
}

// DeleteIssue removes an issue. Its logs are kept for audit purposes.
func (m *MemoryStorage) DeleteIssue(ctx context.Context, issueID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("DeleteIssue"); err != nil {
		return err
	}
	delete(m.issues, issueID)
	return nil
}

// ListLogs returns an issue's audit trail sorted by timestamp, ties kept in
// insertion order
func (m *MemoryStorage) ListLogs(ctx context.Context, issueID string) ([]*types.IssueLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListLogs"); err != nil {
		return nil, err
	}

	entries := m.logs[issueID]
	out := make([]*types.IssueLog, 0, len(entries))
	for _, l := range entries {
		cp := *l
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// AppendLog writes one immutable audit entry
func (m *MemoryStorage) AppendLog(ctx context.Context, entry *types.IssueLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("AppendLog"); err != nil {
		return err
	}

	if entry.IssueID == "" {
		return fmt.Errorf("issue_id is required")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Actor == "" {
		entry.Actor = "System"
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.clock().UTC()
	}
	cp := *entry
	m.logs[entry.IssueID] = append(m.logs[entry.IssueID], &cp)
	return nil
}

// Close is a no-op for the in-memory backend
func (m *MemoryStorage) Close() error {
	return nil
}

// Path returns an empty string; there is no backing file
func (m *MemoryStorage) Path() string {
	return ""
}
