// Package lifecycle owns sprint state transitions, issue-sprint assignment
// and the completion rollover, and emits the audit entries the reporting
// layer replays.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// Named defaults for the rollover algorithm. The successor sprint starts the
// day after the completed sprint ends and runs for the configured length.
const (
	DefaultSprintLengthDays = 14
	RolloverGapDays         = 1
)

// AuditError reports that a primary mutation succeeded but its audit entry
// could not be appended. The domain state is correct; the trail is
// incomplete. Callers should surface it, not roll back.
type AuditError struct {
	Action  string
	IssueID string
	Err     error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("audit entry %q for issue %s not recorded: %v", e.Action, e.IssueID, e.Err)
}

func (e *AuditError) Unwrap() error { return e.Err }

// Manager coordinates sprint and issue lifecycle operations against a
// repository. Operations are sequential per call; a per-project lock
// serializes sprint creation so the "one active sprint" invariant cannot be
// violated by concurrent planners.
type Manager struct {
	store        storage.Storage
	log          *logrus.Logger
	actor        string
	sprintLength int
	now          func() time.Time

	mu           sync.Mutex
	projectLocks map[string]*sync.Mutex
}

// Option configures a Manager
type Option func(*Manager)

// WithActor sets the actor name recorded on audit entries
func WithActor(actor string) Option {
	return func(m *Manager) { m.actor = actor }
}

// WithLogger sets the structured logger
func WithLogger(log *logrus.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithSprintLength overrides the default successor sprint length in days
func WithSprintLength(days int) Option {
	return func(m *Manager) {
		if days > 0 {
			m.sprintLength = days
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a lifecycle manager
func New(store storage.Storage, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		log:          logrus.New(),
		actor:        "System",
		sprintLength: DefaultSprintLengthDays,
		now:          time.Now,
		projectLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (m *Manager) projectLock(projectID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.projectLocks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		m.projectLocks[projectID] = lock
	}
	return lock
}

// PlanSprint creates a new active sprint, archiving every sprint of the
// project that is still active. Each archive is persisted individually; a
// failure aborts before the new sprint is created.
func (m *Manager) PlanSprint(ctx context.Context, projectID, name string, start, end time.Time) (*types.Sprint, error) {
	sprint := &types.Sprint{
		ProjectID: projectID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if err := sprint.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	lock := m.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	sprints, err := m.store.ListSprints(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	for _, existing := range sprints {
		if !existing.IsActive {
			continue
		}
		existing.IsActive = false
		if err := m.store.UpdateSprint(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to archive sprint %s: %w", existing.Name, err)
		}
		m.log.WithFields(logrus.Fields{"sprint": existing.Name, "project": projectID}).Debug("archived active sprint")
	}

	if err := m.store.CreateSprint(ctx, sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}
	m.log.WithFields(logrus.Fields{"sprint": sprint.Name, "project": projectID}).Info("sprint planned")
	return sprint, nil
}

// EditSprint updates a sprint's name and date range in place. Sprint edits
// are not audit-logged; only issue field changes are.
func (m *Manager) EditSprint(ctx context.Context, sprint *types.Sprint) error {
	if err := sprint.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := m.store.UpdateSprint(ctx, sprint); err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	return nil
}

// DefaultSprintName numbers a new sprint from the running sprint count.
func DefaultSprintName(existing int) string {
	return fmt.Sprintf("Sprint %d", existing+1)
}

// CurrentSprint picks the sprint a board should select by default: the
// active sprint covering today, else the earliest active sprint, else nil.
func (m *Manager) CurrentSprint(sprints []*types.Sprint) *types.Sprint {
	now := m.now()
	var firstActive *types.Sprint
	for _, s := range sprints {
		if !s.IsActive {
			continue
		}
		if s.IsCurrentAt(now) {
			return s
		}
		if firstActive == nil {
			firstActive = s
		}
	}
	return firstActive
}
