package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// CompleteSprint archives the sprint and rolls every unfinished issue over
// to a successor, returning the number of issues moved.
//
// The successor is the earliest active sprint of the project starting on or
// after the completed sprint's end date; when none exists one is synthesized
// starting the next day. Each reassignment is persisted individually with a
// "Rollover" audit entry, so a partial failure can be re-run: only issues
// still pointing at the completed sprint are affected, and an existing
// satisfying successor is reused rather than duplicated.
//
// Audit appends are best-effort after the durable issue update; failures are
// reported as AuditError values joined onto the returned error while the
// rollover itself keeps going.
func (m *Manager) CompleteSprint(ctx context.Context, sprintID string) (int, error) {
	sprint, err := m.findSprint(ctx, sprintID)
	if err != nil {
		return 0, err
	}
	// An already-archived sprint is a resume of an interrupted completion,
	// not an error: the rollover below only touches issues still pointing at
	// it.
	if sprint.IsActive {
		if !sprint.CanBeCompletedAt(m.now()) {
			return 0, fmt.Errorf("sprint %s cannot be completed: it must be active and past its end date", sprint.Name)
		}
		sprint.IsActive = false
		if err := m.store.UpdateSprint(ctx, sprint); err != nil {
			return 0, fmt.Errorf("failed to archive sprint: %w", err)
		}
	}

	issues, err := m.store.ListIssues(ctx, sprint.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to list issues: %w", err)
	}
	var unfinished []*types.Issue
	for _, issue := range issues {
		if issue.SprintID == nil || *issue.SprintID != sprint.ID {
			continue
		}
		if types.NormalizeStatus(string(issue.Status)) == types.StatusFinished {
			continue
		}
		unfinished = append(unfinished, issue)
	}

	successor, err := m.findOrCreateSuccessor(ctx, sprint)
	if err != nil {
		return 0, err
	}

	var auditErrs []error
	moved := 0
	for _, issue := range unfinished {
		issue.SprintID = &successor.ID
		if err := m.store.UpdateIssue(ctx, issue); err != nil {
			return moved, fmt.Errorf("failed to roll over issue %s: %w", issue.ID, err)
		}
		moved++

		entry := &types.IssueLog{
			IssueID: issue.ID,
			Actor:   m.actor,
			Action:  types.ActionRollover,
			Details: fmt.Sprintf("Moved from %s to %s (Unfinished)", sprint.Name, successor.Name),
		}
		if err := m.store.AppendLog(ctx, entry); err != nil {
			auditErr := &AuditError{Action: types.ActionRollover, IssueID: issue.ID, Err: err}
			m.log.WithError(err).WithField("issue", issue.ID).Warn("rollover audit entry not recorded")
			auditErrs = append(auditErrs, auditErr)
		}
	}

	m.log.WithFields(logrus.Fields{
		"sprint":    sprint.Name,
		"successor": successor.Name,
		"moved":     moved,
	}).Info("sprint completed")

	return moved, errors.Join(auditErrs...)
}

// findOrCreateSuccessor returns the chronologically-next active sprint whose
// start date is on or after the completed sprint's end date, creating one
// when no candidate exists.
func (m *Manager) findOrCreateSuccessor(ctx context.Context, completed *types.Sprint) (*types.Sprint, error) {
	sprints, err := m.store.ListSprints(ctx, completed.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}

	var successor *types.Sprint
	for _, s := range sprints {
		if !s.IsActive || s.ID == completed.ID {
			continue
		}
		// Eligibility compares calendar dates; start and end may carry a
		// time-of-day when they came from a clock rather than a date flag.
		if dateOf(s.StartDate).Before(dateOf(completed.EndDate)) {
			continue
		}
		if successor == nil || s.StartDate.Before(successor.StartDate) {
			successor = s
		}
	}
	if successor != nil {
		return successor, nil
	}

	start := completed.EndDate.AddDate(0, 0, RolloverGapDays)
	successor = &types.Sprint{
		ProjectID: completed.ProjectID,
		Name:      DefaultSprintName(len(sprints)),
		StartDate: start,
		EndDate:   start.AddDate(0, 0, m.sprintLength),
		IsActive:  true,
	}
	if err := m.store.CreateSprint(ctx, successor); err != nil {
		return nil, fmt.Errorf("failed to create successor sprint: %w", err)
	}
	m.log.WithField("sprint", successor.Name).Info("successor sprint created")
	return successor, nil
}

func (m *Manager) findSprint(ctx context.Context, sprintID string) (*types.Sprint, error) {
	projects, err := m.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		sprints, err := m.store.ListSprints(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list sprints: %w", err)
		}
		for _, s := range sprints {
			if s.ID == sprintID {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("sprint %s not found", sprintID)
}
