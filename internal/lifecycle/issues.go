package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// DeleteSprint unassigns every issue referencing the sprint, then deletes
// the sprint record. Each unassignment is persisted before its "Unassigned"
// audit entry; re-running after a partial failure only touches issues still
// pointing at the sprint. Failed audit appends are reported as AuditError
// values joined onto the returned error; the deletion itself goes through.
func (m *Manager) DeleteSprint(ctx context.Context, sprintID string) error {
	sprint, err := m.findSprint(ctx, sprintID)
	if err != nil {
		return err
	}

	issues, err := m.store.ListIssues(ctx, sprint.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list issues: %w", err)
	}
	var auditErrs []error
	for _, issue := range issues {
		if issue.SprintID == nil || *issue.SprintID != sprint.ID {
			continue
		}
		issue.SprintID = nil
		if err := m.store.UpdateIssue(ctx, issue); err != nil {
			return fmt.Errorf("failed to unassign issue %s: %w", issue.ID, err)
		}
		entry := &types.IssueLog{
			IssueID: issue.ID,
			Actor:   m.actor,
			Action:  types.ActionUnassigned,
			Details: fmt.Sprintf("Removed from deleted sprint: %s", sprint.Name),
		}
		if err := m.store.AppendLog(ctx, entry); err != nil {
			auditErr := &AuditError{Action: types.ActionUnassigned, IssueID: issue.ID, Err: err}
			m.log.WithError(err).WithField("issue", issue.ID).Warn("unassign audit entry not recorded")
			auditErrs = append(auditErrs, auditErr)
		}
	}

	if err := m.store.DeleteSprint(ctx, sprint.ID); err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	m.log.WithField("sprint", sprint.Name).Info("sprint deleted")
	return errors.Join(auditErrs...)
}

// AssignIssue puts an issue into a sprint and records a "Planned" audit
// entry. Assigning to an archived sprint is permitted; re-triage into a
// closed sprint is a caller decision, not an error.
func (m *Manager) AssignIssue(ctx context.Context, issue *types.Issue, sprint *types.Sprint) error {
	issue.SprintID = &sprint.ID
	if err := m.store.UpdateIssue(ctx, issue); err != nil {
		return fmt.Errorf("failed to assign issue: %w", err)
	}

	entry := &types.IssueLog{
		IssueID: issue.ID,
		Actor:   m.actor,
		Action:  types.ActionPlanned,
		Details: fmt.Sprintf("Assigned to %s", sprint.Name),
	}
	if err := m.store.AppendLog(ctx, entry); err != nil {
		auditErr := &AuditError{Action: types.ActionPlanned, IssueID: issue.ID, Err: err}
		m.log.WithError(err).WithField("issue", issue.ID).Warn("plan audit entry not recorded")
		return auditErr
	}
	return nil
}

// ChangeStatus moves an issue to a new workflow status and appends the
// "Status Changed" entry that status reconstruction replays. The entry is
// written only after the issue update is durable.
func (m *Manager) ChangeStatus(ctx context.Context, issue *types.Issue, newStatus types.Status) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	oldStatus := issue.Status
	if oldStatus == newStatus {
		return nil
	}

	issue.Status = newStatus
	if err := m.store.UpdateIssue(ctx, issue); err != nil {
		issue.Status = oldStatus
		return fmt.Errorf("failed to update issue: %w", err)
	}

	field := types.FieldStatus
	oldValue := string(oldStatus)
	newValue := string(newStatus)
	entry := &types.IssueLog{
		IssueID:      issue.ID,
		Actor:        m.actor,
		Action:       types.ActionStatusChanged,
		Details:      fmt.Sprintf("From %s to %s", oldStatus, newStatus),
		FieldChanged: &field,
		OldValue:     &oldValue,
		NewValue:     &newValue,
	}
	if err := m.store.AppendLog(ctx, entry); err != nil {
		auditErr := &AuditError{Action: types.ActionStatusChanged, IssueID: issue.ID, Err: err}
		m.log.WithError(err).WithField("issue", issue.ID).Warn("status audit entry not recorded")
		return auditErr
	}

	m.log.WithFields(logrus.Fields{"issue": issue.ID, "from": oldStatus, "to": newStatus}).Debug("status changed")
	return nil
}

// CreateIssue creates a new issue with board defaults: status from the
// target column, issue type derived from the category, and the current
// sprint selection carried over.
func (m *Manager) CreateIssue(ctx context.Context, projectID string, category types.Category, status types.Status, sprintID *string) (*types.Issue, error) {
	if status == "" {
		status = types.StatusOpen
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	issue := &types.Issue{
		ProjectID:        projectID,
		SprintID:         sprintID,
		ProgramComponent: "New Component",
		Description:      "Descriptive Title",
		Category:         category,
		Status:           status,
		IssueType:        types.DefaultTypeForCategory(category),
		Priority:         1,
	}
	if err := issue.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := m.store.CreateIssue(ctx, issue, m.actor); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// EditIssue rewrites an issue's fields and appends an "Edited" audit entry.
func (m *Manager) EditIssue(ctx context.Context, issue *types.Issue) error {
	if err := m.store.UpdateIssue(ctx, issue); err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	entry := &types.IssueLog{
		IssueID: issue.ID,
		Actor:   m.actor,
		Action:  types.ActionEdited,
		Details: "Fields updated",
	}
	if err := m.store.AppendLog(ctx, entry); err != nil {
		auditErr := &AuditError{Action: types.ActionEdited, IssueID: issue.ID, Err: err}
		m.log.WithError(err).WithField("issue", issue.ID).Warn("edit audit entry not recorded")
		return auditErr
	}
	return nil
}
