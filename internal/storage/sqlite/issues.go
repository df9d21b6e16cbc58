package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// ListIssues returns all issues of a project ordered by creation time
func (s *SQLiteStorage) ListIssues(ctx context.Context, projectID string) ([]*types.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, sprint_id, program_component, sub_components,
		       description, issue_type, category, status, priority, created_at
		FROM issues
		WHERE project_id = ?
		ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []*types.Issue
	for rows.Next() {
		var i types.Issue
		var sprintID sql.NullString
		err := rows.Scan(
			&i.ID, &i.ProjectID, &sprintID, &i.ProgramComponent, &i.SubComponents,
			&i.Description, &i.IssueType, &i.Category, &i.Status, &i.Priority, &i.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		i.SprintID = stringPtr(sprintID)
		issues = append(issues, &i)
	}
	return issues, rows.Err()
}

// CreateIssue inserts a new issue and its "Created" audit entry in one
// transaction, so the log entry is never visible before the issue is durable.
func (s *SQLiteStorage) CreateIssue(ctx context.Context, issue *types.Issue, actor string) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now().UTC()
	}
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO issues (id, project_id, sprint_id, program_component, sub_components,
		                    description, issue_type, category, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, issue.ID, issue.ProjectID, nullString(issue.SprintID), issue.ProgramComponent,
		issue.SubComponents, issue.Description, issue.IssueType, issue.Category,
		issue.Status, issue.Priority, issue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	if actor == "" {
		actor = "System"
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO issue_logs (id, issue_id, actor, action, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), issue.ID, actor, types.ActionCreated, "Initial creation", issue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record creation: %w", err)
	}

	return tx.Commit()
}

// UpdateIssue rewrites an issue's mutable fields
func (s *SQLiteStorage) UpdateIssue(ctx context.Context, issue *types.Issue) error {
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE issues
		SET sprint_id = ?, program_component = ?, sub_components = ?, description = ?,
		    issue_type = ?, category = ?, status = ?, priority = ?
		WHERE id = ?
	`, nullString(issue.SprintID), issue.ProgramComponent, issue.SubComponents,
		issue.Description, issue.IssueType, issue.Category, issue.Status, issue.Priority, issue.ID)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("issue %s: %w", issue.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteIssue removes an issue. Its logs are kept; orphaned logs are
// tolerated for audit purposes.
func (s *SQLiteStorage) DeleteIssue(ctx context.Context, issueID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, issueID); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	return nil
}
