package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// ListSprints returns all sprints of a project ordered by start date
func (s *SQLiteStorage) ListSprints(ctx context.Context, projectID string) ([]*types.Sprint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, start_date, end_date, is_active
		FROM sprints
		WHERE project_id = ?
		ORDER BY start_date, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sprints []*types.Sprint
	for rows.Next() {
		var sp types.Sprint
		var start, end string
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &start, &end, &sp.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		if sp.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if sp.EndDate, err = parseDate(end); err != nil {
			return nil, err
		}
		sprints = append(sprints, &sp)
	}
	return sprints, rows.Err()
}

// CreateSprint persists a new sprint. The ID is generated when unset.
func (s *SQLiteStorage) CreateSprint(ctx context.Context, sprint *types.Sprint) error {
	if sprint.ID == "" {
		sprint.ID = uuid.NewString()
	}
	if err := sprint.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sprints (id, project_id, name, start_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sprint.ID, sprint.ProjectID, sprint.Name, formatDate(sprint.StartDate), formatDate(sprint.EndDate), sprint.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}
	return nil
}

// UpdateSprint updates a sprint's fields, including its active flag
func (s *SQLiteStorage) UpdateSprint(ctx context.Context, sprint *types.Sprint) error {
	if err := sprint.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sprints SET name = ?, start_date = ?, end_date = ?, is_active = ? WHERE id = ?
	`, sprint.Name, formatDate(sprint.StartDate), formatDate(sprint.EndDate), sprint.IsActive, sprint.ID)
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sprint %s: %w", sprint.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteSprint removes the sprint record itself. Unassigning the sprint's
// issues is the lifecycle manager's responsibility so a partially applied
// delete can be re-run safely.
func (s *SQLiteStorage) DeleteSprint(ctx context.Context, sprintID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = ?`, sprintID); err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	return nil
}
