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

// ListProjects returns all projects ordered by creation time
func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, logo_url, created_at
		FROM projects
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*types.Project
	for rows.Next() {
		var p types.Project
		var logoURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &logoURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.LogoURL = stringPtr(logoURL)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// CreateProject creates a new project
func (s *SQLiteStorage) CreateProject(ctx context.Context, name, description string, logoURL *string) (*types.Project, error) {
	p := &types.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		LogoURL:     logoURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, logo_url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, nullString(p.LogoURL), p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// UpdateProject updates a project's mutable fields
func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *types.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, logo_url = ? WHERE id = ?
	`, project.Name, project.Description, nullString(project.LogoURL), project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("project %s: %w", project.ID, storage.ErrNotFound)
	}
	return nil
}
