package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// ListLogs returns the audit trail for an issue in ascending timestamp
// order. Ties are broken by insertion order (rowid), which the status
// reconstructor relies on.
func (s *SQLiteStorage) ListLogs(ctx context.Context, issueID string) ([]*types.IssueLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, issue_id, actor, action, details, field_changed, old_value, new_value, timestamp
		FROM issue_logs
		WHERE issue_id = ?
		ORDER BY timestamp, rowid
	`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []*types.IssueLog
	for rows.Next() {
		var l types.IssueLog
		var fieldChanged, oldValue, newValue sql.NullString
		err := rows.Scan(
			&l.ID, &l.IssueID, &l.Actor, &l.Action, &l.Details,
			&fieldChanged, &oldValue, &newValue, &l.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		l.FieldChanged = stringPtr(fieldChanged)
		l.OldValue = stringPtr(oldValue)
		l.NewValue = stringPtr(newValue)
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// AppendLog writes one immutable audit entry
func (s *SQLiteStorage) AppendLog(ctx context.Context, entry *types.IssueLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Actor == "" {
		entry.Actor = "System"
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.IssueID == "" {
		return fmt.Errorf("issue_id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issue_logs (id, issue_id, actor, action, details, field_changed, old_value, new_value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.IssueID, entry.Actor, entry.Action, entry.Details,
		nullString(entry.FieldChanged), nullString(entry.OldValue), nullString(entry.NewValue), entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}
