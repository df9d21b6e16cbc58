// Package types defines the core domain model: projects, sprints, issues,
// and the append-only per-issue audit log.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Project groups sprints and issues under a single product.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Sprint is a time-boxed iteration within a project. Start and end dates are
// calendar dates (inclusive); comparisons ignore the time-of-day component.
type Sprint struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// Validate checks if the sprint has valid field values
func (s *Sprint) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if s.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if dateOf(s.EndDate).Before(dateOf(s.StartDate)) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	return nil
}

// IsCurrent reports whether today falls within the sprint's date range.
func (s *Sprint) IsCurrent() bool {
	return s.IsCurrentAt(time.Now())
}

// IsCurrentAt reports whether the given instant's calendar date falls within
// the sprint's date range.
func (s *Sprint) IsCurrentAt(now time.Time) bool {
	today := dateOf(now)
	return !today.Before(dateOf(s.StartDate)) && !today.After(dateOf(s.EndDate))
}

// CanBeCompleted reports whether the sprint is active and past its end date.
func (s *Sprint) CanBeCompleted() bool {
	return s.CanBeCompletedAt(time.Now())
}

// CanBeCompletedAt is CanBeCompleted evaluated against an explicit clock.
func (s *Sprint) CanBeCompletedAt(now time.Time) bool {
	return s.IsActive && dateOf(now).After(dateOf(s.EndDate))
}

// IsPast reports whether the sprint has been archived.
func (s *Sprint) IsPast() bool {
	return !s.IsActive
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Issue represents a trackable work item. Category and Status are independent
// axes: category picks the board, status picks the column.
type Issue struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	SprintID         *string   `json:"sprint_id,omitempty"` // nil = unplanned pool
	ProgramComponent string    `json:"program_component"`
	SubComponents    string    `json:"sub_components"` // semicolon separated
	Description      string    `json:"description"`
	IssueType        IssueType `json:"type"`
	Category         Category  `json:"category"`
	Status           Status    `json:"status"`
	Priority         int       `json:"priority"`
	CreatedAt        time.Time `json:"created_at"`
}

// Validate checks if the issue has valid field values
func (i *Issue) Validate() error {
	if i.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !i.IssueType.IsValid() {
		return fmt.Errorf("invalid issue type: %s", i.IssueType)
	}
	if !i.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", i.Category)
	}
	return nil
}

// SubComponentList splits the semicolon-separated sub-component field,
// dropping empty entries.
func (i *Issue) SubComponentList() []string {
	if i.SubComponents == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(i.SubComponents, ";") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinSubComponents persists a sub-component list back into the single
// semicolon-separated text field, dropping empty entries.
func JoinSubComponents(subs []string) string {
	var kept []string
	for _, s := range subs {
		if s == "" {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, ";")
}

// FormattedTitle renders "Program / Sub1 / Sub2 : Description".
func (i *Issue) FormattedTitle() string {
	subs := i.SubComponentList()
	subPart := ""
	if len(subs) > 0 {
		subPart = " / " + strings.Join(subs, " / ")
	}
	return fmt.Sprintf("%s%s : %s", i.ProgramComponent, subPart, i.Description)
}

// Age renders the issue's age as "2d up", "3h up" or "5m up".
func (i *Issue) Age(now time.Time) string {
	age := now.Sub(i.CreatedAt)
	switch {
	case age >= 24*time.Hour:
		return fmt.Sprintf("%dd up", int(age.Hours())/24)
	case age >= time.Hour:
		return fmt.Sprintf("%dh up", int(age.Hours()))
	default:
		return fmt.Sprintf("%dm up", int(age.Minutes()))
	}
}

// Status represents the workflow column of an issue
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusInTesting  Status = "In Testing"
	StatusFinished   Status = "Finished"

	// StatusNotCreated is a reconstruction sentinel for instants before the
	// issue existed. It is never persisted and is excluded from aggregates.
	StatusNotCreated Status = "NotCreated"
)

// IsValid checks if the status value is a persistable workflow status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusInTesting, StatusFinished:
		return true
	}
	return false
}

// NormalizeStatus maps free-form status text into a workflow status,
// case-insensitively. Legacy aliases collapse into their bucket ("Testing"
// into In Testing, "Done" into Finished); anything unrecognized defaults to
// Open rather than being rejected.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return StatusOpen
	case "in progress":
		return StatusInProgress
	case "in testing", "testing":
		return StatusInTesting
	case "finished", "done":
		return StatusFinished
	default:
		return StatusOpen
	}
}

// Category is the coarse board grouping, independent of workflow status
type Category string

const (
	CategoryBacklog  Category = "Backlog"
	CategoryPipeline Category = "Pipeline"
	CategoryHub      Category = "Hub"
)

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryBacklog, CategoryPipeline, CategoryHub:
		return true
	}
	return false
}

// Equals compares categories case-insensitively.
func (c Category) Equals(other string) bool {
	return strings.EqualFold(string(c), other)
}

// IssueType categorizes the kind of work
type IssueType string

const (
	TypeBug     IssueType = "Bug"
	TypeFeature IssueType = "Feature"
	TypeIdea    IssueType = "Idea"
	TypeStory   IssueType = "Story"
)

// IsValid checks if the issue type value is valid
func (t IssueType) IsValid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeIdea, TypeStory:
		return true
	}
	return false
}

// DefaultTypeForCategory returns the issue type new issues get when created
// on a given board.
func DefaultTypeForCategory(c Category) IssueType {
	switch c {
	case CategoryBacklog:
		return TypeBug
	case CategoryPipeline:
		return TypeFeature
	default:
		return TypeIdea
	}
}

// IssueLog is an immutable audit trail entry. Entries for one issue form a
// total order by timestamp; FieldChanged is nil for non-field events such as
// creation notes, and "Status" entries are the authoritative source for
// historical status reconstruction.
type IssueLog struct {
	ID           string    `json:"id"`
	IssueID      string    `json:"issue_id"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
	Details      string    `json:"details"`
	FieldChanged *string   `json:"field_changed,omitempty"`
	OldValue     *string   `json:"old_value,omitempty"`
	NewValue     *string   `json:"new_value,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Log action labels
const (
	ActionCreated       = "Created"
	ActionEdited        = "Edited"
	ActionStatusChanged = "Status Changed"
	ActionPlanned       = "Planned"
	ActionUnassigned    = "Unassigned"
	ActionRollover      = "Rollover"
)

// FieldStatus is the FieldChanged value for status-change entries.
const FieldStatus = "Status"

// IsStatusChange reports whether the entry records a workflow status change.
// The field name comparison is case-insensitive.
func (l *IssueLog) IsStatusChange() bool {
	return l.FieldChanged != nil && strings.EqualFold(*l.FieldChanged, FieldStatus)
}
