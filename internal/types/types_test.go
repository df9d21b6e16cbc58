package types

import (
	"testing"
	"time"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Status
	}{
		{"exact open", "Open", StatusOpen},
		{"lowercase open", "open", StatusOpen},
		{"in progress", "In Progress", StatusInProgress},
		{"uppercase in progress", "IN PROGRESS", StatusInProgress},
		{"in testing", "In Testing", StatusInTesting},
		{"testing alias", "Testing", StatusInTesting},
		{"finished", "Finished", StatusFinished},
		{"done alias", "done", StatusFinished},
		{"whitespace", "  Open  ", StatusOpen},
		{"unrecognized defaults to open", "Blocked", StatusOpen},
		{"empty defaults to open", "", StatusOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSubComponentList(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "Renderer", []string{"Renderer"}},
		{"multiple", "Add New Game;Add new Stadium", []string{"Add New Game", "Add new Stadium"}},
		{"empty entries dropped", "a;;b;", []string{"a", "b"}},
		{"only separators", ";;", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := Issue{SubComponents: tt.field}
			got := issue.SubComponentList()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestJoinSubComponents(t *testing.T) {
	if got := JoinSubComponents([]string{"a", "", "b"}); got != "a;b" {
		t.Errorf("got %q, want %q", got, "a;b")
	}
	if got := JoinSubComponents(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestFormattedTitle(t *testing.T) {
	issue := Issue{
		ProgramComponent: "Core",
		SubComponents:    "Renderer;Shaders",
		Description:      "Raytracing Refactor",
	}
	want := "Core / Renderer / Shaders : Raytracing Refactor"
	if got := issue.FormattedTitle(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	bare := Issue{ProgramComponent: "Game", Description: "Rounded corners"}
	if got := bare.FormattedTitle(); got != "Game : Rounded corners" {
		t.Errorf("got %q", got)
	}
}

func TestIssueAge(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"days", now.Add(-49 * time.Hour), "2d up"},
		{"hours", now.Add(-3 * time.Hour), "3h up"},
		{"minutes", now.Add(-5 * time.Minute), "5m up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := Issue{CreatedAt: tt.created}
			if got := issue.Age(now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSprintDateSemantics(t *testing.T) {
	sprint := Sprint{
		ID:        "s1",
		ProjectID: "p1",
		Name:      "Sprint 1",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}

	t.Run("current inside range", func(t *testing.T) {
		if !sprint.IsCurrentAt(time.Date(2024, 1, 7, 15, 30, 0, 0, time.UTC)) {
			t.Error("expected sprint to be current mid-range")
		}
	})
	t.Run("current on boundary dates", func(t *testing.T) {
		if !sprint.IsCurrentAt(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)) {
			t.Error("expected sprint to be current on start date")
		}
		if !sprint.IsCurrentAt(time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC)) {
			t.Error("expected sprint to be current on end date")
		}
	})
	t.Run("not current outside range", func(t *testing.T) {
		if sprint.IsCurrentAt(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
			t.Error("expected sprint not current after end date")
		}
	})
	t.Run("completable only past end date", func(t *testing.T) {
		if sprint.CanBeCompletedAt(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)) {
			t.Error("not completable on the end date itself")
		}
		if !sprint.CanBeCompletedAt(time.Date(2024, 1, 15, 0, 0, 1, 0, time.UTC)) {
			t.Error("completable the day after the end date")
		}
	})
	t.Run("archived sprint never completable", func(t *testing.T) {
		archived := sprint
		archived.IsActive = false
		if archived.CanBeCompletedAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
			t.Error("archived sprint must not be completable")
		}
	})
}

func TestSprintValidate(t *testing.T) {
	sprint := Sprint{
		ProjectID: "p1",
		Name:      "Sprint 1",
		StartDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := sprint.Validate(); err == nil {
		t.Error("expected error for end before start")
	}

	sprint.EndDate = sprint.StartDate
	if err := sprint.Validate(); err != nil {
		t.Errorf("single-day sprint should be valid: %v", err)
	}

	sprint.Name = "  "
	if err := sprint.Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestDefaultTypeForCategory(t *testing.T) {
	tests := []struct {
		category Category
		want     IssueType
	}{
		{CategoryBacklog, TypeBug},
		{CategoryPipeline, TypeFeature},
		{CategoryHub, TypeIdea},
	}
	for _, tt := range tests {
		if got := DefaultTypeForCategory(tt.category); got != tt.want {
			t.Errorf("DefaultTypeForCategory(%s) = %s, want %s", tt.category, got, tt.want)
		}
	}
}

func TestIsStatusChange(t *testing.T) {
	field := "status"
	entry := IssueLog{FieldChanged: &field}
	if !entry.IsStatusChange() {
		t.Error("field name match must be case-insensitive")
	}

	other := "Priority"
	entry.FieldChanged = &other
	if entry.IsStatusChange() {
		t.Error("non-status field is not a status change")
	}

	entry.FieldChanged = nil
	if entry.IsStatusChange() {
		t.Error("nil field is not a status change")
	}
}
