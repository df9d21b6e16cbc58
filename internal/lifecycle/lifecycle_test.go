package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tknoepfli/sleipnir/internal/storage/memory"
	"github.com/tknoepfli/sleipnir/internal/types"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestManager(t *testing.T, store *memory.MemoryStorage, now time.Time) *Manager {
	t.Helper()
	return New(store,
		WithLogger(quietLogger()),
		WithActor("tester"),
		WithClock(func() time.Time { return now }),
	)
}

func mustProject(t *testing.T, store *memory.MemoryStorage) *types.Project {
	t.Helper()
	p, err := store.CreateProject(context.Background(), "Elysium Engine", "", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func mustIssue(t *testing.T, store *memory.MemoryStorage, projectID string, sprintID *string, status types.Status) *types.Issue {
	t.Helper()
	issue := &types.Issue{
		ProjectID:   projectID,
		SprintID:    sprintID,
		Description: "Collision Overhaul",
		Category:    types.CategoryPipeline,
		IssueType:   types.TypeStory,
		Status:      status,
		CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateIssue(context.Background(), issue, "tester"); err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	return issue
}

func TestPlanSprintArchivesActives(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	if !s1.IsActive {
		t.Fatal("new sprint must be active")
	}

	_, err = m.PlanSprint(ctx, p.ID, "Sprint 2",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}

	sprints, err := store.ListSprints(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListSprints: %v", err)
	}
	active := 0
	for _, s := range sprints {
		if s.IsActive {
			active++
			if s.Name != "Sprint 2" {
				t.Errorf("active sprint is %q, want Sprint 2", s.Name)
			}
		}
	}
	if active != 1 {
		t.Errorf("got %d active sprints, want 1", active)
	}
}

func TestPlanSprintConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.PlanSprint(ctx, p.ID, fmt.Sprintf("Sprint %d", i+1),
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*14),
				time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*14))
			if err != nil {
				t.Errorf("PlanSprint: %v", err)
			}
		}(i)
	}
	wg.Wait()

	sprints, err := store.ListSprints(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListSprints: %v", err)
	}
	if len(sprints) != 10 {
		t.Fatalf("got %d sprints, want 10", len(sprints))
	}
	active := 0
	for _, s := range sprints {
		if s.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("got %d active sprints, want exactly 1", active)
	}
}

func TestPlanSprintRejectsInvalidRange(t *testing.T) {
	store := memory.New()
	m := newTestManager(t, store, time.Now())
	p := mustProject(t, store)

	_, err := m.PlanSprint(context.Background(), p.ID, "Backwards",
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected validation error for end before start")
	}
}

func TestCompleteSprintRollover(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}

	unfinished := mustIssue(t, store, p.ID, &s1.ID, types.StatusInProgress)
	finished := mustIssue(t, store, p.ID, &s1.ID, types.StatusFinished)
	legacy := mustIssue(t, store, p.ID, &s1.ID, types.Status("Done"))

	moved, err := m.CompleteSprint(ctx, s1.ID)
	if err != nil {
		t.Fatalf("CompleteSprint: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1 (Finished and legacy Done stay behind)", moved)
	}

	sprints, err := store.ListSprints(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListSprints: %v", err)
	}
	if len(sprints) != 2 {
		t.Fatalf("got %d sprints, want 2", len(sprints))
	}

	var successor *types.Sprint
	for _, s := range sprints {
		switch s.ID {
		case s1.ID:
			if s.IsActive {
				t.Error("completed sprint must be archived")
			}
		default:
			successor = s
		}
	}
	if successor == nil {
		t.Fatal("no successor sprint created")
	}
	if successor.Name != "Sprint 2" {
		t.Errorf("successor name = %q, want Sprint 2", successor.Name)
	}
	if !successor.StartDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("successor starts %s, want 2024-01-15", successor.StartDate)
	}
	if !successor.EndDate.Equal(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("successor ends %s, want 2024-01-29", successor.EndDate)
	}
	if !successor.IsActive {
		t.Error("successor must be active")
	}

	issues, _ := store.ListIssues(ctx, p.ID)
	for _, i := range issues {
		switch i.ID {
		case unfinished.ID:
			if i.SprintID == nil || *i.SprintID != successor.ID {
				t.Error("unfinished issue not moved to the successor")
			}
		case finished.ID, legacy.ID:
			if i.SprintID == nil || *i.SprintID != s1.ID {
				t.Error("finished issue must stay in the completed sprint")
			}
		}
	}

	logs, _ := store.ListLogs(ctx, unfinished.ID)
	var rollovers []*types.IssueLog
	for _, l := range logs {
		if l.Action == types.ActionRollover {
			rollovers = append(rollovers, l)
		}
	}
	if len(rollovers) != 1 {
		t.Fatalf("got %d rollover entries, want 1", len(rollovers))
	}
	if want := "Moved from Sprint 1 to Sprint 2 (Unfinished)"; rollovers[0].Details != want {
		t.Errorf("rollover details = %q, want %q", rollovers[0].Details, want)
	}
	if rollovers[0].Actor != "tester" {
		t.Errorf("rollover actor = %q, want tester", rollovers[0].Actor)
	}
}

func TestCompleteSprintReusesSuccessor(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	s1 := &types.Sprint{
		ProjectID: p.ID, Name: "Sprint 1",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	s2 := &types.Sprint{
		ProjectID: p.ID, Name: "Sprint 2",
		StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	for _, s := range []*types.Sprint{s1, s2} {
		if err := store.CreateSprint(ctx, s); err != nil {
			t.Fatalf("CreateSprint: %v", err)
		}
	}
	issue := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)

	if _, err := m.CompleteSprint(ctx, s1.ID); err != nil {
		t.Fatalf("CompleteSprint: %v", err)
	}

	sprints, _ := store.ListSprints(ctx, p.ID)
	if len(sprints) != 2 {
		t.Errorf("got %d sprints, want 2 (existing successor reused)", len(sprints))
	}
	issues, _ := store.ListIssues(ctx, p.ID)
	for _, i := range issues {
		if i.ID == issue.ID && (i.SprintID == nil || *i.SprintID != s2.ID) {
			t.Error("issue not moved into the existing successor")
		}
	}
}

func TestCompleteSprintSuccessorComparesCalendarDates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	// Planned from a clock, so the end date carries a time-of-day. The
	// successor starts on the same calendar day at midnight and must still
	// qualify.
	s1 := &types.Sprint{
		ProjectID: p.ID, Name: "Sprint 1",
		StartDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 15, 30, 0, 0, time.UTC),
		IsActive:  true,
	}
	s2 := &types.Sprint{
		ProjectID: p.ID, Name: "Sprint 2",
		StartDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	for _, s := range []*types.Sprint{s1, s2} {
		if err := store.CreateSprint(ctx, s); err != nil {
			t.Fatalf("CreateSprint: %v", err)
		}
	}
	issue := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)

	if _, err := m.CompleteSprint(ctx, s1.ID); err != nil {
		t.Fatalf("CompleteSprint: %v", err)
	}

	sprints, _ := store.ListSprints(ctx, p.ID)
	if len(sprints) != 2 {
		t.Errorf("got %d sprints, want 2 (same-day successor must be reused, not duplicated)", len(sprints))
	}
	issues, _ := store.ListIssues(ctx, p.ID)
	for _, i := range issues {
		if i.ID == issue.ID && (i.SprintID == nil || *i.SprintID != s2.ID) {
			t.Error("issue not moved into the same-day successor")
		}
	}
}

func TestCompleteSprintRerunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 15, 0, 0, 1, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	issue := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)

	if moved, err := m.CompleteSprint(ctx, s1.ID); err != nil || moved != 1 {
		t.Fatalf("first run: moved=%d err=%v, want 1/nil", moved, err)
	}

	// Re-running on an already archived sprint touches nothing further.
	moved, err := m.CompleteSprint(ctx, s1.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if moved != 0 {
		t.Errorf("second run moved = %d, want 0", moved)
	}

	sprints, _ := store.ListSprints(ctx, p.ID)
	if len(sprints) != 2 {
		t.Errorf("got %d sprints, want 2 (no duplicate successor)", len(sprints))
	}
	logs, _ := store.ListLogs(ctx, issue.ID)
	rollovers := 0
	for _, l := range logs {
		if l.Action == types.ActionRollover {
			rollovers++
		}
	}
	if rollovers != 1 {
		t.Errorf("got %d rollover entries, want 1", rollovers)
	}
}

func TestCompleteSprintBeforeEndDate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}

	if _, err := m.CompleteSprint(ctx, s1.ID); err == nil {
		t.Fatal("expected error completing a sprint before its end date")
	}
}

func TestCompleteSprintAuditFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	m := newTestManager(t, store, now)
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	issue := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)

	store.FailNext("AppendLog", fmt.Errorf("disk full"))
	moved, err := m.CompleteSprint(ctx, s1.ID)
	if moved != 1 {
		t.Errorf("moved = %d, want 1 (reassignment is durable before the audit append)", moved)
	}
	var auditErr *AuditError
	if !errors.As(err, &auditErr) {
		t.Fatalf("err = %v, want AuditError", err)
	}
	if auditErr.IssueID != issue.ID || auditErr.Action != types.ActionRollover {
		t.Errorf("audit error = %+v", auditErr)
	}
}

func TestDeleteSprintUnassignsIssues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	a := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)
	b := mustIssue(t, store, p.ID, &s1.ID, types.StatusInProgress)
	outside := mustIssue(t, store, p.ID, nil, types.StatusOpen)

	if err := m.DeleteSprint(ctx, s1.ID); err != nil {
		t.Fatalf("DeleteSprint: %v", err)
	}

	sprints, _ := store.ListSprints(ctx, p.ID)
	if len(sprints) != 0 {
		t.Errorf("got %d sprints, want 0", len(sprints))
	}

	issues, _ := store.ListIssues(ctx, p.ID)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3 (issues survive sprint deletion)", len(issues))
	}
	for _, i := range issues {
		if i.SprintID != nil {
			t.Errorf("issue %s still references the deleted sprint", i.ID)
		}
	}

	for _, id := range []string{a.ID, b.ID} {
		logs, _ := store.ListLogs(ctx, id)
		unassigned := 0
		for _, l := range logs {
			if l.Action == types.ActionUnassigned {
				unassigned++
				if want := "Removed from deleted sprint: Sprint 1"; l.Details != want {
					t.Errorf("details = %q, want %q", l.Details, want)
				}
			}
		}
		if unassigned != 1 {
			t.Errorf("issue %s has %d unassigned entries, want 1", id, unassigned)
		}
	}
	logs, _ := store.ListLogs(ctx, outside.ID)
	for _, l := range logs {
		if l.Action == types.ActionUnassigned {
			t.Error("unplanned issue must not get an unassigned entry")
		}
	}
}

func TestDeleteSprintAuditFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	issue := mustIssue(t, store, p.ID, &s1.ID, types.StatusOpen)

	store.FailNext("AppendLog", fmt.Errorf("disk full"))
	err = m.DeleteSprint(ctx, s1.ID)
	var auditErr *AuditError
	if !errors.As(err, &auditErr) {
		t.Fatalf("err = %v, want AuditError", err)
	}
	if auditErr.IssueID != issue.ID || auditErr.Action != types.ActionUnassigned {
		t.Errorf("audit error = %+v", auditErr)
	}

	// The deletion and unassignment are durable regardless.
	sprints, _ := store.ListSprints(ctx, p.ID)
	if len(sprints) != 0 {
		t.Errorf("got %d sprints, want 0", len(sprints))
	}
	issues, _ := store.ListIssues(ctx, p.ID)
	if issues[0].SprintID != nil {
		t.Error("issue must be unassigned despite the audit append failure")
	}
}

func TestAssignIssue(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	issue := mustIssue(t, store, p.ID, nil, types.StatusOpen)

	if err := m.AssignIssue(ctx, issue, s1); err != nil {
		t.Fatalf("AssignIssue: %v", err)
	}

	issues, _ := store.ListIssues(ctx, p.ID)
	if issues[0].SprintID == nil || *issues[0].SprintID != s1.ID {
		t.Error("issue not assigned")
	}
	logs, _ := store.ListLogs(ctx, issue.ID)
	last := logs[len(logs)-1]
	if last.Action != types.ActionPlanned || last.Details != "Assigned to Sprint 1" {
		t.Errorf("last entry = %s %q", last.Action, last.Details)
	}
}

func TestAssignIssueAuditFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	s1, err := m.PlanSprint(ctx, p.ID, "Sprint 1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	issue := mustIssue(t, store, p.ID, nil, types.StatusOpen)

	store.FailNext("AppendLog", fmt.Errorf("disk full"))
	err = m.AssignIssue(ctx, issue, s1)
	var auditErr *AuditError
	if !errors.As(err, &auditErr) {
		t.Fatalf("err = %v, want AuditError", err)
	}

	// The assignment itself is durable.
	issues, _ := store.ListIssues(ctx, p.ID)
	if issues[0].SprintID == nil || *issues[0].SprintID != s1.ID {
		t.Error("assignment must survive an audit append failure")
	}
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)
	issue := mustIssue(t, store, p.ID, nil, types.StatusOpen)

	if err := m.ChangeStatus(ctx, issue, types.StatusInProgress); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	logs, _ := store.ListLogs(ctx, issue.ID)
	last := logs[len(logs)-1]
	if last.Action != types.ActionStatusChanged {
		t.Errorf("action = %q, want Status Changed", last.Action)
	}
	if last.FieldChanged == nil || *last.FieldChanged != types.FieldStatus {
		t.Error("entry must record the Status field")
	}
	if last.OldValue == nil || *last.OldValue != "Open" {
		t.Errorf("old value = %v, want Open", last.OldValue)
	}
	if last.NewValue == nil || *last.NewValue != "In Progress" {
		t.Errorf("new value = %v, want In Progress", last.NewValue)
	}
	if last.Details != "From Open to In Progress" {
		t.Errorf("details = %q", last.Details)
	}

	t.Run("same status is a no-op", func(t *testing.T) {
		before := len(logs)
		if err := m.ChangeStatus(ctx, issue, types.StatusInProgress); err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
		after, _ := store.ListLogs(ctx, issue.ID)
		if len(after) != before {
			t.Errorf("no-op change appended %d entries", len(after)-before)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		if err := m.ChangeStatus(ctx, issue, types.Status("Blocked")); err == nil {
			t.Fatal("expected error for invalid status")
		}
	})
}

func TestCreateIssueDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := newTestManager(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	p := mustProject(t, store)

	issue, err := m.CreateIssue(ctx, p.ID, types.CategoryBacklog, "", nil)
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if issue.Status != types.StatusOpen {
		t.Errorf("status = %q, want Open", issue.Status)
	}
	if issue.IssueType != types.TypeBug {
		t.Errorf("type = %q, want Bug for backlog issues", issue.IssueType)
	}
	if issue.Priority != 1 {
		t.Errorf("priority = %d, want 1", issue.Priority)
	}

	logs, _ := store.ListLogs(ctx, issue.ID)
	if len(logs) != 1 || logs[0].Action != types.ActionCreated {
		t.Fatalf("expected single Created entry, got %v", logs)
	}
	if logs[0].Details != "Initial creation" {
		t.Errorf("details = %q", logs[0].Details)
	}
}

func TestDefaultSprintName(t *testing.T) {
	if got := DefaultSprintName(0); got != "Sprint 1" {
		t.Errorf("got %q", got)
	}
	if got := DefaultSprintName(4); got != "Sprint 5" {
		t.Errorf("got %q", got)
	}
}

func TestCurrentSprint(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	m := New(memory.New(), WithLogger(quietLogger()), WithClock(func() time.Time { return now }))

	covering := &types.Sprint{
		ID: "covering", IsActive: true,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}
	future := &types.Sprint{
		ID: "future", IsActive: true,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
	}
	archived := &types.Sprint{
		ID: "archived", IsActive: false,
		StartDate: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 12, 14, 0, 0, 0, 0, time.UTC),
	}

	t.Run("covering sprint wins", func(t *testing.T) {
		got := m.CurrentSprint([]*types.Sprint{archived, future, covering})
		if got == nil || got.ID != "covering" {
			t.Errorf("got %v, want covering", got)
		}
	})
	t.Run("falls back to first active", func(t *testing.T) {
		got := m.CurrentSprint([]*types.Sprint{archived, future})
		if got == nil || got.ID != "future" {
			t.Errorf("got %v, want future", got)
		}
	})
	t.Run("nil when nothing active", func(t *testing.T) {
		if got := m.CurrentSprint([]*types.Sprint{archived}); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}
