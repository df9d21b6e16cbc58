package timeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tknoepfli/sleipnir/internal/storage"
	"github.com/tknoepfli/sleipnir/internal/types"
)

// Scale selects the sampling resolution of a series.
type Scale int

const (
	ScaleDay Scale = iota
	ScaleHour
	ScaleMinute
)

// ParseScale converts a flag value into a Scale.
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "days", "d":
		return ScaleDay, nil
	case "hour", "hours", "h":
		return ScaleHour, nil
	case "minute", "minutes", "m":
		return ScaleMinute, nil
	}
	return ScaleDay, fmt.Errorf("unknown scale %q (day, hour or minute)", s)
}

func (s Scale) String() string {
	switch s {
	case ScaleHour:
		return "hour"
	case ScaleMinute:
		return "minute"
	default:
		return "day"
	}
}

// StatusCounts is one sample of the series: how many of the sprint's issues
// held each status bucket at Time.
type StatusCounts struct {
	Time       time.Time `json:"time"`
	Open       int       `json:"open"`
	InProgress int       `json:"in_progress"`
	Testing    int       `json:"testing"`
	Done       int       `json:"done"`
}

// Doing returns the in-flight count (in progress + testing).
func (c StatusCounts) Doing() int { return c.InProgress + c.Testing }

// Total returns the number of issues counted in this sample.
func (c StatusCounts) Total() int { return c.Open + c.InProgress + c.Testing + c.Done }

// BuildSeries reconstructs the status distribution of the given issues over
// [from, to] at the requested scale. logsByIssue holds each issue's full log
// in ascending timestamp order.
//
// Day samples are evaluated at the last representable instant of each day,
// clamped to not exceed "to"; hour and minute samples sit on the boundaries,
// both ends inclusive. When to < from the window is clamped to one hour.
//
// The result is materialized in time order: downstream axis scaling needs
// the global maximum before rendering starts.
func BuildSeries(issues []*types.Issue, logsByIssue map[string][]*types.IssueLog, scale Scale, from, to time.Time) []StatusCounts {
	if to.Before(from) {
		to = from.Add(time.Hour)
	}

	var series []StatusCounts
	switch scale {
	case ScaleMinute:
		for t := from; !t.After(to); t = t.Add(time.Minute) {
			series = append(series, countAt(t, issues, logsByIssue))
		}
	case ScaleHour:
		for t := from; !t.After(to); t = t.Add(time.Hour) {
			series = append(series, countAt(t, issues, logsByIssue))
		}
	default:
		lastDay := dateOf(to)
		for d := dateOf(from); !d.After(lastDay); d = d.AddDate(0, 0, 1) {
			sample := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
			if sample.After(to) {
				sample = to
			}
			series = append(series, countAt(sample, issues, logsByIssue))
		}
	}
	return series
}

func countAt(pointInTime time.Time, issues []*types.Issue, logsByIssue map[string][]*types.IssueLog) StatusCounts {
	counts := StatusCounts{Time: pointInTime}
	for _, issue := range issues {
		status := StatusAt(issue, logsByIssue[issue.ID], pointInTime)
		if status == types.StatusNotCreated {
			continue
		}
		switch strings.ToLower(string(status)) {
		case "open":
			counts.Open++
		case "in progress":
			counts.InProgress++
		case "in testing", "testing":
			counts.Testing++
		case "finished", "done":
			counts.Done++
		}
	}
	return counts
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Builder fetches logs from a repository and produces series for a sprint.
type Builder struct {
	store storage.Storage
}

// NewBuilder creates a series builder backed by the given repository
func NewBuilder(store storage.Storage) *Builder {
	return &Builder{store: store}
}

// SprintIssues narrows a project issue snapshot to the sprint's issue set.
func SprintIssues(issues []*types.Issue, sprintID string) []*types.Issue {
	var out []*types.Issue
	for _, i := range issues {
		if i.SprintID != nil && *i.SprintID == sprintID {
			out = append(out, i)
		}
	}
	return out
}

// BuildSeries loads each sprint issue's log and aggregates the series.
// Per-issue log fetches run concurrently; the samples themselves are pure
// per-instant reconstructions reassembled in time order by BuildSeries.
func (b *Builder) BuildSeries(ctx context.Context, sprint *types.Sprint, scale Scale, from, to time.Time) ([]StatusCounts, error) {
	projectIssues, err := b.store.ListIssues(ctx, sprint.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issues: %w", err)
	}
	issues := SprintIssues(projectIssues, sprint.ID)

	logsByIssue := make(map[string][]*types.IssueLog, len(issues))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		fetchErr error
	)
	for _, issue := range issues {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			logs, err := b.store.ListLogs(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = fmt.Errorf("failed to load logs for %s: %w", id, err)
				}
				return
			}
			// Replay requires ascending timestamp order.
			sort.SliceStable(logs, func(i, j int) bool {
				return logs[i].Timestamp.Before(logs[j].Timestamp)
			})
			logsByIssue[id] = logs
		}(issue.ID)
	}
	wg.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}

	return BuildSeries(issues, logsByIssue, scale, from, to), nil
}

// DefaultWindow reproduces the default reporting interval per scale: the
// sprint's full date range clamped to now for days, the trailing 24 hours
// for hours, and the trailing hour for minutes.
func DefaultWindow(sprint *types.Sprint, scale Scale, now time.Time) (from, to time.Time) {
	switch scale {
	case ScaleHour:
		return now.Add(-24 * time.Hour), now
	case ScaleMinute:
		return now.Add(-time.Hour), now
	default:
		from = dateOf(sprint.StartDate)
		to = dateOf(sprint.EndDate).AddDate(0, 0, 1).Add(-time.Nanosecond)
		if to.After(now) {
			to = now
		}
		return from, to
	}
}
