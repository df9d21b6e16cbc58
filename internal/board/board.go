// Package board partitions a project's live issue set into the four workflow
// columns for display. It is a pure projection over a snapshot of the issue
// set: no side effects, recompute whenever the inputs change.
package board

import (
	"strings"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// Board holds the four ordered status columns of one category view.
type Board struct {
	Open       []types.Issue
	InProgress []types.Issue
	Testing    []types.Issue
	Finished   []types.Issue
}

// Total returns the number of issues on the board.
func (b *Board) Total() int {
	return len(b.Open) + len(b.InProgress) + len(b.Testing) + len(b.Finished)
}

// Project filters the issue snapshot to the selected category
// (case-insensitive) and sprint, then buckets by status column.
//
// Sprint filtering: with a selected sprint only its issues are kept; with no
// selection only the unplanned pool (nil sprint reference) is kept, never
// "all sprints". Unrecognized status labels land in the Open column.
func Project(issues []types.Issue, category string, sprintID *string) Board {
	var b Board
	for _, issue := range issues {
		if !issue.Category.Equals(category) {
			continue
		}
		if sprintID != nil {
			if issue.SprintID == nil || *issue.SprintID != *sprintID {
				continue
			}
		} else if issue.SprintID != nil {
			continue
		}

		// Exact column labels only; legacy aliases like "Done" are a
		// reporting concern, not a board column.
		switch strings.ToLower(string(issue.Status)) {
		case "in progress":
			b.InProgress = append(b.InProgress, issue)
		case "in testing":
			b.Testing = append(b.Testing, issue)
		case "finished":
			b.Finished = append(b.Finished, issue)
		default:
			b.Open = append(b.Open, issue)
		}
	}
	return b
}

// Snapshot converts a repository read into the value slice Project consumes,
// so the projection never shares mutable state with the lifecycle layer.
func Snapshot(issues []*types.Issue) []types.Issue {
	out := make([]types.Issue, 0, len(issues))
	for _, i := range issues {
		if i == nil {
			continue
		}
		cp := *i
		if i.SprintID != nil {
			sid := *i.SprintID
			cp.SprintID = &sid
		}
		out = append(out, cp)
	}
	return out
}
