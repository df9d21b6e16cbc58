// Package timeline reconstructs historical issue statuses from the
// append-only audit log and aggregates them into burndown time series.
package timeline

import (
	"time"

	"github.com/tknoepfli/sleipnir/internal/types"
)

// StatusAt determines the status an issue held at the given instant by
// replaying its log. logs must be in ascending timestamp order (ties in
// insertion order), as returned by storage ListLogs.
//
// The last status-change entry with Timestamp <= pointInTime wins; the
// boundary is inclusive. With no such entry the issue is either not yet
// created (StatusNotCreated, excluded from aggregates) or still in its
// default Open state.
//
// Pure function of its inputs; safe to call concurrently as long as callers
// do not mutate the shared log slice.
func StatusAt(issue *types.Issue, logs []*types.IssueLog, pointInTime time.Time) types.Status {
	var last *types.IssueLog
	for _, l := range logs {
		if !l.IsStatusChange() {
			continue
		}
		if l.Timestamp.After(pointInTime) {
			continue
		}
		last = l
	}

	if last != nil {
		if last.NewValue == nil {
			return types.StatusOpen
		}
		return types.Status(*last.NewValue)
	}

	if issue.CreatedAt.After(pointInTime) {
		return types.StatusNotCreated
	}
	return types.StatusOpen
}
