package jobs

import (
	"math"
	"strconv"
	"strings"
	"time"

	"vibe-jobs-gateway/internal/timeutil"
	"vibe-jobs-gateway/pkg/models"
)

const (
	// DefaultPageSize is the page size used when a caller does not request one.
	DefaultPageSize = 10

	// DateFilterSizeMultiplier is the over-fetch factor applied when a date
	// filter is active: one backend call fetches pageSize*multiplier items so
	// several local pages of filtered results can be served per cursor
	// advance. It is a round-trip heuristic, not a fill guarantee; filtered
	// pages may still come up short.
	DateFilterSizeMultiplier = 5
)

// ComputeDateCutoff turns a "posted within N days" filter value into an epoch
// millisecond cutoff relative to now. A missing or non-positive value means
// no date filtering.
func ComputeDateCutoff(daysValue string, now time.Time) (int64, bool) {
	trimmed := strings.TrimSpace(daysValue)
	if trimmed == "" {
		return 0, false
	}
	days, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(days) || math.IsInf(days, 0) || days <= 0 {
		return 0, false
	}
	return now.UnixMilli() - int64(days*24*60*60*1000), true
}

// FilterJobsByDate keeps the jobs whose postedAt parses to an instant at or
// after the cutoff. A cutoff <= 0 disables filtering and returns the input
// slice unchanged, without copying.
func FilterJobsByDate(items []models.Job, cutoff int64) []models.Job {
	if cutoff <= 0 {
		return items
	}
	filtered := make([]models.Job, 0, len(items))
	for _, item := range items {
		t, ok := timeutil.ParseInstant(item.PostedAt)
		if !ok {
			continue
		}
		if t.UnixMilli() >= cutoff {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
