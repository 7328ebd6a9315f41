// Package aggregate turns raw visualization data into chart-ready series.
package aggregate

import (
	"sort"
	"strings"

	"github.com/pders01/srch/internal/api"
)

// DayBucket is the number of timeline events that fall on one day.
type DayBucket struct {
	Day   string
	Count int
}

// DayKey returns the literal date portion of an ISO-8601 timestamp. No
// timezone conversion happens. A timestamp without a date/time separator is
// used whole as its own key.
func DayKey(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	if i := strings.IndexByte(timestamp, ' '); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

// Timeline counts events per day and returns the buckets sorted by day key.
// Lexicographic order equals chronological order only while all timestamps
// share one format and timezone.
func Timeline(events []api.TimelineEvent) []DayBucket {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[DayKey(ev.Timestamp)]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	buckets := make([]DayBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, DayBucket{Day: day, Count: counts[day]})
	}
	return buckets
}
