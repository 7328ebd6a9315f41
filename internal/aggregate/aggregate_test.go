package aggregate

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/srch/internal/api"
)

func events(ts ...string) []api.TimelineEvent {
	out := make([]api.TimelineEvent, len(ts))
	for i, t := range ts {
		out[i] = api.TimelineEvent{Timestamp: t}
	}
	return out
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-05-01T10:00:00Z", "2024-05-01"},
		{"2024-05-01T23:59:59+02:00", "2024-05-01"},
		{"2024-05-01 08:00:00", "2024-05-01"},
		{"2024-05-01", "2024-05-01"},
		{"garbage", "garbage"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DayKey(tt.input), "DayKey(%q)", tt.input)
	}
}

func TestTimeline_Empty(t *testing.T) {
	assert.Empty(t, Timeline(nil))
	assert.Empty(t, Timeline([]api.TimelineEvent{}))
}

func TestTimeline_SingleDay(t *testing.T) {
	got := Timeline(events("2024-05-01T01:00:00Z", "2024-05-01T12:00:00Z", "2024-05-01T23:00:00Z"))
	assert.Equal(t, []DayBucket{{Day: "2024-05-01", Count: 3}}, got)
}

func TestTimeline_SortsChronologically(t *testing.T) {
	got := Timeline(events(
		"2024-05-03T10:00:00Z",
		"2024-05-01T10:00:00Z",
		"2024-05-03T11:00:00Z",
		"2024-05-02T10:00:00Z",
		"2024-05-01T18:00:00Z",
	))

	assert.Equal(t, []DayBucket{
		{Day: "2024-05-01", Count: 2},
		{Day: "2024-05-02", Count: 1},
		{Day: "2024-05-03", Count: 2},
	}, got)
}

func TestTimeline_MalformedTimestampIsOwnBucket(t *testing.T) {
	got := Timeline(events("2024-05-01T10:00:00Z", "yesterday", "yesterday"))
	assert.Equal(t, []DayBucket{
		{Day: "2024-05-01", Count: 1},
		{Day: "yesterday", Count: 2},
	}, got)
}

func TestTimeline_CountsAndOrderProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(200)
		days := make(map[string]bool)
		input := make([]api.TimelineEvent, 0, n)
		for i := 0; i < n; i++ {
			day := fmt.Sprintf("2024-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1)
			days[day] = true
			input = append(input, api.TimelineEvent{Timestamp: fmt.Sprintf("%sT%02d:00:00Z", day, rng.Intn(24))})
		}

		got := Timeline(input)
		require.Len(t, got, len(days))

		total := 0
		for i, b := range got {
			total += b.Count
			if i > 0 {
				assert.Less(t, got[i-1].Day, b.Day, "day keys must be strictly ascending")
			}
		}
		assert.Equal(t, n, total)

		shuffled := append([]api.TimelineEvent(nil), input...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, got, Timeline(shuffled), "input order must not matter")
	}
}

func TestSources_PreservesOrder(t *testing.T) {
	in := api.SourceBreakdown{{Name: "BBC", Percent: 40.0}, {Name: "CNN", Percent: 60.0}}

	for i := 0; i < 5; i++ {
		got := Sources(in)
		assert.Equal(t, []string{"BBC", "CNN"}, got.Labels)
		assert.Equal(t, []float64{40.0, 60.0}, got.Values)
	}
}

func TestSources_NoNormalization(t *testing.T) {
	in := api.SourceBreakdown{{Name: "a", Percent: 0.25}, {Name: "b", Percent: 0.5}}
	got := Sources(in)
	assert.Equal(t, []float64{0.25, 0.5}, got.Values)
	assert.Equal(t, 2, got.Len())

	assert.Equal(t, 0, Sources(nil).Len())
}

func TestTimelineSeries(t *testing.T) {
	got := TimelineSeries([]DayBucket{{Day: "2024-05-01", Count: 2}, {Day: "2024-05-02", Count: 5}})
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, got.Labels)
	assert.Equal(t, []float64{2, 5}, got.Values)
	assert.True(t, sort.StringsAreSorted(got.Labels))
}
