package aggregate

import "github.com/pders01/srch/internal/api"

// Series is a pair of parallel label/value sequences for a bar chart.
type Series struct {
	Labels []string
	Values []float64
}

func (s Series) Len() int { return len(s.Labels) }

// Sources flattens a source breakdown in the order the server sent it.
// Percentages are passed through unchanged.
func Sources(b api.SourceBreakdown) Series {
	s := Series{
		Labels: make([]string, 0, len(b)),
		Values: make([]float64, 0, len(b)),
	}
	for _, share := range b {
		s.Labels = append(s.Labels, share.Name)
		s.Values = append(s.Values, share.Percent)
	}
	return s
}

// TimelineSeries converts day buckets into a chart series.
func TimelineSeries(buckets []DayBucket) Series {
	s := Series{
		Labels: make([]string, 0, len(buckets)),
		Values: make([]float64, 0, len(buckets)),
	}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Day)
		s.Values = append(s.Values, float64(b.Count))
	}
	return s
}
