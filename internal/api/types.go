package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Query is a single search submission.
type Query struct {
	Text        string
	MaxArticles int
	TimeRange   string

	// Source filters are passed through; the service lower-cases and
	// deduplicates them.
	IncludeSources []string
	ExcludeSources []string
}

type searchRequest struct {
	Query          string   `json:"query"`
	MaxArticles    int      `json:"max_articles"`
	TimeRange      string   `json:"time_range,omitempty"`
	IncludeSources []string `json:"include_sources,omitempty"`
	ExcludeSources []string `json:"exclude_sources,omitempty"`
}

// SearchResponse is the decoded success body of the search endpoint.
// It is treated as immutable once returned by the client.
type SearchResponse struct {
	Summary            string             `json:"summary"`
	KeyInsights        []Insight          `json:"key_insights"`
	ArticlesProcessed  int                `json:"articles_processed"`
	AnalysisConfidence float64            `json:"analysis_confidence"`
	Visualization      *VisualizationData `json:"visualization_data,omitempty"`
}

// VisualizationData is only present in the chart-capable response shape.
type VisualizationData struct {
	SourceBreakdown SourceBreakdown `json:"source_breakdown"`
	Timeline        []TimelineEvent `json:"timeline"`
}

type TimelineEvent struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Insight is either a bare string or a structured point with a confidence.
type Insight struct {
	Point      string
	Confidence float64
	Structured bool

	Frequency int
	Sources   []string
	Category  string
}

type structuredInsight struct {
	Point      string   `json:"point"`
	Confidence *float64 `json:"confidence"`
	Frequency  int      `json:"frequency,omitempty"`
	Sources    []string `json:"sources,omitempty"`
	Category   string   `json:"category,omitempty"`
}

func (i *Insight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Insight{Point: s}
		return nil
	}

	var si structuredInsight
	if err := json.Unmarshal(data, &si); err != nil {
		return fmt.Errorf("insight must be a string or an object: %w", err)
	}
	*i = Insight{
		Point:     si.Point,
		Frequency: si.Frequency,
		Sources:   si.Sources,
		Category:  si.Category,
	}
	if si.Confidence != nil {
		i.Confidence = *si.Confidence
		i.Structured = true
	}
	return nil
}

func (i Insight) MarshalJSON() ([]byte, error) {
	if !i.Structured {
		return json.Marshal(i.Point)
	}
	c := i.Confidence
	return json.Marshal(structuredInsight{
		Point:      i.Point,
		Confidence: &c,
		Frequency:  i.Frequency,
		Sources:    i.Sources,
		Category:   i.Category,
	})
}

// SourceShare is one entry of a source breakdown.
type SourceShare struct {
	Name    string
	Percent float64
}

// SourceBreakdown keeps the entries of the source_breakdown object in the
// order the server wrote them.
type SourceBreakdown []SourceShare

func (b *SourceBreakdown) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("source_breakdown must be an object")
	}

	out := SourceBreakdown{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("source_breakdown: unexpected key %v", tok)
		}
		var pct float64
		if err := dec.Decode(&pct); err != nil {
			return fmt.Errorf("source_breakdown[%q]: %w", name, err)
		}
		out = append(out, SourceShare{Name: name, Percent: pct})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}

func (b SourceBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.Percent)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Health is the body of the health endpoint.
type Health struct {
	Status           string            `json:"status"`
	Version          string            `json:"version"`
	Timestamp        string            `json:"timestamp,omitempty"`
	ExternalServices map[string]string `json:"external_services,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
