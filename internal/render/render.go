// Package render builds the display model for a search result. It performs no
// terminal I/O, so everything here can be tested without a UI.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pders01/srch/internal/api"
)

// View is the sanitized, display-ready form of a SearchResponse.
type View struct {
	ArticlesLabel   string
	ConfidenceLabel string
	Summary         string
	Insights        []string
}

// Empty reports whether v has never been populated.
func (v View) Empty() bool {
	return v.ArticlesLabel == "" && v.Summary == "" && len(v.Insights) == 0
}

// Build converts resp into a View. Every string that came from the server is
// passed through PlainText.
func Build(resp *api.SearchResponse) View {
	if resp == nil {
		return View{}
	}

	v := View{
		ArticlesLabel:   fmt.Sprintf("%d articles analyzed", resp.ArticlesProcessed),
		ConfidenceLabel: fmt.Sprintf("Confidence: %d%%", Percent(resp.AnalysisConfidence)),
		Summary:         PlainText(resp.Summary),
		Insights:        make([]string, 0, len(resp.KeyInsights)),
	}
	for _, in := range resp.KeyInsights {
		v.Insights = append(v.Insights, Insight(in))
	}
	return v
}

// Percent scales a [0,1] confidence to a whole percentage, rounding half up.
func Percent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}

// Insight formats one insight as a single line of plain text.
func Insight(in api.Insight) string {
	point := SingleLine(in.Point)
	if !in.Structured {
		return point
	}
	return fmt.Sprintf("%s (Confidence: %s)", point, strconv.FormatFloat(in.Confidence, 'f', -1, 64))
}
