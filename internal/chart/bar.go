package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pders01/srch/internal/render"
)

const (
	minBarWidth   = 4
	maxLabelWidth = 24
)

// BarStyles controls the look of bar charts.
type BarStyles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Bar   lipgloss.Style
	Track lipgloss.Style
	Value lipgloss.Style
	Empty lipgloss.Style
}

// DefaultBarStyles returns unstyled bar chart styles.
func DefaultBarStyles() BarStyles {
	return BarStyles{
		Title: lipgloss.NewStyle().Bold(true),
		Label: lipgloss.NewStyle(),
		Bar:   lipgloss.NewStyle(),
		Track: lipgloss.NewStyle().Faint(true),
		Value: lipgloss.NewStyle(),
		Empty: lipgloss.NewStyle().Faint(true),
	}
}

// BarFactory creates horizontal bar charts.
type BarFactory struct {
	Styles BarStyles
}

func NewBarFactory(styles BarStyles) *BarFactory {
	return &BarFactory{Styles: styles}
}

func (f *BarFactory) New(slot Slot, spec Spec) (Chart, error) {
	if len(spec.Series.Labels) != len(spec.Series.Values) {
		return nil, fmt.Errorf("series has %d labels but %d values", len(spec.Series.Labels), len(spec.Series.Values))
	}

	labels := make([]string, len(spec.Series.Labels))
	for i, l := range spec.Series.Labels {
		labels[i] = render.SingleLine(l)
	}
	values := append([]float64(nil), spec.Series.Values...)

	return &BarChart{
		slot:   slot,
		title:  render.SingleLine(spec.Title),
		unit:   spec.Unit,
		labels: labels,
		values: values,
		styles: f.Styles,
	}, nil
}

// BarChart draws one horizontal bar per label, scaled to the largest value.
type BarChart struct {
	slot     Slot
	title    string
	unit     string
	labels   []string
	values   []float64
	styles   BarStyles
	released bool
}

func (c *BarChart) Release() {
	c.released = true
	c.labels = nil
	c.values = nil
}

func (c *BarChart) View(width int) string {
	if c.released {
		return ""
	}

	rows := []string{c.styles.Title.Render(c.title)}
	if len(c.labels) == 0 {
		rows = append(rows, c.styles.Empty.Render("  (no data)"))
		return strings.Join(rows, "\n")
	}

	labelWidth := 0
	for _, l := range c.labels {
		if w := ansi.StringWidth(l); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}

	valueTexts := make([]string, len(c.values))
	valueWidth := 0
	peak := 0.0
	for i, v := range c.values {
		valueTexts[i] = formatValue(v, c.unit)
		if w := len(valueTexts[i]); w > valueWidth {
			valueWidth = w
		}
		if v > peak {
			peak = v
		}
	}

	barWidth := width - labelWidth - valueWidth - 6
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for i, label := range c.labels {
		label = ansi.Truncate(label, labelWidth, "…")
		pad := strings.Repeat(" ", labelWidth-ansi.StringWidth(label))

		filled := 0
		if peak > 0 && c.values[i] > 0 {
			filled = int(math.Round(c.values[i] / peak * float64(barWidth)))
			if filled == 0 {
				filled = 1
			}
		}

		rows = append(rows, fmt.Sprintf("  %s%s %s%s %s",
			c.styles.Label.Render(label), pad,
			c.styles.Bar.Render(strings.Repeat("█", filled)),
			c.styles.Track.Render(strings.Repeat("░", barWidth-filled)),
			c.styles.Value.Render(valueTexts[i]),
		))
	}
	return strings.Join(rows, "\n")
}

func formatValue(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}
