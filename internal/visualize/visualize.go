// Package visualize renders per-document POS frequency charts.
package visualize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/morphcorp/internal/ud"
)

// ReportName is the file suffix of the chart written for each document.
const ReportName = "pos_frequencies.md"

// Visualizer receives the frequencies of one document.
type Visualizer interface {
	Visualize(ctx context.Context, id int, frequencies map[string]int) (string, error)
}

// ReportWriter persists a rendered chart next to the document.
type ReportWriter interface {
	WriteReport(id int, name string, data []byte) (string, error)
}

// Markdown writes a text bar chart as <id>_pos_frequencies.md.
type Markdown struct {
	w     ReportWriter
	width int
}

// NewMarkdown creates a Markdown chart writer. width is the length of the
// longest bar.
func NewMarkdown(w ReportWriter, width int) *Markdown {
	if width <= 0 {
		width = 40
	}
	return &Markdown{w: w, width: width}
}

// Visualize renders and writes the chart, returning its path.
func (m *Markdown) Visualize(ctx context.Context, id int, frequencies map[string]int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := m.w.WriteReport(id, ReportName, []byte(Render(id, frequencies, m.width)))
	if err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

// Render formats frequencies as a Markdown document with one bar per
// taxonomy label, in taxonomy order.
func Render(id int, frequencies map[string]int, width int) string {
	total, max := 0, 0
	for _, label := range ud.FrequencyTaxonomy {
		n := frequencies[label]
		total += n
		if n > max {
			max = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# POS frequencies: document %d\n\n", id)
	fmt.Fprintf(&b, "Tokens counted: %d\n\n", total)
	b.WriteString("```\n")
	for _, label := range ud.FrequencyTaxonomy {
		n := frequencies[label]
		bar := 0
		if max > 0 {
			bar = n * width / max
		}
		if n > 0 && bar == 0 {
			bar = 1
		}
		share := 0.0
		if total > 0 {
			share = float64(n) * 100 / float64(total)
		}
		fmt.Fprintf(&b, "%-6s %-*s %5d %5.1f%%\n", label, width, strings.Repeat("█", bar), n, share)
	}
	b.WriteString("```\n")
	return b.String()
}
