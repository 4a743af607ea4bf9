package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/caseforge/casescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables matched fragment listings in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with matched fragments.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CaseReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStatistics(&sb, &report.Statistics)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteStatistics outputs only the case statistics.
func (w *SimpleWriter) WriteStatistics(stats *model.CaseStatistics) (int, error) {
	var sb strings.Builder
	w.writeStatistics(&sb, stats)
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with case information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CaseReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CASESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Case Directory: %s\n", report.CaseDir))
	sb.WriteString(fmt.Sprintf("Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeStatistics writes the case summary section.
func (w *SimpleWriter) writeStatistics(sb *strings.Builder, stats *model.CaseStatistics) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CASE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Volumes:    %d (%d indexed)\n", stats.TotalVolumes, stats.CompletedVolumes))
	sb.WriteString(fmt.Sprintf("  Pages:      %d\n", stats.TotalPages))
	sb.WriteString(fmt.Sprintf("  Suspicious: %d comparisons\n", stats.SuspiciousComparisons))
	sb.WriteString("\n")
}

// writeFindings writes the suspicious pairs, most similar first.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.CaseReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUSPICIOUS DOCUMENT PAIRS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.HasFindings() {
		sb.WriteString("  No suspicious pairs found\n\n")
		return
	}

	for i, c := range report.Suspicious {
		w.writeComparison(sb, i+1, c)
	}
}

// writeComparison writes one flagged pair.
func (w *SimpleWriter) writeComparison(sb *strings.Builder, index int, c *model.Comparison) {
	sb.WriteString(fmt.Sprintf("[%s] #%d  vol %d p.%s (%s)  <->  vol %d p.%s (%s)\n",
		severityIndicator(c),
		index,
		c.Doc1.VolumeNumber, c.Doc1.PageRange, c.Doc1.Author,
		c.Doc2.VolumeNumber, c.Doc2.PageRange, c.Doc2.Author))

	sb.WriteString(fmt.Sprintf("    Text similarity:   %.2f%%\n", c.TextSimilarity))
	if c.VisualSimilarity != nil {
		sb.WriteString(fmt.Sprintf("    Visual similarity: %.2f%%\n", *c.VisualSimilarity))
	}
	if len(c.MatchedFragments) > 0 {
		sb.WriteString(fmt.Sprintf("    Matched fragments: %d\n", len(c.MatchedFragments)))
	}
	sb.WriteString(fmt.Sprintf("    Reason: %s\n", c.SuspiciousReason))
	sb.WriteString(fmt.Sprintf("    Review: %s\n", c.HumanReview))

	if w.verbose {
		for _, f := range c.MatchedFragments {
			sb.WriteString(fmt.Sprintf("      * %s\n", truncateString(f.Text, 100)))
		}
	}
	sb.WriteString("\n")
}

// severityIndicator returns a visual indicator for the pair.
func severityIndicator(c *model.Comparison) string {
	switch {
	case c.TextSimilarity >= 90:
		return "!!!"
	case c.IsSuspicious:
		return "!!"
	default:
		return "-"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by casescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
