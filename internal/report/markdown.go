package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/caseforge/casescan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CaseReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatisticsTable(md, &report.Statistics)
	w.writeAlert(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteStatistics outputs only the case statistics in Markdown format.
func (w *MarkdownWriter) WriteStatistics(stats *model.CaseStatistics) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeStatisticsTable(md, stats)
	return len(md.String()), md.Build()
}

// writeHeader writes the report header with case information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CaseReport) {
	md.H1("Casescan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Case Directory", "`" + report.CaseDir + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

// writeStatisticsTable writes the case summary section.
func (w *MarkdownWriter) writeStatisticsTable(md *markdown.Markdown, stats *model.CaseStatistics) {
	md.H2("Case Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Volumes", strconv.Itoa(stats.TotalVolumes)},
			{"Indexed Volumes", strconv.Itoa(stats.CompletedVolumes)},
			{"Pages", strconv.Itoa(stats.TotalPages)},
			{"Suspicious Comparisons", strconv.Itoa(stats.SuspiciousComparisons)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the findings.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CaseReport) {
	switch {
	case report.CriticalCount() > 0:
		md.Cautionf(
			"Near-identical documents detected! %d pair(s) show likely direct copying.",
			report.CriticalCount(),
		)
	case report.HasFindings():
		md.Warningf(
			"%d suspicious document pair(s) found. Review the findings below.",
			len(report.Suspicious),
		)
	default:
		md.Tip("No suspicious document pairs detected.")
	}
	md.PlainText("")
}

// writeFindings writes the suspicious pairs, most similar first.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.CaseReport) {
	md.H2("Suspicious Document Pairs")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No suspicious pairs found.")
		md.PlainText("")
		return
	}

	w.writeFindingsTable(md, report.Suspicious)

	for i, c := range report.Suspicious {
		if len(c.MatchedFragments) == 0 {
			continue
		}
		md.Details(
			fmt.Sprintf("Pair %d: matched fragments", i+1),
			fragmentList(c.MatchedFragments),
		)
	}
	md.PlainText("")
}

// writeFindingsTable writes a table of flagged pairs with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, suspicious []*model.Comparison) {
	headers := []string{"#", "Document 1", "Document 2", "Text", "Visual", "Fragments", "Review"}

	rows := make([][]string, len(suspicious))
	for i, c := range suspicious {
		visual := "-"
		if c.VisualSimilarity != nil {
			visual = fmt.Sprintf("%.2f%%", *c.VisualSimilarity)
		}

		rows[i] = []string{
			strconv.Itoa(i + 1),
			documentLabel(c.Doc1),
			documentLabel(c.Doc2),
			fmt.Sprintf("%.2f%%", c.TextSimilarity),
			visual,
			strconv.Itoa(len(c.MatchedFragments)),
			truncateString(c.HumanReview, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// documentLabel formats one side of a comparison for the table.
func documentLabel(d model.DocumentRef) string {
	return fmt.Sprintf("vol %d p.%s (%s)", d.VolumeNumber, d.PageRange, d.Author)
}

// fragmentList formats matched fragments for a details block.
func fragmentList(fragments []model.MatchedFragment) string {
	out := ""
	for _, f := range fragments {
		out += "- " + truncateString(f.Text, 100) + "\n"
	}
	return out
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by casescan*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
