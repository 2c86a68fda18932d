package report

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/audityzer-org/audityzer/internal/engine"
	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/util"
)

// TextWriter renders a scan result as a human-readable table.
type TextWriter struct {
	writer      io.Writer
	verbose     bool
	withSnippet bool
}

type TextOption func(*TextWriter)

// WithVerbose includes suggestions and per-severity statistics.
func WithVerbose() TextOption {
	return func(w *TextWriter) { w.verbose = true }
}

// WithSnippets includes a short source excerpt under each finding.
func WithSnippets() TextOption {
	return func(w *TextWriter) { w.withSnippet = true }
}

func NewTextWriter(writer io.Writer, options ...TextOption) *TextWriter {
	w := &TextWriter{writer: writer}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *TextWriter) Write(result *engine.ScanResult) error {
	if len(result.Findings) == 0 {
		fmt.Fprintf(w.writer, "No findings. %d file(s), %d line(s), %d detector(s), elapsed %s\n",
			result.Files, result.TotalLines, result.DetectorsRun, result.Elapsed)
		return nil
	}

	fmt.Fprintf(w.writer, "Findings: %d (%d file(s), %d line(s), %d detector(s), elapsed %s)\n\n",
		len(result.Findings), result.Files, result.TotalLines, result.DetectorsRun, result.Elapsed)

	tw := tabwriter.NewWriter(w.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tLOCATION\tTITLE\tDETECTOR")
	for _, f := range result.Findings {
		fmt.Fprintf(tw, "%s\t%s:%d:%d\t%s\t%s\n", f.Severity, f.File, f.Line, f.Column, f.Title, f.Detector)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if w.withSnippet {
		for _, f := range result.Findings {
			b, err := os.ReadFile(f.File)
			if err != nil {
				continue
			}
			fmt.Fprintf(w.writer, "\n-- %s:%d %s\n%s\n", f.File, f.Line, f.Title,
				util.ExtractSnippet(string(b), f.Line, f.Line, 6))
		}
	}

	if w.verbose {
		w.writeStatistics(result)
	}
	return nil
}

func (w *TextWriter) writeStatistics(result *engine.ScanResult) {
	counts := map[model.Severity]int{}
	for _, f := range result.Findings {
		counts[f.Severity]++
	}
	fmt.Fprintln(w.writer)
	for _, s := range []model.Severity{
		model.SeverityCritical, model.SeverityHigh, model.SeverityMedium,
		model.SeverityLow, model.SeverityInfo,
	} {
		if counts[s] > 0 {
			fmt.Fprintf(w.writer, "%-10s %d\n", s, counts[s])
		}
	}
	for _, f := range result.Findings {
		if f.Suggestion != "" {
			fmt.Fprintf(w.writer, "%s:%d: %s\n", f.File, f.Line, f.Suggestion)
		}
	}
}
