// Package analyzer wires the parser and the detector registry into the
// analysis pipeline: parse, run every detector, merge, rank.
package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/audityzer-org/audityzer/internal/detector"
	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/syntax"
)

// Analyzer owns one parser and an ordered detector registry. The parser is
// not reentrant, so Analyze serializes itself with a mutex; use one Analyzer
// per worker when scanning in parallel.
type Analyzer struct {
	mu       sync.Mutex
	parser   *syntax.Parser
	registry *detector.Registry
}

type Option func(*Analyzer)

// WithDetectors appends detectors after the standard set. The registry is
// fixed once New returns; this is the only extension point.
func WithDetectors(ds ...detector.Detector) Option {
	return func(a *Analyzer) {
		for _, d := range ds {
			a.registry.Register(d)
		}
	}
}

// WithMaxSourceBytes adjusts the parser's input size bound.
func WithMaxSourceBytes(n int) Option {
	return func(a *Analyzer) { a.parser.MaxSourceBytes = n }
}

// New constructs the parser and registers the standard detectors. It fails
// only when the grammar cannot be loaded.
func New(opts ...Option) (*Analyzer, error) {
	p, err := syntax.NewParser()
	if err != nil {
		return nil, fmt.Errorf("initialize parser: %w", err)
	}
	reg := detector.NewRegistry()
	reg.RegisterBuiltin()
	a := &Analyzer{parser: p, registry: reg}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Detectors returns the registered detectors in registration order.
func (a *Analyzer) Detectors() []detector.Detector { return a.registry.Detectors() }

// Analyze parses source and runs every registered detector against the
// resulting tree. Findings are merged preserving each detector's own order,
// then ranked by severity descending and line ascending (stable beyond
// that). The only error path is a failed parse; detectors cannot fail, and
// every registered detector counts toward DetectorsRun even when it
// contributes nothing.
func (a *Analyzer) Analyze(source string) (*model.AnalysisReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tree, err := a.parser.Parse(source)
	if err != nil {
		return nil, err
	}

	var all []model.Vulnerability
	for _, d := range a.registry.Detectors() {
		all = append(all, d.Detect(tree, source)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := all[i].Severity.Rank(), all[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return all[i].Line < all[j].Line
	})

	return &model.AnalysisReport{
		Vulnerabilities: all,
		TotalLines:      countLines(source),
		DetectorsRun:    a.registry.Len(),
	}, nil
}

// countLines counts newline-delimited segments: the empty string has zero
// lines and a trailing newline does not add a phantom one.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
