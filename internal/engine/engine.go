// Package engine runs the single-file analyzer across a project tree and
// applies run-level policy: filtering, baselines and result caching.
package engine

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/audityzer-org/audityzer/internal/analyzer"
	"github.com/audityzer-org/audityzer/internal/cache"
	"github.com/audityzer-org/audityzer/internal/config"
	"github.com/audityzer-org/audityzer/internal/detector"
	"github.com/audityzer-org/audityzer/internal/model"
)

// FileFinding is one vulnerability attributed to the file it came from.
type FileFinding struct {
	File string `json:"file"`
	model.Vulnerability
}

// ScanResult aggregates one engine run over a project tree.
type ScanResult struct {
	RunID        string        `json:"runId"`
	Findings     []FileFinding `json:"findings"`
	Files        int           `json:"files"`
	TotalLines   int           `json:"totalLines"`
	DetectorsRun int           `json:"detectorsRun"`
	Elapsed      time.Duration `json:"elapsed"`
}

type Options struct {
	Config   config.Config
	Baseline string // path of a baseline file whose fingerprints are suppressed
	NoCache  bool
	Logger   *zap.Logger
}

type Engine struct {
	opts   Options
	logger *zap.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger}
}

func (e *Engine) newAnalyzer() (*analyzer.Analyzer, error) {
	var opts []analyzer.Option
	if e.opts.Config.ExtraRules {
		opts = append(opts, analyzer.WithDetectors(detector.Extras()...))
	}
	if e.opts.Config.MaxSourceBytes > 0 {
		opts = append(opts, analyzer.WithMaxSourceBytes(e.opts.Config.MaxSourceBytes))
	}
	return analyzer.New(opts...)
}

// Scan analyzes every Solidity file under root. Files are fanned out across
// workers with one Analyzer each, since a single Analyzer serializes its
// parse calls. Per-file parse failures are logged and skipped; they do not
// fail the run.
func (e *Engine) Scan(ctx context.Context, root string) (*ScanResult, error) {
	start := time.Now()
	files := discoverFiles(root)

	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}

	type fileReport struct {
		file   string
		report *model.AnalysisReport
	}
	ch := make(chan fileReport, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(file string) {
			defer wg.Done()
			defer func() { <-sem }()
			rep, err := e.analyzeFile(file)
			if err != nil {
				e.logger.Warn("skipping file", zap.String("file", file), zap.Error(err))
				return
			}
			ch <- fileReport{file: filepath.ToSlash(file), report: rep}
		}(file)
	}
	wg.Wait()
	close(ch)

	result := &ScanResult{RunID: uuid.NewString()}
	for fr := range ch {
		result.Files++
		result.TotalLines += fr.report.TotalLines
		result.DetectorsRun = fr.report.DetectorsRun
		for _, v := range fr.report.Vulnerabilities {
			result.Findings = append(result.Findings, FileFinding{File: fr.file, Vulnerability: v})
		}
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i], result.Findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	result.Findings = filterBySeverity(result.Findings, e.opts.Config)
	result.Findings = applyIgnores(result.Findings, e.opts.Config)
	if e.opts.Baseline != "" {
		bl, err := loadBaseline(e.opts.Baseline)
		if err != nil {
			return nil, err
		}
		result.Findings = filterByBaseline(result.Findings, bl)
	}

	result.Elapsed = time.Since(start)
	return result, ctx.Err()
}

// analyzeFile runs one file through the analyzer, consulting the content
// cache first.
func (e *Engine) analyzeFile(path string) (*model.AnalysisReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(b)

	key := cache.Key("report-v1", source, reportCacheTag(e.opts.Config))
	if !e.opts.NoCache {
		if data, ok := cache.Load(key); ok {
			var rep model.AnalysisReport
			if err := json.Unmarshal(data, &rep); err == nil {
				return &rep, nil
			}
		}
	}

	an, err := e.newAnalyzer()
	if err != nil {
		return nil, err
	}
	rep, err := an.Analyze(source)
	if err != nil {
		return nil, err
	}
	if !e.opts.NoCache {
		if data, err := json.Marshal(rep); err == nil {
			_ = cache.Store(key, data)
		}
	}
	return rep, nil
}

// reportCacheTag captures the parts of the config that change analyzer
// output, so cached reports are invalidated when they change.
func reportCacheTag(cfg config.Config) string {
	if cfg.ExtraRules {
		return "extra"
	}
	return "standard"
}

// discoverFiles returns the Solidity source files under root. A direct file
// path is returned as-is.
func discoverFiles(root string) []string {
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		return []string{root}
	}
	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) == ".sol" {
			out = append(out, path)
		}
		return nil
	})
	return out
}
