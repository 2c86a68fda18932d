package engine

import (
	"strings"

	"github.com/audityzer-org/audityzer/internal/config"
	"github.com/audityzer-org/audityzer/internal/model"
)

// filterBySeverity removes findings below the configured severity threshold.
func filterBySeverity(findings []FileFinding, cfg config.Config) []FileFinding {
	threshold := model.ParseSeverity(cfg.SeverityThreshold)
	if threshold == model.SeverityInfo {
		return findings
	}
	var out []FileFinding
	for _, f := range findings {
		if model.SeverityGTE(f.Severity, threshold) {
			out = append(out, f)
		}
	}
	return out
}

// applyIgnores drops findings matched by an ignore rule. A rule matches when
// its detector equals the finding's detector (or is "*") and its path is a
// substring of the finding's file path (empty matches everything).
func applyIgnores(findings []FileFinding, cfg config.Config) []FileFinding {
	if len(cfg.Ignore) == 0 {
		return findings
	}
	var out []FileFinding
	for _, f := range findings {
		if !ignored(f, cfg.Ignore) {
			out = append(out, f)
		}
	}
	return out
}

func ignored(f FileFinding, rules []config.IgnoreRule) bool {
	for _, r := range rules {
		if r.Detector != "" && r.Detector != "*" && r.Detector != f.Detector {
			continue
		}
		if r.Path != "" && !strings.Contains(f.File, r.Path) {
			continue
		}
		return true
	}
	return false
}
