package engine

import (
	"encoding/json"
	"os"
	"time"

	"github.com/audityzer-org/audityzer/internal/util"
)

type baseline struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Fingerprints map[string]bool `json:"fingerprints"`
}

func fingerprintOf(f FileFinding) string {
	return util.Fingerprint(f.Detector, f.File, f.Line, f.Column, f.Title)
}

// loadBaseline reads a baseline file, accepting either the full struct or a
// bare fingerprint array.
func loadBaseline(path string) (baseline, error) {
	var b baseline
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	var fp []string
	if err := json.Unmarshal(data, &fp); err == nil {
		b.Fingerprints = make(map[string]bool, len(fp))
		for _, f := range fp {
			b.Fingerprints[f] = true
		}
		return b, nil
	}
	_ = json.Unmarshal(data, &b)
	if b.Fingerprints == nil {
		b.Fingerprints = map[string]bool{}
	}
	return b, nil
}

func filterByBaseline(findings []FileFinding, b baseline) []FileFinding {
	if len(b.Fingerprints) == 0 {
		return findings
	}
	var out []FileFinding
	for _, f := range findings {
		if b.Fingerprints[fingerprintOf(f)] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WriteBaseline records the fingerprints of the current findings so later
// runs can suppress them.
func WriteBaseline(path string, findings []FileFinding) error {
	if path == "" {
		return nil
	}
	b := baseline{GeneratedAt: time.Now().UTC(), Fingerprints: map[string]bool{}}
	for _, f := range findings {
		b.Fingerprints[fingerprintOf(f)] = true
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
