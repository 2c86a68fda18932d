package report

import (
	"encoding/json"

	"github.com/audityzer-org/audityzer/internal/engine"
	"github.com/audityzer-org/audityzer/internal/model"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}
type sarifArt struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityHigh, model.SeverityCritical:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF serializes findings as a SARIF 2.1.0 document.
func ToSARIF(findings []engine.FileFinding) ([]byte, error) {
	var results []sarifResult
	for _, f := range findings {
		results = append(results, sarifResult{
			RuleID:  f.Detector,
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Title + ": " + f.Description},
			Locations: []sarifLoc{{Physical: sarifPhys{
				ArtifactLocation: sarifArt{URI: f.File},
				Region:           sarifRegion{StartLine: f.Line, StartColumn: f.Column},
			}}},
		})
	}
	s := sarif{Version: "2.1.0", Runs: []sarifRun{{
		Tool:    sarifTool{Driver: sarifDriver{Name: "audityzer"}},
		Results: results,
	}}}
	return json.MarshalIndent(s, "", "  ")
}
