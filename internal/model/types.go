package model

// Severity classifies how dangerous a finding is. The set is closed; ordering
// is defined by Rank (critical highest).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0,
}

// Rank returns the numeric position of s in the severity order. Unknown
// severities rank below info.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

func (s Severity) String() string { return string(s) }

func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityCritical):
		return SeverityCritical
	case string(SeverityHigh):
		return SeverityHigh
	case string(SeverityMedium):
		return SeverityMedium
	case string(SeverityInfo):
		return SeverityInfo
	default:
		return SeverityLow
	}
}

func SeverityGTE(a, b Severity) bool {
	return a.Rank() >= b.Rank()
}

// Vulnerability is one suspected issue reported by a detector. Values are
// created by detectors at match time and never mutated afterwards.
type Vulnerability struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Line        int      `json:"line"`   // 1-based
	Column      int      `json:"column"` // 1-based
	Suggestion  string   `json:"suggestion,omitempty"`
	Detector    string   `json:"detector,omitempty"`
}

// AnalysisReport aggregates one analysis pass over a single source file.
type AnalysisReport struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	TotalLines      int             `json:"totalLines"`
	DetectorsRun    int             `json:"detectorsRun"`
}
