// Package models contains shared data models used across the LogSift codebase.
package models

// Severity is the assessed impact level of a log artifact.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is one of the five known severity levels.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// StrategyHeuristic and StrategyExternal identify which classifier
// produced a result.
const (
	StrategyHeuristic = "heuristic"
	StrategyExternal  = "external"
)

// Provenance records which strategy produced a classification and, when
// the external strategy degraded to the heuristic, why.
type Provenance struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// ClassificationResult is the assessment of one masked artifact or line.
// Once stored under a fingerprint it is never re-derived or mutated;
// the from_cache annotation lives on the response types only.
type ClassificationResult struct {
	Severity         Severity   `json:"severity"`
	RootCause        string     `json:"root_cause"`
	ProposedSolution string     `json:"proposed_solution"`
	Provenance       Provenance `json:"provenance"`
}

// LineResult is the retained assessment of a single masked log line.
// Lines whose severity is info are computed but never stored or returned.
type LineResult struct {
	Line        string               `json:"line"`
	ContentHash string               `json:"content_hash"`
	Result      ClassificationResult `json:"result"`
	FromCache   bool                 `json:"from_cache"`
}
