package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/nikhilsomani/logsift/pkg/models"
)

// category is one weighted keyword family in the heuristic table.
// Matching runs over lowercased input, counting non-overlapping hits.
type category struct {
	name    string
	weight  int
	pattern *regexp.Regexp
}

// categories drive the weighted severity score. The table order is
// cosmetic; scoring sums all categories and root-cause selection uses
// its own fixed priority ranking below.
var categories = []category{
	{"error", 3, regexp.MustCompile(`\berror\b`)},
	{"exception", 3, regexp.MustCompile(`\bexception\b`)},
	{"failed", 2, regexp.MustCompile(`\bfailed|failure\b`)},
	{"timeout", 2, regexp.MustCompile(`\btimeout\b`)},
	{"warn", 1, regexp.MustCompile(`\bwarn(ing)?\b`)},
	{"declined", 2, regexp.MustCompile(`\bdeclined\b`)},
	{"rate_limit", 2, regexp.MustCompile(`rate limit|429 too many requests|too many requests`)},
	{"sql_injection", 3, regexp.MustCompile(`sql injection|union select|drop table`)},
	{"unavailable", 2, regexp.MustCompile(`service unavailable|503 service unavailable|temporarily unavailable`)},
	{"auth", 2, regexp.MustCompile(`unauthorized|forbidden|bad credentials|invalid token|authentication failed`)},
}

// rootCausePriority ranks categories for root-cause selection. The
// first matched entry wins even when several categories matched, so
// the ordering is load-bearing.
var rootCausePriority = []struct {
	names []string
	cause string
}{
	{[]string{"sql_injection"}, "Potential SQL injection or malicious query pattern detected in this log entry."},
	{[]string{"rate_limit"}, "Rate limit exceeded for this request or API key (HTTP 429 / Too Many Requests)."},
	{[]string{"declined"}, "Operation or payment was declined for this request."},
	{[]string{"auth"}, "Authentication or authorization failure detected in this log entry."},
	{[]string{"exception", "error"}, "Error or exception detected in this log entry."},
	{[]string{"unavailable"}, "Service or dependency unavailable (for example, HTTP 503 Service Unavailable)."},
	{[]string{"timeout"}, "Timeout detected in this log entry, likely due to network or database latency."},
	{[]string{"failed"}, "Operation failed in this log entry. Upstream or downstream component may be unhealthy."},
	{[]string{"warn"}, "Warning log entry indicating a potential but non-critical issue."},
}

const defaultRootCause = "Informational log entry; no obvious error keywords detected."

// Heuristic is the deterministic, always-available classification
// strategy. Identical input always yields an identical result.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string { return models.StrategyHeuristic }

// Classify scores lowercased keyword occurrences against fixed
// thresholds. Never returns an error.
func (h *Heuristic) Classify(_ context.Context, maskedText string) (models.ClassificationResult, error) {
	lower := strings.ToLower(maskedText)

	counts := make(map[string]int, len(categories))
	score := 0
	for _, c := range categories {
		n := len(c.pattern.FindAllString(lower, -1))
		counts[c.name] = n
		score += n * c.weight
	}

	return models.ClassificationResult{
		Severity:         severityForScore(score),
		RootCause:        rootCause(counts),
		ProposedSolution: proposedSolution(counts),
		Provenance:       models.Provenance{Strategy: models.StrategyHeuristic},
	}, nil
}

func severityForScore(score int) models.Severity {
	switch {
	case score >= 12:
		return models.SeverityCritical
	case score >= 8:
		return models.SeverityHigh
	case score >= 4:
		return models.SeverityMedium
	case score >= 1:
		return models.SeverityLow
	default:
		return models.SeverityInfo
	}
}

func rootCause(counts map[string]int) string {
	for _, entry := range rootCausePriority {
		for _, name := range entry.names {
			if counts[name] > 0 {
				return entry.cause
			}
		}
	}
	return defaultRootCause
}

// proposedSolution assembles a bullet list from independently triggered
// checks. Multiple bullets can co-occur; the observability bullet is
// always present.
func proposedSolution(counts map[string]int) string {
	var bullets []string
	if counts["timeout"] > 0 {
		bullets = append(bullets, "- Increase timeouts, add retries with backoff, verify network/DB availability.")
	}
	if counts["error"] > 0 || counts["exception"] > 0 {
		bullets = append(bullets, "- Inspect stack traces for failing components and recent deployments.")
	}
	if counts["failed"] > 0 {
		bullets = append(bullets, "- Add guards and input validation; verify external service dependencies.")
	}
	bullets = append(bullets, "- Enable structured logging and tracing to pinpoint failing requests.")
	return strings.Join(bullets, "\n")
}

var _ Strategy = (*Heuristic)(nil)
