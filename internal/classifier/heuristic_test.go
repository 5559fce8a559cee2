package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/nikhilsomani/logsift/pkg/models"
)

func classify(t *testing.T, text string) models.ClassificationResult {
	t.Helper()
	result, err := NewHeuristic().Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	return result
}

// --- severity thresholds ---

func TestHeuristicSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.Severity
	}{
		{
			name:     "no keywords yields info",
			input:    "service started on port 8080",
			expected: models.SeverityInfo,
		},
		{
			name:     "single warn yields low",
			input:    "warn: disk usage above threshold",
			expected: models.SeverityLow,
		},
		{
			name:     "single error yields low",
			input:    "error connecting to database",
			expected: models.SeverityLow,
		},
		{
			name:     "two errors yield medium",
			input:    "error one\nerror two",
			expected: models.SeverityMedium,
		},
		{
			name:     "three errors yield high",
			input:    "error one\nerror two\nerror three",
			expected: models.SeverityHigh,
		},
		{
			name:     "four errors yield critical",
			input:    "error a\nerror b\nerror c\nerror d",
			expected: models.SeverityCritical,
		},
		{
			name:     "mixed categories accumulate",
			input:    "timeout after retry\nrequest failed\npayment declined",
			expected: models.SeverityMedium,
		},
		{
			name:     "matching is case-insensitive",
			input:    "ERROR: something broke",
			expected: models.SeverityLow,
		},
		{
			name:     "error must be a whole word",
			input:    "terrors and mirrors",
			expected: models.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(t, tt.input)
			if result.Severity != tt.expected {
				t.Errorf("Severity = %q, want %q", result.Severity, tt.expected)
			}
		})
	}
}

func TestHeuristicSeverityMonotonic(t *testing.T) {
	rank := map[models.Severity]int{
		models.SeverityInfo:     0,
		models.SeverityLow:      1,
		models.SeverityMedium:   2,
		models.SeverityHigh:     3,
		models.SeverityCritical: 4,
	}

	prev := -1
	for n := 0; n <= 5; n++ {
		input := strings.TrimSpace(strings.Repeat("error occurred\n", n))
		result := classify(t, input)
		cur := rank[result.Severity]
		if cur < prev {
			t.Fatalf("severity decreased going from %d to %d error lines", n-1, n)
		}
		prev = cur
	}
}

// --- root cause priority ---

func TestHeuristicRootCause(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "sql injection outranks everything",
			input:    "error: union select detected, request failed with timeout",
			contains: "SQL injection",
		},
		{
			name:     "rate limit outranks declined",
			input:    "payment declined after 429 too many requests",
			contains: "Rate limit exceeded",
		},
		{
			name:     "declined outranks auth",
			input:    "card declined, user unauthorized",
			contains: "declined",
		},
		{
			name:     "auth outranks error",
			input:    "error: invalid token supplied",
			contains: "Authentication or authorization failure",
		},
		{
			name:     "exception maps to error cause",
			input:    "unhandled exception in worker",
			contains: "Error or exception detected",
		},
		{
			name:     "unavailable outranks timeout",
			input:    "503 service unavailable, timeout reached",
			contains: "unavailable",
		},
		{
			name:     "timeout outranks failed",
			input:    "request failed: timeout exceeded",
			contains: "Timeout detected",
		},
		{
			name:     "failed outranks warn",
			input:    "warn: retry failed",
			contains: "Operation failed",
		},
		{
			name:     "warn alone",
			input:    "warning: queue depth growing",
			contains: "Warning log entry",
		},
		{
			name:     "no keywords yields informational cause",
			input:    "user session refreshed",
			contains: "Informational log entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(t, tt.input)
			if !strings.Contains(result.RootCause, tt.contains) {
				t.Errorf("RootCause = %q, want substring %q", result.RootCause, tt.contains)
			}
		})
	}
}

// --- proposed solution ---

func TestHeuristicProposedSolution(t *testing.T) {
	t.Run("timeout adds retry guidance", func(t *testing.T) {
		result := classify(t, "timeout waiting for db")
		if !strings.Contains(result.ProposedSolution, "retries with backoff") {
			t.Errorf("ProposedSolution = %q, missing retry guidance", result.ProposedSolution)
		}
	})

	t.Run("error adds stack trace guidance", func(t *testing.T) {
		result := classify(t, "error in payment handler")
		if !strings.Contains(result.ProposedSolution, "stack traces") {
			t.Errorf("ProposedSolution = %q, missing stack trace guidance", result.ProposedSolution)
		}
	})

	t.Run("observability bullet always present", func(t *testing.T) {
		for _, input := range []string{"all good", "error somewhere", "timeout and failed"} {
			result := classify(t, input)
			if !strings.Contains(result.ProposedSolution, "structured logging and tracing") {
				t.Errorf("ProposedSolution for %q = %q, missing observability bullet",
					input, result.ProposedSolution)
			}
		}
	})
}

// --- determinism and provenance ---

func TestHeuristicDeterministic(t *testing.T) {
	input := "error: timeout after failed retry, connection declined"
	first := classify(t, input)
	for i := 0; i < 10; i++ {
		if got := classify(t, input); got != first {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestHeuristicProvenance(t *testing.T) {
	result := classify(t, "error")
	if result.Provenance.Strategy != models.StrategyHeuristic {
		t.Errorf("Provenance.Strategy = %q, want %q",
			result.Provenance.Strategy, models.StrategyHeuristic)
	}
	if result.Provenance.Error != "" {
		t.Errorf("Provenance.Error = %q, want empty", result.Provenance.Error)
	}
}
