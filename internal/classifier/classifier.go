// Package classifier assesses masked log content, producing a severity,
// root cause, and proposed remediation. Two interchangeable strategies
// sit behind one contract: a deterministic local heuristic and a remote
// model-backed strategy that degrades to the heuristic on any failure.
package classifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikhilsomani/logsift/pkg/models"
)

// Strategy is the classification contract. Implementations must be safe
// for concurrent use.
type Strategy interface {
	Classify(ctx context.Context, maskedText string) (models.ClassificationResult, error)
	Name() string
}

// Service selects between the external and heuristic strategies.
// Classification through Service never fails: any external error,
// timeout, or malformed response falls back to the heuristic and the
// failure reason is recorded in the result's provenance.
type Service struct {
	external  Strategy // nil when no external provider is configured
	heuristic *Heuristic
	timeout   time.Duration
}

// NewService builds a Service. Pass a nil external strategy to run in
// pure heuristic mode.
func NewService(external Strategy, timeout time.Duration) *Service {
	return &Service{
		external:  external,
		heuristic: NewHeuristic(),
		timeout:   timeout,
	}
}

// Classify runs the external strategy when configured, falling back to
// the heuristic on any failure. A single attempt, no retries; the
// external call is bounded by the configured timeout.
func (s *Service) Classify(ctx context.Context, maskedText string) models.ClassificationResult {
	if s.external == nil {
		return s.Heuristic(ctx, maskedText)
	}

	extCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.external.Classify(extCtx, maskedText)
	if err != nil {
		slog.Warn("external classifier failed, falling back to heuristic",
			"provider", s.external.Name(), "error", err)
		fallback, _ := s.heuristic.Classify(ctx, maskedText)
		fallback.Provenance.Error = err.Error()
		return fallback
	}

	result.Provenance = models.Provenance{Strategy: models.StrategyExternal}
	return result
}

// Heuristic classifies with the local rule-based strategy only,
// regardless of external configuration. Used for per-line analysis
// where external calls would be too slow and costly.
func (s *Service) Heuristic(_ context.Context, maskedText string) models.ClassificationResult {
	result, _ := s.heuristic.Classify(context.Background(), maskedText)
	return result
}
