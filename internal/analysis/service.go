// Package analysis orchestrates the extract → normalize → mask →
// fingerprint → cache → classify pipeline behind the public preview and
// analyze operations.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nikhilsomani/logsift/internal/cache"
	"github.com/nikhilsomani/logsift/internal/classifier"
	"github.com/nikhilsomani/logsift/internal/extract"
	"github.com/nikhilsomani/logsift/internal/pipeline"
	"github.com/nikhilsomani/logsift/internal/store"
	"github.com/nikhilsomani/logsift/pkg/models"
)

// hotCacheSize bounds the in-process result cache. Per-line analysis of
// chatty logs hits the same fingerprints repeatedly, so a small LRU in
// front of Redis removes most round trips.
const hotCacheSize = 4096

// Service wires the pipeline to the classification strategies and the
// two cache tiers. Payloads are transient and recomputed per request;
// only fingerprint → result pairs outlive a call.
type Service struct {
	classifier *classifier.Service
	store      store.Store
	cache      cache.Cache
	hot        *lru.Cache[string, models.ClassificationResult]
}

// NewService creates the orchestrator.
func NewService(cls *classifier.Service, st store.Store, ca cache.Cache) (*Service, error) {
	hot, err := lru.New[string, models.ClassificationResult](hotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create hot cache: %w", err)
	}
	return &Service{classifier: cls, store: st, cache: ca, hot: hot}, nil
}

// PreviewResult is the outcome of the non-classifying preview operation.
type PreviewResult struct {
	Kind        pipeline.Kind
	Preview     any
	MaskedText  string
	ContentHash string
}

// AnalyzeParams is the validated input to Analyze. Exactly one of JSON
// or Text is set, selected by Kind.
type AnalyzeParams struct {
	Kind    pipeline.Kind
	JSON    any
	Text    string
	PerLine bool
}

// AnalyzeResult is the outcome of an analyze operation. Aggregate mode
// fills FromCache/ContentHash/Preview/Result; per-line mode fills
// Lines/Summary.
type AnalyzeResult struct {
	PerLine     bool
	FromCache   bool
	ContentHash string
	Preview     any
	Result      *models.ClassificationResult
	Lines       []models.LineResult
	Summary     *models.ClassificationResult
}

// Preview runs extract → normalize → mask and fingerprints the result
// without touching the cache or any classifier.
func (s *Service) Preview(_ context.Context, data []byte, filename string) (*PreviewResult, error) {
	text, err := extract.Text(data, filename)
	if err != nil {
		return nil, err
	}

	masked := pipeline.Mask(pipeline.Normalize(text))
	maskedText := pipeline.Canonical(masked)

	return &PreviewResult{
		Kind:        masked.Kind,
		Preview:     masked.Preview(),
		MaskedText:  maskedText,
		ContentHash: pipeline.FingerprintText(maskedText),
	}, nil
}

// Analyze normalizes, masks, fingerprints, and classifies content,
// consulting the cache tiers first. Cache and store failures never fail
// the request; at worst the result is recomputed or goes unpersisted.
func (s *Service) Analyze(ctx context.Context, params AnalyzeParams) (*AnalyzeResult, error) {
	var payload pipeline.Payload
	if params.Kind == pipeline.KindJSON {
		payload = pipeline.NormalizeJSON(params.JSON)
	} else {
		payload = pipeline.Normalize(params.Text)
	}

	masked := pipeline.Mask(payload)

	if params.PerLine && masked.Kind == pipeline.KindText {
		return s.analyzePerLine(ctx, masked)
	}

	maskedText := pipeline.Canonical(masked)
	contentHash := pipeline.FingerprintText(maskedText)
	preview := masked.Preview()

	if cached, ok := s.lookup(ctx, contentHash); ok {
		return &AnalyzeResult{
			FromCache:   true,
			ContentHash: contentHash,
			Preview:     preview,
			Result:      cached,
		}, nil
	}

	result := s.classifier.Classify(ctx, maskedText)
	s.persist(ctx, contentHash, previewString(preview), maskedText, result)

	return &AnalyzeResult{
		ContentHash: contentHash,
		Preview:     preview,
		Result:      &result,
	}, nil
}

// analyzePerLine classifies each line of an already-masked text payload
// with the heuristic strategy only. Lines are processed and returned in
// input order; deduplication already happened during normalization.
// Informational lines are computed but neither stored nor returned.
func (s *Service) analyzePerLine(ctx context.Context, masked pipeline.Payload) (*AnalyzeResult, error) {
	lines := masked.Lines()
	results := make([]models.LineResult, 0, len(lines))

	for _, line := range lines {
		lineHash := pipeline.FingerprintText(line)

		if cached, ok := s.lookup(ctx, lineHash); ok {
			if cached.Severity != models.SeverityInfo {
				results = append(results, models.LineResult{
					Line:        line,
					ContentHash: lineHash,
					Result:      *cached,
					FromCache:   true,
				})
			}
			continue
		}

		result := s.classifier.Heuristic(ctx, line)
		if result.Severity == models.SeverityInfo {
			continue
		}
		s.persist(ctx, lineHash, line, line, result)
		results = append(results, models.LineResult{
			Line:        line,
			ContentHash: lineHash,
			Result:      result,
		})
	}

	summary := s.classifier.Heuristic(ctx, masked.Text)

	return &AnalyzeResult{
		PerLine: true,
		Lines:   results,
		Summary: &summary,
	}, nil
}

// lookup checks the in-process LRU, then Redis, then the durable store.
// Any read error is logged and treated as a miss. Lower tiers backfill
// higher ones on a hit.
func (s *Service) lookup(ctx context.Context, fingerprint string) (*models.ClassificationResult, bool) {
	if result, ok := s.hot.Get(fingerprint); ok {
		return &result, true
	}

	result, found, err := s.cache.GetResult(ctx, fingerprint)
	if err != nil {
		slog.Warn("cache lookup failed, treating as miss", "fingerprint", short(fingerprint), "error", err)
	} else if found {
		s.hot.Add(fingerprint, *result)
		return result, true
	}

	stored, err := s.store.GetAnalysisByHash(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("store lookup failed, treating as miss", "fingerprint", short(fingerprint), "error", err)
		}
		return nil, false
	}

	s.hot.Add(fingerprint, stored.Result)
	if err := s.cache.SetResult(ctx, fingerprint, stored.Result); err != nil {
		slog.Warn("cache backfill failed", "fingerprint", short(fingerprint), "error", err)
	}
	return &stored.Result, true
}

// persist writes a freshly computed result to all tiers, best effort.
// A concurrent write for the same fingerprint loses quietly; the stored
// result for a fingerprint is referentially stable either way.
func (s *Service) persist(ctx context.Context, fingerprint, inputPreview, maskedPayload string, result models.ClassificationResult) {
	analysis := &models.Analysis{
		ID:            uuid.New(),
		ContentHash:   fingerprint,
		InputPreview:  inputPreview,
		MaskedPayload: maskedPayload,
		Result:        result,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateAnalysis(ctx, analysis); err != nil {
		slog.Warn("storing analysis failed", "fingerprint", short(fingerprint), "error", err)
	}
	if err := s.cache.SetResult(ctx, fingerprint, result); err != nil {
		slog.Warn("caching analysis failed", "fingerprint", short(fingerprint), "error", err)
	}
	s.hot.Add(fingerprint, result)
}

// previewString renders a preview value for persistence.
func previewString(preview any) string {
	if s, ok := preview.(string); ok {
		return s
	}
	enc, err := json.Marshal(preview)
	if err != nil {
		return ""
	}
	return string(enc)
}

func short(fingerprint string) string {
	if len(fingerprint) > 10 {
		return fingerprint[:10]
	}
	return fingerprint
}
