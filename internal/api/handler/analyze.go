package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nikhilsomani/logsift/internal/analysis"
	"github.com/nikhilsomani/logsift/internal/api/response"
	"github.com/nikhilsomani/logsift/internal/pipeline"
	"github.com/nikhilsomani/logsift/pkg/models"
)

// Analyzer defines the interface the analyze handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, params analysis.AnalyzeParams) (*analysis.AnalyzeResult, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kind    string          `json:"kind"`
			Content json.RawMessage `json:"content"`
			PerLine bool            `json:"per_line"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid JSON body", nil)
			return
		}

		if len(req.Content) == 0 || string(req.Content) == "null" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "content is required", nil)
			return
		}

		params := analysis.AnalyzeParams{PerLine: req.PerLine}
		if req.Kind == "json" {
			params.Kind = pipeline.KindJSON

			// UseNumber keeps number formatting intact so the canonical
			// serialization (and therefore the fingerprint) is stable.
			dec := json.NewDecoder(strings.NewReader(string(req.Content)))
			dec.UseNumber()
			if err := dec.Decode(&params.JSON); err != nil {
				response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "content is not valid JSON", nil)
				return
			}
		} else {
			params.Kind = pipeline.KindText
			var text string
			if err := json.Unmarshal(req.Content, &text); err != nil {
				text = string(req.Content)
			}
			params.Text = text
		}

		result, err := svc.Analyze(r.Context(), params)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		if result.PerLine {
			lines := result.Lines
			if lines == nil {
				lines = []models.LineResult{}
			}
			response.JSON(w, perLineResponse{
				PerLine: true,
				Lines:   lines,
				Summary: result.Summary,
			})
			return
		}

		response.JSON(w, analyzeResponse{
			FromCache:   result.FromCache,
			ContentHash: result.ContentHash,
			Preview:     result.Preview,
			Result:      result.Result,
		})
	}
}

type analyzeResponse struct {
	FromCache   bool                         `json:"from_cache"`
	ContentHash string                       `json:"content_hash"`
	Preview     any                          `json:"preview"`
	Result      *models.ClassificationResult `json:"result"`
}

type perLineResponse struct {
	PerLine bool                         `json:"per_line"`
	Lines   []models.LineResult          `json:"lines"`
	Summary *models.ClassificationResult `json:"summary"`
}
