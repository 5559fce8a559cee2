package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/nikhilsomani/logsift/internal/analysis"
	"github.com/nikhilsomani/logsift/internal/api/response"
	"github.com/nikhilsomani/logsift/internal/extract"
	"github.com/nikhilsomani/logsift/internal/pipeline"
)

// Previewer defines the interface the upload handler depends on.
type Previewer interface {
	Preview(ctx context.Context, data []byte, filename string) (*analysis.PreviewResult, error)
}

// NewUploadHandler returns an http.HandlerFunc for POST /api/v1/upload.
// It accepts one multipart file and returns the masked, deduplicated
// preview plus its content hash without classifying anything.
func NewUploadHandler(svc Previewer, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid multipart upload", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "No file provided", nil)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED", "Failed to read upload", nil)
			return
		}

		result, err := svc.Preview(r.Context(), data, header.Filename)
		if err != nil {
			if errors.Is(err, extract.ErrExtractionFailed) {
				response.Error(w, http.StatusBadRequest, "EXTRACTION_FAILED",
					"File could not be decoded", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, uploadResponse{
			Kind:        result.Kind,
			Preview:     result.Preview,
			MaskedText:  result.MaskedText,
			ContentHash: result.ContentHash,
		})
	}
}

type uploadResponse struct {
	Kind        pipeline.Kind `json:"kind"`
	Preview     any           `json:"preview"`
	MaskedText  string        `json:"masked_text"`
	ContentHash string        `json:"content_hash"`
}
