package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhilsomani/logsift/internal/analysis"
	"github.com/nikhilsomani/logsift/internal/extract"
	"github.com/nikhilsomani/logsift/internal/pipeline"
)

// --- mock Previewer ---

type mockPreviewer struct {
	fn       func(data []byte, filename string) (*analysis.PreviewResult, error)
	data     []byte
	filename string
}

func (m *mockPreviewer) Preview(_ context.Context, data []byte, filename string) (*analysis.PreviewResult, error) {
	m.data = data
	m.filename = filename
	return m.fn(data, filename)
}

func successPreviewer() *mockPreviewer {
	return &mockPreviewer{fn: func(data []byte, filename string) (*analysis.PreviewResult, error) {
		return &analysis.PreviewResult{
			Kind:        pipeline.KindText,
			Preview:     "User login failed\n[IP] connected",
			MaskedText:  "User login failed\n[IP] connected",
			ContentHash: "abc123",
		}, nil
	}}
}

// --- helpers ---

func uploadReq(t *testing.T, fieldName, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	fw, err := mpw.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, content)
	mpw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	r.Header.Set("Content-Type", mpw.FormDataContentType())
	return r
}

const maxUpload = int64(10 << 20)

// --- tests ---

func TestUploadHandler_Success(t *testing.T) {
	mock := successPreviewer()
	h := NewUploadHandler(mock, maxUpload)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, uploadReq(t, "file", "app.log",
		"User login failed\nUser login failed\n192.168.1.1 connected"))

	data := parseOK(t, rec)
	if data["kind"] != "text" {
		t.Errorf("kind = %v, want text", data["kind"])
	}
	if data["masked_text"] != "User login failed\n[IP] connected" {
		t.Errorf("masked_text = %v", data["masked_text"])
	}
	if data["content_hash"] != "abc123" {
		t.Errorf("content_hash = %v", data["content_hash"])
	}
	if mock.filename != "app.log" {
		t.Errorf("filename = %q, want app.log", mock.filename)
	}
}

func TestUploadHandler_NoFile(t *testing.T) {
	h := NewUploadHandler(successPreviewer(), maxUpload)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, uploadReq(t, "attachment", "app.log", "content"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "VALIDATION_FAILED" {
		t.Errorf("got %d %s, want 400 VALIDATION_FAILED", status, code)
	}
}

func TestUploadHandler_NotMultipart(t *testing.T) {
	h := NewUploadHandler(successPreviewer(), maxUpload)
	rec := httptest.NewRecorder()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/upload",
		bytes.NewReader([]byte("raw body")))
	h.ServeHTTP(rec, r)

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "VALIDATION_FAILED" {
		t.Errorf("got %d %s, want 400 VALIDATION_FAILED", status, code)
	}
}

func TestUploadHandler_ExtractionFailed(t *testing.T) {
	mock := &mockPreviewer{fn: func(data []byte, filename string) (*analysis.PreviewResult, error) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8 text", extract.ErrExtractionFailed)
	}}
	h := NewUploadHandler(mock, maxUpload)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, uploadReq(t, "file", "dump.bin", "\xff\xfe"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "EXTRACTION_FAILED" {
		t.Errorf("got %d %s, want 400 EXTRACTION_FAILED", status, code)
	}
}

func TestUploadHandler_ServiceError(t *testing.T) {
	mock := &mockPreviewer{fn: func(data []byte, filename string) (*analysis.PreviewResult, error) {
		return nil, errors.New("boom")
	}}
	h := NewUploadHandler(mock, maxUpload)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, uploadReq(t, "file", "app.log", "content"))

	status, code := parseErr(t, rec)
	if status != http.StatusInternalServerError || code != "INTERNAL_ERROR" {
		t.Errorf("got %d %s, want 500 INTERNAL_ERROR", status, code)
	}
}

func TestUploadHandler_TooLarge(t *testing.T) {
	h := NewUploadHandler(successPreviewer(), 64)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, uploadReq(t, "file", "big.log",
		"this body is comfortably larger than the sixty-four byte limit set above"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "VALIDATION_FAILED" {
		t.Errorf("got %d %s, want 400 VALIDATION_FAILED", status, code)
	}
}
