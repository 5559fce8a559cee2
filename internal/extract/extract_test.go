package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

// buildDocx assembles a minimal .docx archive in memory with the given
// document.xml body.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const simpleDoc = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>error: first line</w:t></w:r></w:p>
    <w:p><w:r><w:t>second </w:t></w:r><w:r><w:t>line</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestTextPlain(t *testing.T) {
	got, err := Text([]byte("line one\nline two"), "app.log")
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("Text = %q, want input unchanged", got)
	}
}

func TestTextInvalidUTF8(t *testing.T) {
	_, err := Text([]byte{0xff, 0xfe, 0x00, 0x01}, "dump.bin")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, simpleDoc)

	got, err := Text(data, "report.docx")
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	want := "error: first line\nsecond line"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestTextDocxCaseInsensitiveExtension(t *testing.T) {
	data := buildDocx(t, simpleDoc)
	if _, err := Text(data, "REPORT.DOCX"); err != nil {
		t.Errorf("Text returned error for uppercase extension: %v", err)
	}
}

func TestTextCorruptDocx(t *testing.T) {
	_, err := Text([]byte("this is not a zip archive"), "broken.docx")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestTextDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	w.Write([]byte("<styles/>"))
	zw.Close()

	_, err = Text(buf.Bytes(), "empty.docx")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestTextEmptyFile(t *testing.T) {
	got, err := Text(nil, "empty.log")
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if got != "" {
		t.Errorf("Text = %q, want empty", got)
	}
}
