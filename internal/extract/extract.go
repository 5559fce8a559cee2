// Package extract turns raw uploaded bytes into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrExtractionFailed marks an upload that could not be decoded.
// No partial text is ever returned alongside it.
var ErrExtractionFailed = errors.New("extraction failed")

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Text decodes uploaded bytes into plain text using a strategy selected
// by the filename hint: Word documents are unpacked and their paragraph
// text joined with newlines, everything else is treated as UTF-8 text.
func Text(data []byte, filename string) (string, error) {
	if isDocx(filename) {
		text, err := docxText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return text, nil
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrExtractionFailed)
	}
	return string(data), nil
}

func isDocx(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".docx" {
		return true
	}
	// Some clients upload with a generic name but a correct extension
	// embedded in a content-type-style hint.
	return strings.Contains(strings.ToLower(filename), docxMIME)
}

// docxText unzips a .docx archive and extracts the text runs from
// word/document.xml, emitting one line per paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("docx archive has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

// parseDocumentXML walks the WordprocessingML token stream, collecting
// character data inside <w:t> runs and breaking on paragraph ends.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(current.String()); s != "" {
					paragraphs = append(paragraphs, s)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		paragraphs = append(paragraphs, s)
	}

	return strings.Join(paragraphs, "\n"), nil
}
