// Package extract pulls plain text out of uploaded legal documents.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with no text extractor
var ErrUnsupportedFormat = errors.New("unsupported document format")

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Extractor extracts text from judgments, pleadings, witness statements and schedules.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of content. The format is chosen from the
// filename extension, then from the MIME type when the extension is missing.
func (e *Extractor) Extract(filename, mimeType string, content []byte) (string, error) {
	format := formatOf(filename, mimeType)
	var (
		text string
		err  error
	)
	switch format {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".xlsx":
		text, err = extractExcel(content)
	case ".txt", ".md":
		text, err = extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Supported reports whether the file can be extracted
func (e *Extractor) Supported(filename, mimeType string) bool {
	switch formatOf(filename, mimeType) {
	case ".pdf", ".docx", ".xlsx", ".txt", ".md":
		return true
	}
	return false
}

func formatOf(filename, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if ext == ".text" || ext == ".markdown" {
			return ".txt"
		}
		return ext
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch {
	case mimeType == mimePDF:
		return ".pdf"
	case mimeType == mimeDOCX:
		return ".docx"
	case mimeType == mimeXLSX:
		return ".xlsx"
	case strings.HasPrefix(mimeType, "text/"):
		return ".txt"
	}
	return ""
}
