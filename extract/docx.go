package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

const (
	docxBodyPath     = "word/document.xml"
	contentTypesPath = "[Content_Types].xml"
	docxMainType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	// paragraphRe matches a whole <w:p> element, with or without attributes
	paragraphRe = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	runTextRe   = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	tabRe       = regexp.MustCompile(`<w:tab/>`)
	partNameRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"`)
	partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"[^>]+PartName="([^"]+)"`)
)

// extractDOCX returns one line per paragraph so numbered pleadings keep their shape
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: not a zip: %w", err)
	}

	bodyPath := mainDocumentPath(zr)
	if bodyPath == "" {
		bodyPath = docxBodyPath
	}
	body, err := readZipFile(zr, bodyPath)
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	paragraphs := paragraphRe.FindAllString(string(body), -1)
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = tabRe.ReplaceAllString(p, "<w:t>\t</w:t>")
		var line strings.Builder
		for _, run := range runTextRe.FindAllStringSubmatch(p, -1) {
			line.WriteString(run[1])
		}
		text := strings.TrimSpace(html.UnescapeString(line.String()))
		if text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n"), nil
}

// mainDocumentPath reads the main part name from [Content_Types].xml
func mainDocumentPath(zr *zip.Reader) string {
	types, err := readZipFile(zr, contentTypesPath)
	if err != nil {
		return ""
	}
	content := string(types)
	if m := partNameRe.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimPrefix(m[1], "/")
	}
	if m := partNameRe2.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimPrefix(m[1], "/")
	}
	return ""
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
