package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><w:document><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Plain(t *testing.T) {
	e := NewExtractor()
	got, err := e.Extract("judgment.txt", "", []byte("\xEF\xBB\xBFJUDGMENT\r\n1. The appeal is allowed.\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "JUDGMENT\n1. The appeal is allowed.", got)
}

func TestExtract_PlainInvalidUTF8(t *testing.T) {
	got, err := NewExtractor().Extract("notes.md", "", []byte("hello\x80world"))
	require.NoError(t, err)
	assert.Equal(t, "hello�world", got)
}

func TestExtract_DOCXParagraphs(t *testing.T) {
	body := `<w:p w:rsidR="00A1"><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>PARTICULARS OF CLAIM</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">1. The Claimant is </w:t></w:r><w:r><w:t>Acme &amp; Co.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>2. The Defendant</w:t></w:r></w:p>`

	got, err := NewExtractor().Extract("claim.docx", "", buildDOCX(t, body))
	require.NoError(t, err)
	assert.Equal(t, "PARTICULARS OF CLAIM\n1. The Claimant is Acme & Co.\n2. The Defendant", got)
}

func TestExtract_DOCXNotZip(t *testing.T) {
	_, err := NewExtractor().Extract("claim.docx", "", []byte("not a zip"))
	assert.Error(t, err)
}

func TestExtract_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Head of loss"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Amount"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Lost profits"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "40000"))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := NewExtractor().Extract("schedule.xlsx", "", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Head of loss\tAmount\nLost profits\t40000", got)
}

func TestExtract_MimeFallback(t *testing.T) {
	got, err := NewExtractor().Extract("upload", "text/plain; charset=utf-8", []byte("pasted"))
	require.NoError(t, err)
	assert.Equal(t, "pasted", got)
}

func TestExtract_Unsupported(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("scan.png", "image/png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, e.Supported("scan.png", "image/png"))
	assert.True(t, e.Supported("judgment.PDF", ""))
	assert.True(t, e.Supported("", mimeDOCX))
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := NewExtractor().Extract("judgment.pdf", "", []byte("%PDF-garbage"))
	assert.Error(t, err)
}
