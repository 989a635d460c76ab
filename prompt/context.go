package prompt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"jurisai-backend/generation"
	"jurisai-backend/models"
)

// DefaultDocumentCharCap bounds each uploaded document included in a prompt
const DefaultDocumentCharCap = 3000

var (
	ErrCourtRequired  = errors.New("matter court must be set before generating an argument")
	ErrMatterRequired = errors.New("a matter must be selected")
	ErrMissingInput   = errors.New("required input missing")
	ErrUnknownTask    = errors.New("unknown task")
)

// Mode is the output contract of a compiled prompt
type Mode string

const (
	ModeText       Mode = "text"
	ModeStructured Mode = "structured"
)

// SourceDocument is extracted text from an uploaded file
type SourceDocument struct {
	Name string
	Text string
}

// Context is the assembled input to a template. Nil and empty slots are omitted.
type Context struct {
	Matter         *models.Matter
	Authorities    []models.LegalAuthority
	Issues         []models.LegalIssue
	Issue          *models.LegalIssue
	LatestArgument *models.Argument
	Documents      []SourceDocument

	Query         string
	Position      models.Position
	FactPattern   string
	Expansions    models.FactExpansions
	ArgumentText  string
	Corrections   string
	DocumentType  models.DocumentType
	BriefingNotes string
	JudgmentText  string
}

// Compiled is a ready-to-send prompt and its output contract
type Compiled struct {
	Task                 models.Task
	Mode                 Mode
	Text                 string
	Schema               *generation.Schema
	AllowExternalContext bool
}

// Request converts the compiled prompt into a generation request
func (c *Compiled) Request() generation.Request {
	return generation.Request{
		Prompt:               c.Text,
		AllowExternalContext: c.AllowExternalContext,
		Schema:               c.Schema,
	}
}

func compiled(task models.Task, b *Builder, external bool) *Compiled {
	schema := generation.SchemaFor(task)
	mode := ModeText
	if schema != nil {
		mode = ModeStructured
	}
	return &Compiled{
		Task:                 task,
		Mode:                 mode,
		Text:                 b.String(),
		Schema:               schema,
		AllowExternalContext: external,
	}
}

// FormatAuthorityLine renders "- title (citation): principle [Status]"
func FormatAuthorityLine(a models.LegalAuthority) string {
	return fmt.Sprintf("- %s (%s): %s [%s]", a.Title, a.Citation, a.LegalPrinciple, a.Validity.OrDefault())
}

func authorityLines(authorities []models.LegalAuthority) string {
	out := make([]string, 0, len(authorities))
	for _, a := range authorities {
		out = append(out, FormatAuthorityLine(a))
	}
	return strings.Join(out, "\n")
}

func issueLines(issues []models.LegalIssue) string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		line := "- " + issue.Question
		if issue.Summary != "" {
			line += ": " + issue.Summary
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func documentBlocks(docs []SourceDocument) string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("Document %d", len(out)+1)
		}
		out = append(out, "### "+name+"\n"+d.Text)
	}
	return strings.Join(out, "\n\n")
}

// Truncate caps text at limit characters. Shorter text is returned unchanged.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// CapDocuments truncates every document to limit characters
func CapDocuments(docs []SourceDocument, limit int) []SourceDocument {
	out := make([]SourceDocument, len(docs))
	for i, d := range docs {
		out[i] = SourceDocument{Name: d.Name, Text: Truncate(d.Text, limit)}
	}
	return out
}

func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, what)
}
