package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrGenerationFailed = errors.New("failed to generate content")
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrMalformedOutput  = errors.New("structured output could not be parsed")
)

// Request is one generation call
type Request struct {
	Prompt string
	// AllowExternalContext lets the model consult public sources. OpenAI and
	// Anthropic attach their web search tool; Gemini in this SDK has no search
	// tool, so it only changes the system instruction there.
	AllowExternalContext bool
	Schema               *Schema // nil for free text
}

// Result carries exactly one of Text or Structured
type Result struct {
	Text       string
	Structured json.RawMessage
}

// Decode unmarshals a structured result into v
func (r *Result) Decode(v any) error {
	if len(r.Structured) == 0 {
		return fmt.Errorf("%w: result has no structured payload", ErrMalformedOutput)
	}
	return json.Unmarshal(r.Structured, v)
}

// Invoker sends a compiled prompt to a generative model
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
}

// Call is what a Provider receives
type Call struct {
	System    string
	Prompt    string
	Schema    *Schema
	WebSearch bool
}

// Provider is one model backend. It returns the raw model text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, call Call) (string, error)
}

// Client adapts a Provider to the Invoker contract
type Client struct {
	provider Provider
	logger   *zap.Logger
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an Invoker backed by provider
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{provider: provider, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke runs one generation. There is no retry; failures wrap ErrGenerationFailed.
func (c *Client) Invoke(ctx context.Context, req Request) (*Result, error) {
	if c.provider == nil {
		return nil, errors.New("generation provider not set")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrEmptyPrompt)
	}

	call := Call{
		System:    systemInstruction(req.AllowExternalContext),
		Prompt:    req.Prompt,
		Schema:    req.Schema,
		WebSearch: req.AllowExternalContext,
	}

	raw, err := c.provider.Generate(ctx, call)
	if err != nil {
		c.logger.Warn("generation call failed",
			zap.String("provider", c.provider.Name()),
			zap.Int("prompt_chars", len(req.Prompt)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if req.Schema == nil {
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("%w: model returned empty content", ErrGenerationFailed)
		}
		return &Result{Text: raw}, nil
	}

	structured, err := conformJSON(raw, req.Schema)
	if err != nil {
		c.logger.Warn("structured output rejected",
			zap.String("provider", c.provider.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return &Result{Structured: structured}, nil
}

func systemInstruction(external bool) string {
	var b strings.Builder
	b.WriteString("You are JurisAI, an assistant to UK legal practitioners. Write in formal legal English and cite UK authorities in standard form.")
	if external {
		b.WriteString(" You may draw on current public legal sources, including recent case law and legislation, to supplement the material provided.")
	} else {
		b.WriteString(" Rely only on the material provided in the prompt and do not introduce outside sources.")
	}
	return b.String()
}

// conformJSON parses the first JSON object in raw and conforms it to schema
func conformJSON(raw string, schema *Schema) (json.RawMessage, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedOutput)
	}

	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	conformed, ok := schema.Conform(decoded)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not a %s", ErrMalformedOutput, schema.Type)
	}

	out, err := json.Marshal(conformed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// extractJSONObject strips markdown fences and returns the outermost {...} span
func extractJSONObject(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// schemaInstruction asks a text-only provider to answer in JSON
func schemaInstruction(schema *Schema) string {
	return "Respond with a single JSON object and nothing else. It must match this JSON schema:\n" + schema.String()
}
