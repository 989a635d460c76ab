package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider calls Gemini with a native response schema
type GeminiProvider struct {
	client *genai.Client
	config ProviderConfig
}

// NewGeminiProvider opens a Gemini client
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	cfg = cfg.withDefaults()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, config: cfg}, nil
}

// Name returns the provider identifier
func (p *GeminiProvider) Name() string {
	return string(ProviderGemini)
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Generate sends one prompt and concatenates the text parts of the reply
func (p *GeminiProvider) Generate(ctx context.Context, call Call) (string, error) {
	model := p.client.GenerativeModel(p.config.Model)
	model.SetTemperature(float32(p.config.Temperature))
	model.SetMaxOutputTokens(int32(p.config.MaxTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(call.System)}}

	if call.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(call.Schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(call.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini candidate has no text (finish reason: %s)", resp.Candidates[0].FinishReason)
	}
	return text.String(), nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, name := range s.Order {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
	case TypeArray:
		out.Type = genai.TypeArray
		if s.Items != nil {
			out.Items = toGenaiSchema(s.Items)
		}
	case TypeString:
		out.Type = genai.TypeString
		if len(s.Enum) > 0 {
			out.Format = "enum"
			out.Enum = s.Enum
		}
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	}
	return out
}
