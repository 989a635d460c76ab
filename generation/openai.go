package generation

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider calls the OpenAI Responses API
type OpenAIProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewOpenAIProvider creates an OpenAI backend
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	cfg = cfg.withDefaults()
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{client: &client, config: cfg}
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string {
	return string(ProviderOpenAI)
}

// Generate performs a non-streaming request
func (p *OpenAIProvider) Generate(ctx context.Context, call Call) (string, error) {
	system := call.System
	if call.Schema != nil {
		system += "\n\n" + schemaInstruction(call.Schema)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.config.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(system, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(call.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
		MaxOutputTokens: openai.Int(int64(p.config.MaxTokens)),
		Temperature:     openai.Float(p.config.Temperature),
	}
	if call.WebSearch {
		params.Tools = []responses.ToolUnionParam{
			responses.ToolParamOfWebSearchPreview(responses.WebSearchToolTypeWebSearchPreview),
		}
	}

	result, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return result.OutputText(), nil
}
