package openaiLLM

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/customHttpClient"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/llm"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

type llmClient struct {
	client openai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient talks to any OpenAI compatible chat completions endpoint; the
// local inference servers this ships against don't check the api key.
func NewClient(endpoint string, apikey string, modelName string) llm.Provider {
	logger := logger_i.NewLogger("llm_openai")

	c := openai.NewClient(
		option.WithBaseURL(endpoint),
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.Pooled()),
	)

	logger.Info("LLM client created", "endpoint", endpoint, "model", modelName)
	return &llmClient{client: c, model: modelName, logger: logger}
}

func (c *llmClient) StreamCompletion(ctx context.Context, systemPrompt string, emit func(fragment string) error) error {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
		},
		Temperature: openai.Float(config.ModelTemperature),
		TopP:        openai.Float(config.ModelTopP),
		MaxTokens:   openai.Int(config.ModelMaxTokens),
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}
		if err := emit(fragment); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		log.Error("LLM stream failed", "error", err)
		return err
	}
	return nil
}
