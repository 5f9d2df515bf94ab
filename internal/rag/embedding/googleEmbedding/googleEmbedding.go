package googleEmbedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/embedding"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewGoogleEmbedder builds the Gemini embedding client. The underlying
// client is released when ctx is cancelled.
func NewGoogleEmbedder(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return nil, err
	}

	logger.Debug("Google Embedding model name: " + modelName)
	logger.Info("Google Embedding client created")

	ec := &client{genAi: c, model: modelName, logger: logger}
	go ec.closeOnDone(ctx)
	return ec, nil
}

func (c *client) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	c.logger.Info("Closing Google Embedding client")
	c.genAi = nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query), embedConfig())
	if err != nil {
		log.Error("Error getting Embedding from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding response carried no vectors")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, contents, embedConfig())
	if err != nil {
		log.Error("Error getting batch Embeddings from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("asked for %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, r := range result.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func embedConfig() *genai.EmbedContentConfig {
	return &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	}
}
