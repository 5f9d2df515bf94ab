package rag

import (
	"context"
	"strings"
	"time"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/internal/metrics"
)

// questions carrying any of these ask for aggregates, so the precomputed
// summary documents get unioned into the context
var summaryKeywords = []string{
	"total", "summary", "resumen", "statistic", "estadística", "general",
}

func (s *service) Query(ctx context.Context, question string, k int) invoiceModel.QueryResult {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	collection, err := s.ActiveCollection()
	if err != nil {
		log.Warn("Query before any ingest", "error", err)
		return errorResult(err)
	}

	embedStart := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, question)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		log.Error("Question embedding failed", "error", err)
		return errorResult(err)
	}

	searchStart := time.Now()
	docs, err := s.vectorDB.Search(ctx, collection, vector, uint64(k))
	metrics.CaptureExecutionMetrics("vector_search", time.Since(searchStart))
	if err != nil {
		log.Error("Vector search failed", "error", err)
		return errorResult(err)
	}

	if wantsSummaries(question) {
		docs = s.appendSummaries(ctx, collection, docs)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	return invoiceModel.QueryResult{
		Context:         strings.Join(texts, "\n\n"),
		HasRelevantInfo: len(docs) > 0,
	}
}

// appendSummaries unions the aggregate documents into the primary results.
// Failures here are swallowed: a summary-less context is still usable.
func (s *service) appendSummaries(ctx context.Context, collection string, docs []invoiceModel.Document) []invoiceModel.Document {
	vector, err := s.embedder.GetEmbedding(ctx, config.SummarySearchText)
	if err != nil {
		s.logger.Warn("Summary query embedding failed", "error", err)
		return docs
	}

	summaries, err := s.vectorDB.SearchSummaries(ctx, collection, vector, config.SummaryTopK)
	if err != nil {
		s.logger.Warn("Summary search failed", "error", err)
		return docs
	}

	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		seen[d.Text] = true
	}
	for _, d := range summaries {
		if !seen[d.Text] {
			docs = append(docs, d)
			seen[d.Text] = true
		}
	}
	return docs
}

func wantsSummaries(question string) bool {
	lowered := strings.ToLower(question)
	for _, kw := range summaryKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func errorResult(err error) invoiceModel.QueryResult {
	return invoiceModel.QueryResult{
		Context:         "error retrieving information: " + err.Error(),
		HasRelevantInfo: false,
	}
}
