package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcastellanos/InvoiceRAG/internal/adapter/utils"
	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/internal/metrics"
	"github.com/rcastellanos/InvoiceRAG/internal/tabular"
)

func (s *service) Rebuild(ctx context.Context, table invoiceModel.RawTable) (invoiceModel.RebuildResult, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("rebuild", time.Since(start)) }()

	result, err := s.buildGeneration(ctx, table)
	if err != nil {
		s.logger.Error("Rebuild failed", "error", err)
		metrics.CountRebuild(false)
		return s.installErrorGeneration(ctx, result, err), false
	}

	metrics.CountRebuild(true)
	metrics.SetDocumentsIndexed(result.Documents)
	s.logger.Info("Rebuild complete",
		"generation", result.Generation,
		"rows_loaded", result.RowsLoaded,
		"rows_valid", result.RowsValid,
		"documents", result.Documents)
	return result, true
}

func (s *service) buildGeneration(ctx context.Context, table invoiceModel.RawTable) (invoiceModel.RebuildResult, error) {
	result := invoiceModel.RebuildResult{
		Generation: newGenerationName(),
		RowsLoaded: len(table.Rows),
	}

	norm, err := tabular.Normalize(table)
	if err != nil {
		return result, err
	}
	result.RowsValid = norm.RowsOut
	s.logger.Info("Table normalized", "rows_in", norm.RowsIn, "rows_out", norm.RowsOut)

	if len(norm.Records) == 0 {
		return result, errors.New("no valid records after normalization")
	}

	docs := tabular.Synthesize(norm.Records)
	result.Documents = len(docs)

	if err := s.vectorDB.EnsureCollection(ctx, result.Generation); err != nil {
		return result, fmt.Errorf("creating collection: %w", err)
	}

	if err := s.insertDocuments(ctx, result.Generation, docs); err != nil {
		//don't leave a half filled generation lying around
		if delErr := s.deleteIfExists(ctx, result.Generation); delErr != nil {
			s.logger.Error("Could not clean up partial generation", "generation", result.Generation, "error", delErr)
		}
		return result, err
	}

	s.swapGeneration(ctx, result.Generation)
	return result, nil
}

// insertDocuments embeds and upserts in fixed size batches so peak memory
// stays bounded for large spreadsheets.
func (s *service) insertDocuments(ctx context.Context, collection string, docs []invoiceModel.Document) error {
	for i := 0; i < len(docs); i += config.IndexBatchSize {
		end := i + config.IndexBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[i:end]

		texts := make([]string, len(batch))
		for j, d := range batch {
			texts[j] = d.Text
		}

		embedStart := time.Now()
		vectors, err := s.embedder.BatchEmbedding(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := s.vectorDB.UpsertBatch(ctx, collection, uint64(i), batch, vectors); err != nil {
			return fmt.Errorf("upserting batch failed: %w", err)
		}
	}
	return nil
}

// installErrorGeneration leaves the index in a defined state after a failed
// rebuild: a fresh generation holding exactly one document that describes
// the failure. Queries never see a half populated or missing collection.
func (s *service) installErrorGeneration(ctx context.Context, failed invoiceModel.RebuildResult, cause error) invoiceModel.RebuildResult {
	if failed.Generation != "" {
		if err := s.deleteIfExists(ctx, failed.Generation); err != nil {
			s.logger.Error("Could not delete broken generation", "generation", failed.Generation, "error", err)
		}
	}

	doc := invoiceModel.Document{
		Key:  "error_1",
		Text: "Error loading invoice data: " + cause.Error(),
		Tags: map[string]any{"kind": invoiceModel.DocKindError},
	}

	errGen := newGenerationName()
	if err := s.vectorDB.EnsureCollection(ctx, errGen); err != nil {
		s.logger.Error("Could not create error placeholder collection", "error", err)
		return failed
	}

	vector, err := s.embedder.GetEmbedding(ctx, doc.Text)
	if err != nil {
		//zero vector keeps the placeholder insertable when the embedder is down
		vector = make([]float32, config.EmbeddingOutputDimensionality)
	}
	if err := s.vectorDB.UpsertBatch(ctx, errGen, 0, []invoiceModel.Document{doc}, [][]float32{vector}); err != nil {
		s.logger.Error("Could not insert error placeholder document", "error", err)
		return failed
	}

	s.swapGeneration(ctx, errGen)
	metrics.SetDocumentsIndexed(1)
	failed.Generation = errGen
	failed.Documents = 1
	return failed
}

// swapGeneration atomically points readers at the new collection and drops
// the previous one. Readers mid-query keep whichever name they already
// resolved; a rare rebuild losing that race is acceptable here.
func (s *service) swapGeneration(ctx context.Context, generation string) {
	previous := s.active.Swap(&generation)
	if previous == nil || *previous == generation {
		return
	}
	if err := s.deleteIfExists(ctx, *previous); err != nil {
		s.logger.Error("Could not delete previous generation", "generation", *previous, "error", err)
	}
}

// deleteIfExists checks first so an absent collection is not an error and a
// real deletion failure is not masked.
func (s *service) deleteIfExists(ctx context.Context, name string) error {
	exists, err := s.vectorDB.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.vectorDB.DeleteCollection(ctx, name)
}

func newGenerationName() string {
	return fmt.Sprintf("%s-%.8s", config.CollectionBaseName, utils.GetNewUUID())
}
