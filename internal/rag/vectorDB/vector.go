package vectorDB

import (
	"context"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

// DocumentIndex is what the rag service needs from a vector store. One
// collection per generation; the service decides which generation is live.
type DocumentIndex interface {
	EnsureCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)

	UpsertBatch(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error

	Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error)
	// SearchSummaries restricts the search to documents tagged kind=summary.
	SearchSummaries(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error)
}
