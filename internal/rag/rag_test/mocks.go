package rag_test

import (
	"context"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

// MockVectorDB implements vectorDB.DocumentIndex
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context, name string) error
	OnDeleteCollection func(ctx context.Context, name string) error
	OnCollectionExists func(ctx context.Context, name string) (bool, error)
	OnUpsertBatch      func(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error
	OnSearch           func(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error)
	OnSearchSummaries  func(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	if m.OnCollectionExists != nil {
		return m.OnCollectionExists(ctx, name)
	}
	return true, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, collection, startID, docs, vectors)
	}
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, collection, vector, limit)
	}
	return []invoiceModel.Document{{Key: "default", Text: "default context"}}, nil
}

func (m *MockVectorDB) SearchSummaries(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error) {
	if m.OnSearchSummaries != nil {
		return m.OnSearchSummaries(ctx, collection, vector, limit)
	}
	return nil, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	// Return dummy vectors matching input size
	return make([][]float32, len(texts)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnStreamCompletion func(ctx context.Context, systemPrompt string, emit func(string) error) error
}

func (m *MockLLM) StreamCompletion(ctx context.Context, systemPrompt string, emit func(string) error) error {
	if m.OnStreamCompletion != nil {
		return m.OnStreamCompletion(ctx, systemPrompt, emit)
	}
	return emit("mocked llm response")
}
