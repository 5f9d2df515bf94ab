package rag

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/embedding"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/llm"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/vectorDB"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

// ErrNoCollection means no spreadsheet has ever been ingested.
var ErrNoCollection = errors.New("no invoice data has been loaded yet")

// Service is the only thing the transport layer calls - it doesn't need to
// know about the vector store, the embedder or the llm.
type Service interface {
	// Rebuild replaces the active collection generation with documents
	// synthesized from table. Never returns an error: on failure the active
	// generation becomes a single-document error placeholder and ok is false.
	Rebuild(ctx context.Context, table invoiceModel.RawTable) (result invoiceModel.RebuildResult, ok bool)

	// Query retrieves context for a question. Failures are folded into the
	// result, never raised.
	Query(ctx context.Context, question string, k int) invoiceModel.QueryResult

	// StreamAnswer runs retrieval plus generation, emitting answer fragments
	// in arrival order. A generation failure is emitted as a final fragment;
	// emit failures (caller went away) abort silently.
	StreamAnswer(ctx context.Context, question string, emit func(fragment string) error)
}

type service struct {
	vectorDB    vectorDB.DocumentIndex
	llmProvider llm.Provider
	embedder    embedding.Embedder
	active      atomic.Pointer[string]
	logger      *logger_i.Logger
}

// NewService wires the three external dependencies together. Constructed
// once at process start and injected into the handlers.
func NewService(vector vectorDB.DocumentIndex, llm llm.Provider, em embedding.Embedder) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// ActiveCollection returns the live generation's collection name.
func (s *service) ActiveCollection() (string, error) {
	name := s.active.Load()
	if name == nil {
		return "", ErrNoCollection
	}
	return *name, nil
}
