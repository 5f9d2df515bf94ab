package rag_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/internal/rag"
)

func validTable(rows int) invoiceModel.RawTable {
	table := invoiceModel.RawTable{
		Columns: []string{"date", "client", "country", "amount"},
	}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{
			"2024-01-15", fmt.Sprintf("client-%d", i), "Spain", fmt.Sprintf("%d.50", i+1),
		})
	}
	return table
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestRebuild_Success(t *testing.T) {
	mVec := &MockVectorDB{}
	mEmbed := &MockEmbedder{}

	var created []string
	upserted := make(map[string][]invoiceModel.Document)
	mVec.OnEnsureCollection = func(ctx context.Context, name string) error {
		created = append(created, name)
		return nil
	}
	mVec.OnUpsertBatch = func(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error {
		upserted[collection] = append(upserted[collection], docs...)
		return nil
	}

	s := rag.NewService(mVec, &MockLLM{}, mEmbed)
	result, ok := s.Rebuild(testContext(), validTable(3))

	if !ok {
		t.Fatal("Rebuild reported failure for a valid table")
	}
	if result.RowsLoaded != 3 || result.RowsValid != 3 {
		t.Errorf("row counts got %d/%d, want 3/3", result.RowsLoaded, result.RowsValid)
	}
	if result.Documents != 3+4 {
		t.Errorf("Documents got %d, want 3 records plus 4 summaries", result.Documents)
	}
	if len(created) != 1 {
		t.Fatalf("created %d collections, want 1", len(created))
	}
	if !strings.HasPrefix(created[0], config.CollectionBaseName+"-") {
		t.Errorf("generation name got %q, want %q prefix", created[0], config.CollectionBaseName)
	}
	if len(upserted[result.Generation]) != result.Documents {
		t.Errorf("upserted %d documents to %s, want %d", len(upserted[result.Generation]), result.Generation, result.Documents)
	}
}

func TestRebuild_BatchesOfFifty(t *testing.T) {
	mVec := &MockVectorDB{}
	var batchSizes []int
	var startIDs []uint64
	mVec.OnUpsertBatch = func(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error {
		batchSizes = append(batchSizes, len(docs))
		startIDs = append(startIDs, startID)
		if len(docs) != len(vectors) {
			t.Errorf("batch has %d docs but %d vectors", len(docs), len(vectors))
		}
		return nil
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{})
	//116 records + 4 summaries = 120 documents
	_, ok := s.Rebuild(testContext(), validTable(116))
	if !ok {
		t.Fatal("Rebuild failed")
	}

	want := []int{50, 50, 20}
	if len(batchSizes) != len(want) {
		t.Fatalf("got %d batches (%v), want %v", len(batchSizes), batchSizes, want)
	}
	for i := range want {
		if batchSizes[i] != want[i] {
			t.Errorf("batch %d size got %d, want %d", i, batchSizes[i], want[i])
		}
	}
	if startIDs[1] != 50 || startIDs[2] != 100 {
		t.Errorf("start ids got %v, want offsets 0/50/100", startIDs)
	}
}

func TestRebuild_SwapsOutPreviousGeneration(t *testing.T) {
	mVec := &MockVectorDB{}
	var deleted []string
	mVec.OnDeleteCollection = func(ctx context.Context, name string) error {
		deleted = append(deleted, name)
		return nil
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{})

	first, ok := s.Rebuild(testContext(), validTable(2))
	if !ok {
		t.Fatal("first Rebuild failed")
	}
	if len(deleted) != 0 {
		t.Fatalf("nothing should be deleted after the first rebuild, got %v", deleted)
	}

	second, ok := s.Rebuild(testContext(), validTable(2))
	if !ok {
		t.Fatal("second Rebuild failed")
	}
	if first.Generation == second.Generation {
		t.Fatal("second rebuild reused the first generation name")
	}
	if len(deleted) != 1 || deleted[0] != first.Generation {
		t.Errorf("deleted %v, want exactly the first generation %q", deleted, first.Generation)
	}
}

func TestRebuild_FailureInstallsSingleErrorDocument(t *testing.T) {
	tests := []struct {
		name       string
		table      invoiceModel.RawTable
		setupMocks func(e *MockEmbedder, v *MockVectorDB)
	}{
		{
			name:       "No_Valid_Records",
			table:      invoiceModel.RawTable{Columns: []string{"date", "client", "country", "amount"}},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {},
		},
		{
			name:  "Missing_Columns",
			table: invoiceModel.RawTable{Columns: []string{"foo", "bar"}},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				//error placeholder still gets embedded with a zero vector
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("embedder down")
				}
			},
		},
		{
			name:  "Embedding_Failure_During_Insert",
			table: validTable(2),
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				e.OnBatchEmbedding = func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("api limit")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mVec := &MockVectorDB{}
			mEmbed := &MockEmbedder{}
			tt.setupMocks(mEmbed, mVec)

			upserted := make(map[string][]invoiceModel.Document)
			mVec.OnUpsertBatch = func(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error {
				upserted[collection] = append(upserted[collection], docs...)
				return nil
			}

			s := rag.NewService(mVec, &MockLLM{}, mEmbed)
			result, ok := s.Rebuild(testContext(), tt.table)

			if ok {
				t.Fatal("Rebuild reported success, want failure")
			}
			if result.Documents != 1 {
				t.Errorf("Documents got %d, want exactly the error placeholder", result.Documents)
			}

			docs := upserted[result.Generation]
			if len(docs) != 1 {
				t.Fatalf("active generation holds %d documents, want exactly 1", len(docs))
			}
			if docs[0].Key != "error_1" {
				t.Errorf("placeholder key got %q", docs[0].Key)
			}
			if !strings.HasPrefix(docs[0].Text, "Error loading invoice data: ") {
				t.Errorf("placeholder text got %q", docs[0].Text)
			}
			if docs[0].Tags["kind"] != invoiceModel.DocKindError {
				t.Errorf("placeholder kind got %v", docs[0].Tags["kind"])
			}
		})
	}
}

func TestQuery_BeforeAnyRebuild(t *testing.T) {
	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{})

	result := s.Query(testContext(), "any question", config.RetrievalTopK)

	if result.HasRelevantInfo {
		t.Error("HasRelevantInfo got true, want false with no data loaded")
	}
	if !strings.HasPrefix(result.Context, "error retrieving information: ") {
		t.Errorf("Context got %q, want an error description", result.Context)
	}
}

func TestQuery_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		question     string
		setupMocks   func(e *MockEmbedder, v *MockVectorDB)
		wantRelevant bool
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:     "Plain_Question_No_Summaries",
			question: "how much did Acme invoice in March?",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					if limit != config.RetrievalTopK {
						t.Errorf("search limit got %d, want %d", limit, config.RetrievalTopK)
					}
					return []invoiceModel.Document{{Key: "invoice_1", Text: "record one"}}, nil
				}
				v.OnSearchSummaries = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					t.Error("SearchSummaries must not run without a summary keyword")
					return nil, nil
				}
			},
			wantRelevant: true,
			wantContains: []string{"record one"},
		},
		{
			name:     "Summary_Keyword_Unions_Summaries",
			question: "give me the total per client",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return []invoiceModel.Document{{Key: "invoice_1", Text: "record one"}}, nil
				}
				v.OnSearchSummaries = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					if limit != config.SummaryTopK {
						t.Errorf("summary limit got %d, want %d", limit, config.SummaryTopK)
					}
					return []invoiceModel.Document{{Key: "stats_overall", Text: "overall stats"}}, nil
				}
			},
			wantRelevant: true,
			wantContains: []string{"record one", "overall stats"},
		},
		{
			name:     "Duplicate_Texts_Collapse",
			question: "resumen general",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return []invoiceModel.Document{{Key: "stats_overall", Text: "overall stats"}}, nil
				}
				v.OnSearchSummaries = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return []invoiceModel.Document{
						{Key: "stats_overall", Text: "overall stats"},
						{Key: "stats_clients", Text: "client stats"},
					}, nil
				}
			},
			wantRelevant: true,
			wantContains: []string{"client stats"},
		},
		{
			name:     "Summary_Search_Failure_Swallowed",
			question: "summary please",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return []invoiceModel.Document{{Key: "invoice_1", Text: "record one"}}, nil
				}
				v.OnSearchSummaries = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return nil, errors.New("db timeout")
				}
			},
			wantRelevant: true,
			wantContains: []string{"record one"},
		},
		{
			name:     "Search_Failure_Folded_Into_Result",
			question: "anything",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
					return nil, errors.New("db timeout")
				}
			},
			wantRelevant: false,
			wantContains: []string{"error retrieving information: db timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mVec := &MockVectorDB{}
			mEmbed := &MockEmbedder{}
			tt.setupMocks(mEmbed, mVec)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed)
			if _, ok := s.Rebuild(testContext(), validTable(1)); !ok {
				t.Fatal("seed Rebuild failed")
			}

			result := s.Query(testContext(), tt.question, config.RetrievalTopK)

			if result.HasRelevantInfo != tt.wantRelevant {
				t.Errorf("HasRelevantInfo got %v, want %v", result.HasRelevantInfo, tt.wantRelevant)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(result.Context, want) {
					t.Errorf("Context missing %q:\n%s", want, result.Context)
				}
			}
		})
	}
}

func TestQuery_DuplicateSummaryAppearsOnce(t *testing.T) {
	mVec := &MockVectorDB{}
	mVec.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
		return []invoiceModel.Document{{Key: "stats_overall", Text: "overall stats"}}, nil
	}
	mVec.OnSearchSummaries = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
		return []invoiceModel.Document{{Key: "stats_overall", Text: "overall stats"}}, nil
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{})
	if _, ok := s.Rebuild(testContext(), validTable(1)); !ok {
		t.Fatal("seed Rebuild failed")
	}

	result := s.Query(testContext(), "total", config.RetrievalTopK)
	if got := strings.Count(result.Context, "overall stats"); got != 1 {
		t.Errorf("duplicate summary appears %d times, want 1", got)
	}
}

func TestStreamAnswer_FragmentsInOrder(t *testing.T) {
	mVec := &MockVectorDB{}
	mVec.OnSearch = func(ctx context.Context, c string, vec []float32, limit uint64) ([]invoiceModel.Document, error) {
		return []invoiceModel.Document{{Key: "invoice_1", Text: "Acme invoiced 100."}}, nil
	}
	mLLM := &MockLLM{}
	var seenPrompt string
	mLLM.OnStreamCompletion = func(ctx context.Context, systemPrompt string, emit func(string) error) error {
		seenPrompt = systemPrompt
		for _, f := range []string{"The ", "total ", "is 100."} {
			if err := emit(f); err != nil {
				return err
			}
		}
		return nil
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{})
	if _, ok := s.Rebuild(testContext(), validTable(1)); !ok {
		t.Fatal("seed Rebuild failed")
	}

	var fragments []string
	s.StreamAnswer(testContext(), "what is the total?", func(f string) error {
		fragments = append(fragments, f)
		return nil
	})

	if strings.Join(fragments, "") != "The total is 100." {
		t.Errorf("fragments got %v", fragments)
	}
	for _, want := range []string{"[CONTEXT]", "Acme invoiced 100.", "[QUESTION]", "what is the total?", config.NoInformationMessage} {
		if !strings.Contains(seenPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStreamAnswer_GenerationFailureEmittedAsFinalFragment(t *testing.T) {
	mLLM := &MockLLM{}
	mLLM.OnStreamCompletion = func(ctx context.Context, systemPrompt string, emit func(string) error) error {
		_ = emit("partial ")
		return errors.New("provider down")
	}

	s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{})
	if _, ok := s.Rebuild(testContext(), validTable(1)); !ok {
		t.Fatal("seed Rebuild failed")
	}

	var fragments []string
	s.StreamAnswer(testContext(), "question", func(f string) error {
		fragments = append(fragments, f)
		return nil
	})

	if len(fragments) != 2 {
		t.Fatalf("fragments got %v", fragments)
	}
	if fragments[1] != "Error: provider down" {
		t.Errorf("final fragment got %q", fragments[1])
	}
}

func TestBuildPrompt_ContainsRules(t *testing.T) {
	prompt := rag.BuildPrompt("some context", "some question")

	for _, want := range []string{
		"[INSTRUCTION]",
		"[CONTEXT]\nsome context\n[END CONTEXT]",
		"[QUESTION]\nsome question\n[END QUESTION]",
		config.NoInformationMessage,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
