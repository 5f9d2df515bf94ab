package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/data/redisStore"
	"github.com/rcastellanos/InvoiceRAG/internal/data/store"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

func testDataset(id string) invoiceModel.DatasetInfo {
	return invoiceModel.DatasetInfo{
		Id:          id,
		FileName:    "invoices.csv",
		StoredPath:  "data/uploads/invoices.csv",
		Columns:     []string{"date", "client", "country", "amount"},
		RowsLoaded:  10,
		RowsIndexed: 8,
		Generation:  "invoices-enhanced-abc123",
		Status:      invoiceModel.DatasetStatusIndexed,
		CreatedTime: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisDatasetStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	datasetStore := store.NewTestRedisDatasetStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	info := testDataset("ds_abc_123")

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := datasetStore.SaveDataset(ctx, info); err != nil {
			t.Fatalf("SaveDataset failed: %v", err)
		}

		retrieved, found := datasetStore.GetDataset(ctx, info.Id)
		if !found {
			t.Fatal("Dataset was saved but not found in Redis")
		}
		if retrieved.Generation != info.Generation {
			t.Errorf("Generation got %s, want %s", retrieved.Generation, info.Generation)
		}
		if retrieved.RowsIndexed != info.RowsIndexed {
			t.Errorf("RowsIndexed got %d, want %d", retrieved.RowsIndexed, info.RowsIndexed)
		}
	})

	t.Run("Latest Points At Newest Save", func(t *testing.T) {
		second := testDataset("ds_def_456")
		second.Status = invoiceModel.DatasetStatusFailed
		if err := datasetStore.SaveDataset(ctx, second); err != nil {
			t.Fatalf("SaveDataset failed: %v", err)
		}

		latest, found := datasetStore.LatestDataset(ctx)
		if !found {
			t.Fatal("LatestDataset found nothing after two saves")
		}
		if latest.Id != second.Id {
			t.Errorf("latest id got %s, want %s", latest.Id, second.Id)
		}
		if latest.Status != invoiceModel.DatasetStatusFailed {
			t.Errorf("latest status got %s, want FAILED", latest.Status)
		}
	})

	t.Run("Get Non-Existent Dataset", func(t *testing.T) {
		if _, found := datasetStore.GetDataset(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt Record Is Not Returned", func(t *testing.T) {
		mr.Set("dataset:broken", "{not json")
		if _, found := datasetStore.GetDataset(ctx, "broken"); found {
			t.Error("Expected found=false for a corrupt record")
		}
	})
}

func TestRedisDatasetStore_LatestWithoutData(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	datasetStore := store.NewTestRedisDatasetStore(redisStore.NewTestStore(client))

	if _, found := datasetStore.LatestDataset(context.Background()); found {
		t.Error("Expected found=false on an empty store")
	}
}

func TestInMemoryDatasetStore(t *testing.T) {
	datasetStore := store.NewInMemoryDatasetStore()
	ctx := context.Background()

	if _, found := datasetStore.LatestDataset(ctx); found {
		t.Fatal("empty store reported a latest dataset")
	}

	first := testDataset("mem_1")
	second := testDataset("mem_2")
	if err := datasetStore.SaveDataset(ctx, first); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	if err := datasetStore.SaveDataset(ctx, second); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	if got, found := datasetStore.GetDataset(ctx, "mem_1"); !found || got.Id != "mem_1" {
		t.Errorf("GetDataset got %v found=%v", got.Id, found)
	}
	if latest, found := datasetStore.LatestDataset(ctx); !found || latest.Id != "mem_2" {
		t.Errorf("LatestDataset got %v found=%v, want mem_2", latest.Id, found)
	}
}

func TestInMemoryDatasetStore_Race(t *testing.T) {
	datasetStore := store.NewInMemoryDatasetStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = datasetStore.SaveDataset(ctx, testDataset("race"))
		}(i)
		go func(n int) {
			defer wg.Done()
			datasetStore.LatestDataset(ctx)
		}(i)
	}
	wg.Wait()

	if _, found := datasetStore.GetDataset(ctx, "race"); !found {
		t.Error("dataset missing after concurrent saves")
	}
}
