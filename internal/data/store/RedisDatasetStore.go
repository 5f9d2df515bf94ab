package store

import (
	"context"
	"encoding/json"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/data/redisStore"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

const (
	datasetKeyPrefix = "dataset:"
	latestDatasetKey = "dataset:latest"
)

// RedisDatasetStore keeps the rebuild audit trail in redis so it survives
// restarts and can be shared across replicas.
type RedisDatasetStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisDatasetStore(ctx context.Context) invoiceModel.DatasetStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisDatasetStore)
	if backing == nil {
		return nil
	}
	return &RedisDatasetStore{
		store:  backing,
		logger: logger_i.NewLogger("Redis Dataset Store"),
	}
}

// NewTestRedisDatasetStore builds the store over an injected backing store,
// only for tests.
func NewTestRedisDatasetStore(backing *redisStore.Store) invoiceModel.DatasetStore {
	return &RedisDatasetStore{
		store:  backing,
		logger: logger_i.NewLogger("Redis Dataset Store"),
	}
}

func (r *RedisDatasetStore) SaveDataset(ctx context.Context, info invoiceModel.DatasetInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, datasetKeyPrefix+info.Id, payload, config.RedisDatasetStoreTTL); err != nil {
		return err
	}
	//latest pointer is best effort, the dataset record itself already landed
	if err := r.store.Set(ctx, latestDatasetKey, info.Id, config.RedisDatasetStoreTTL); err != nil {
		r.logger.Warn("Could not update latest dataset pointer", "error", err)
	}
	return nil
}

func (r *RedisDatasetStore) GetDataset(ctx context.Context, id string) (invoiceModel.DatasetInfo, bool) {
	raw, err := r.store.Get(ctx, datasetKeyPrefix+id)
	if err != nil {
		if !r.store.IsNil(err) {
			r.logger.Error("Dataset lookup failed", "id", id, "error", err)
		}
		return invoiceModel.DatasetInfo{}, false
	}

	var info invoiceModel.DatasetInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		r.logger.Error("Corrupt dataset record", "id", id, "error", err)
		return invoiceModel.DatasetInfo{}, false
	}
	return info, true
}

func (r *RedisDatasetStore) LatestDataset(ctx context.Context) (invoiceModel.DatasetInfo, bool) {
	id, err := r.store.Get(ctx, latestDatasetKey)
	if err != nil {
		if !r.store.IsNil(err) {
			r.logger.Error("Latest dataset lookup failed", "error", err)
		}
		return invoiceModel.DatasetInfo{}, false
	}
	return r.GetDataset(ctx, id)
}
