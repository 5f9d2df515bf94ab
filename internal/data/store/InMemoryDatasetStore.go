package store

import (
	"context"
	"sync"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

// InMemoryDatasetStore is the fallback when redis is unreachable. Single
// process only, contents are lost on restart.
type InMemoryDatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]invoiceModel.DatasetInfo
	latest   string
}

func NewInMemoryDatasetStore() invoiceModel.DatasetStore {
	return &InMemoryDatasetStore{
		datasets: make(map[string]invoiceModel.DatasetInfo),
	}
}

func (m *InMemoryDatasetStore) SaveDataset(_ context.Context, info invoiceModel.DatasetInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[info.Id] = info
	m.latest = info.Id
	return nil
}

func (m *InMemoryDatasetStore) GetDataset(_ context.Context, id string) (invoiceModel.DatasetInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.datasets[id]
	return info, ok
}

func (m *InMemoryDatasetStore) LatestDataset(_ context.Context) (invoiceModel.DatasetInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == "" {
		return invoiceModel.DatasetInfo{}, false
	}
	info, ok := m.datasets[m.latest]
	return info, ok
}
