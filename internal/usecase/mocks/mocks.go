package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.InventoryReceipt

	GetByIDFunc func(ctx context.Context, id string) (*domain.InventoryReceipt, error)
}

func NewMockReceiptRepository(receipts ...*domain.InventoryReceipt) *MockReceiptRepository {
	m := &MockReceiptRepository{receipts: make(map[string]*domain.InventoryReceipt)}
	for _, r := range receipts {
		m.receipts[r.ID] = r
	}
	return m
}

func (m *MockReceiptRepository) Put(receipt *domain.InventoryReceipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[receipt.ID] = receipt
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, id string) (*domain.InventoryReceipt, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.receipts[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReceiptNotFound
}

// MockItemCatalog is a mock implementation of ItemCatalog.
type MockItemCatalog struct {
	mu    sync.RWMutex
	items map[string]*domain.Item

	GetItemFunc func(ctx context.Context, id string) (*domain.Item, error)
}

func NewMockItemCatalog(items ...*domain.Item) *MockItemCatalog {
	m := &MockItemCatalog{items: make(map[string]*domain.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *MockItemCatalog) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, domain.ErrItemNotFound
}

// MockAssetRepository is an in-memory AssetRepository. Writes made through a
// *MockTransaction become visible on Commit only.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset
	order  []string

	CreateFunc func(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error
}

func NewMockAssetRepository(assets ...*domain.Asset) *MockAssetRepository {
	m := &MockAssetRepository{assets: make(map[string]*domain.Asset)}
	for _, a := range assets {
		m.store(a)
	}
	return m
}

func (m *MockAssetRepository) store(asset *domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[asset.ID]; !ok {
		m.order = append(m.order, asset.ID)
	}
	c := *asset
	m.assets[asset.ID] = &c
}

func (m *MockAssetRepository) Create(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, asset); err != nil {
			return err
		}
	}
	m.mu.RLock()
	_, exists := m.assets[asset.ID]
	m.mu.RUnlock()
	if exists {
		return fmt.Errorf("asset %s already exists", asset.ID)
	}
	c := *asset
	deferWrite(tx, func() { m.store(&c) })
	return nil
}

func (m *MockAssetRepository) Update(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, tx, asset); err != nil {
			return err
		}
	}
	m.mu.RLock()
	_, exists := m.assets[asset.ID]
	m.mu.RUnlock()
	if !exists {
		return domain.ErrAssetNotFound
	}
	c := *asset
	deferWrite(tx, func() { m.store(&c) })
	return nil
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assets[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) ListByGrandparent(ctx context.Context, receiptID string) ([]*domain.Asset, error) {
	return m.filter(func(a *domain.Asset) bool { return a.GrandparentTransactionID == receiptID }), nil
}

func (m *MockAssetRepository) ListByGrandparentForUpdate(ctx context.Context, tx usecase.Transaction, receiptID string) ([]*domain.Asset, error) {
	return m.ListByGrandparent(ctx, receiptID)
}

func (m *MockAssetRepository) ListActiveBySerialForUpdate(ctx context.Context, tx usecase.Transaction, serial string, locations []string) ([]*domain.Asset, error) {
	return m.filter(func(a *domain.Asset) bool {
		if a.Inactive || a.SerialNumber != serial {
			return false
		}
		for _, l := range locations {
			if a.LocationID == l {
				return true
			}
		}
		return false
	}), nil
}

// All returns copies of every stored asset in insertion order.
func (m *MockAssetRepository) All() []*domain.Asset {
	return m.filter(func(*domain.Asset) bool { return true })
}

func (m *MockAssetRepository) filter(keep func(*domain.Asset) bool) []*domain.Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Asset
	for _, id := range m.order {
		a := m.assets[id]
		if keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	return out
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, event); err != nil {
			return err
		}
	}
	deferWrite(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = append(m.events, event)
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns the committed events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu        sync.Mutex
	Begun     int
	Committed int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	m.Begun++
	m.mu.Unlock()
	return &MockTransaction{onCommit: func() {
		m.mu.Lock()
		m.Committed++
		m.mu.Unlock()
	}}, nil
}

// MockTransaction is a mock implementation of Transaction. Writes staged
// through it are applied on Commit and dropped on Rollback.
type MockTransaction struct {
	mu       sync.Mutex
	pending  []func()
	onCommit func()

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) stage(write func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, write)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, w := range pending {
		w()
	}
	if m.onCommit != nil {
		m.onCommit()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	return nil
}

func deferWrite(tx usecase.Transaction, write func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.stage(write)
		return
	}
	write()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore. Like a
// network client it fails on a cancelled context.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyProcessing)
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Value returns the stored value of key.
func (m *MockIdempotencyStore) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return string(v), ok
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.Mutex
	values map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	Sets    int
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.Sets++
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
