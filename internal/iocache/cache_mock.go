package iocache

import (
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResponseStore implements the CacheManager interface.
func (m *MockCacheManager) GetResponseStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) (contract.CacheEntry, error) {
	args := m.Called(key)
	return args.Get(0).(contract.CacheEntry), args.Error(1)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(entry contract.CacheEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// Delete implements the CacheStore interface.
func (m *MockCacheStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Count implements the CacheStore interface.
func (m *MockCacheStore) Count(prefix string) (int, error) {
	args := m.Called(prefix)
	return args.Int(0), args.Error(1)
}

// Oldest implements the CacheStore interface.
func (m *MockCacheStore) Oldest(prefix string, n int) ([]string, error) {
	args := m.Called(prefix, n)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// DeletePrefix implements the CacheStore interface.
func (m *MockCacheStore) DeletePrefix(prefix string) (int64, error) {
	args := m.Called(prefix)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteExpired implements the CacheStore interface.
func (m *MockCacheStore) DeleteExpired(prefix string, now int64) (int64, error) {
	args := m.Called(prefix, now)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
