package mocks

import (
	"context"
	"time"

	"github.com/you/identitysvc/domain"
)

// MockVerificationStore implements domain.VerificationStore interface for testing
type MockVerificationStore struct {
	AcquireFunc func(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error)
	ReleaseFunc func(ctx context.Context, key string) error

	held map[string]time.Duration
}

// NewMockVerificationStore creates a new MockVerificationStore with default behaviors
func NewMockVerificationStore() *MockVerificationStore {
	return &MockVerificationStore{held: make(map[string]time.Duration)}
}

// Acquire reserves key for window
func (m *MockVerificationStore) Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key, window)
	}
	// Default behavior: keys never expire
	if remaining, ok := m.held[key]; ok {
		return false, remaining, nil
	}
	m.held[key] = window
	return true, 0, nil
}

// Release frees key
func (m *MockVerificationStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	delete(m.held, key)
	return nil
}

// Held reports whether key is currently reserved
func (m *MockVerificationStore) Held(key string) bool {
	_, ok := m.held[key]
	return ok
}

// Compile-time interface compliance verification
var _ domain.VerificationStore = (*MockVerificationStore)(nil)
