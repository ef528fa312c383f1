package sheets

import (
	"context"
	"sync"

	"github.com/branch-pulse/internal/model"
)

// MockFeedSource is a mock implementation of service.FeedSource for testing.
type MockFeedSource struct {
	FetchFunc    func(ctx context.Context) ([]model.Transaction, error)
	Transactions []model.Transaction
	FetchCount   int
	mu           sync.Mutex
}

// FetchTransactions implements the FeedSource interface.
func (m *MockFeedSource) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCount++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return m.Transactions, nil
}

// MockRegistryStore is a mock implementation of service.RegistryStore for
// testing.
type MockRegistryStore struct {
	FetchFunc    func(ctx context.Context) ([]model.Branch, error)
	PublishFunc  func(ctx context.Context, branches []model.Branch) error
	Branches     []model.Branch
	Published    [][]model.Branch
	FetchCount   int
	PublishCount int
	mu           sync.Mutex
}

// FetchBranches implements the RegistryStore interface.
func (m *MockRegistryStore) FetchBranches(ctx context.Context) ([]model.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCount++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	out := make([]model.Branch, len(m.Branches))
	copy(out, m.Branches)
	return out, nil
}

// PublishMetrics implements the RegistryStore interface.
func (m *MockRegistryStore) PublishMetrics(ctx context.Context, branches []model.Branch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCount++
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, branches); err != nil {
			return err
		}
	}
	recorded := make([]model.Branch, len(branches))
	copy(recorded, branches)
	m.Published = append(m.Published, recorded)
	return nil
}

// LastPublished returns the branches from the most recent publish, or nil.
func (m *MockRegistryStore) LastPublished() []model.Branch {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Published) == 0 {
		return nil
	}
	return m.Published[len(m.Published)-1]
}

// MockSink is a mock implementation of service.TransactionSink for testing.
type MockSink struct {
	AppendFunc func(ctx context.Context, txns []model.Transaction) error
	Appended   []model.Transaction
	CallCount  int
	mu         sync.Mutex
}

// AppendTransactions implements the TransactionSink interface.
func (m *MockSink) AppendTransactions(ctx context.Context, txns []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, txns); err != nil {
			return err
		}
	}
	m.Appended = append(m.Appended, txns...)
	return nil
}
