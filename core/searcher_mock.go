package core

import (
	"context"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/mock"
)

// MockSearcher is a mock implementation of contract.Searcher.
type MockSearcher struct {
	mock.Mock
}

var _ contract.Searcher = &MockSearcher{} // Compile-time check

// SearchRepositories mocks the SearchRepositories method.
func (m *MockSearcher) SearchRepositories(ctx context.Context, criteria schema.RepoCriteria) ([]schema.Repository, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]schema.Repository), args.Error(1)
}

// SearchIssues mocks the SearchIssues method.
func (m *MockSearcher) SearchIssues(ctx context.Context, criteria schema.IssueCriteria) ([]schema.Issue, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]schema.Issue), args.Error(1)
}

// GetRepository mocks the GetRepository method.
func (m *MockSearcher) GetRepository(ctx context.Context, owner, name string) (schema.Repository, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(schema.Repository), args.Error(1)
}

// GetRepositoryByID mocks the GetRepositoryByID method.
func (m *MockSearcher) GetRepositoryByID(ctx context.Context, id int64) (schema.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Repository), args.Error(1)
}

// GetRepositoryIssues mocks the GetRepositoryIssues method.
func (m *MockSearcher) GetRepositoryIssues(ctx context.Context, owner, name string, labels []string) ([]schema.Issue, error) {
	args := m.Called(ctx, owner, name, labels)
	return args.Get(0).([]schema.Issue), args.Error(1)
}
