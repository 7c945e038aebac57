package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/contract"
	mcp_internal "github.com/huangsam/osscompass/internal/mcp"
	"github.com/huangsam/osscompass/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*server.MCPServer, *core.MockSearcher) {
	t.Helper()
	baseCfg := &contract.Config{
		Languages:   []string{"Go"},
		Experience:  schema.Beginner,
		ResultLimit: 10,
		Filter:      schema.AllFilter,
	}
	searcher := &core.MockSearcher{}
	rec := core.NewRecommender(searcher, zap.NewNop(), core.WithNow(func() time.Time { return now }))
	return mcp_internal.NewMCPServer(baseCfg, rec, zap.NewNop()), searcher
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s, _ := newTestServer(t)
	for _, name := range []string{"recommend", "search_repositories", "search_issues", "repository_detail"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestRecommendTool(t *testing.T) {
	s, searcher := newTestServer(t)
	isPython := mock.MatchedBy(func(c schema.RepoCriteria) bool { return c.Language == "Python" })
	searcher.On("SearchRepositories", mock.Anything, isPython).Return([]schema.Repository{
		{ID: 1, FullName: "psf/requests", Language: "Python", Stars: 50000, UpdatedAt: now.Add(-time.Hour)},
	}, nil)
	isBeginnerPython := mock.MatchedBy(func(c schema.IssueCriteria) bool {
		return c.Language == "Python" && len(c.Labels) == 1 && c.Labels[0] == schema.DefaultBeginnerLabel
	})
	searcher.On("SearchIssues", mock.Anything, isBeginnerPython).Return([]schema.Issue{
		{ID: 9, Title: "Fix typo", Labels: []schema.Label{{Name: "good first issue"}}, CreatedAt: now.Add(-24 * time.Hour)},
	}, nil)

	res := call(t, s, "recommend", map[string]any{"languages": "Python", "experience": "beginner"})
	require.False(t, res.IsError, text(res))

	var got schema.Recommendations
	require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
	require.Len(t, got.Repositories, 1)
	assert.Equal(t, "psf/requests", got.Repositories[0].FullName)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, schema.Easy, got.Issues[0].Difficulty)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 1)
}

func TestRecommendToolInvalidExperience(t *testing.T) {
	s, searcher := newTestServer(t)
	res := call(t, s, "recommend", map[string]any{"experience": "wizard"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid experience 'wizard'")
	searcher.AssertNotCalled(t, "SearchRepositories", mock.Anything, mock.Anything)
}

func TestSearchRepositoriesTool(t *testing.T) {
	t.Run("config profile and limit", func(t *testing.T) {
		s, searcher := newTestServer(t)
		criteria := schema.RepoCriteria{Language: "Go", Topic: "cli", MinStars: 500}
		searcher.On("SearchRepositories", mock.Anything, criteria).Return([]schema.Repository{
			{ID: 1, Language: "Go"},
			{ID: 2, Language: "Go", Stars: 5000},
			{ID: 3, Language: "Go", Stars: 500},
		}, nil)

		res := call(t, s, "search_repositories", map[string]any{
			"language":  "Go",
			"topic":     "cli",
			"min_stars": 500.0,
			"limit":     2.0,
		})
		require.False(t, res.IsError, text(res))

		var got []schema.ScoredRepository
		require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Contains(t, got[0].MatchScore.Breakdown, "Language match: Go")
	})

	t.Run("star range", func(t *testing.T) {
		s, _ := newTestServer(t)
		res := call(t, s, "search_repositories", map[string]any{"min_stars": 1000.0, "max_stars": 10.0})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "max_stars")
	})

	t.Run("upstream failure", func(t *testing.T) {
		s, searcher := newTestServer(t)
		searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return([]schema.Repository(nil), errors.New("rate limited"))
		res := call(t, s, "search_repositories", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "rate limited")
	})
}

func TestSearchIssuesTool(t *testing.T) {
	s, searcher := newTestServer(t)
	criteria := schema.IssueCriteria{Language: "Go", Labels: []string{"help wanted", "bug"}}
	searcher.On("SearchIssues", mock.Anything, criteria).Return([]schema.Issue{
		{ID: 1, Title: "Crash on start", Labels: []schema.Label{{Name: "bug"}}, CreatedAt: now.Add(-time.Hour)},
	}, nil)

	res := call(t, s, "search_issues", map[string]any{"language": "Go", "labels": "help wanted, bug"})
	require.False(t, res.IsError, text(res))

	var got []schema.ScoredIssue
	require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Crash on start", got[0].Title)
	searcher.AssertExpectations(t)
}

func TestRepositoryDetailTool(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		s, searcher := newTestServer(t)
		res := call(t, s, "repository_detail", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "positive repository ID")
		searcher.AssertNotCalled(t, "GetRepositoryByID", mock.Anything, mock.Anything)
	})

	t.Run("found", func(t *testing.T) {
		s, searcher := newTestServer(t)
		repo := schema.Repository{ID: 42, Name: "cobra", FullName: "spf13/cobra", Language: "Go", Owner: schema.Owner{Login: "spf13"}}
		searcher.On("GetRepositoryByID", mock.Anything, int64(42)).Return(repo, nil)
		searcher.On("GetRepositoryIssues", mock.Anything, "spf13", "cobra", []string(nil)).Return([]schema.Issue{
			{ID: 7, Title: "Docs", Labels: []schema.Label{{Name: "documentation"}}},
		}, nil)

		res := call(t, s, "repository_detail", map[string]any{"id": 42.0})
		require.False(t, res.IsError, text(res))

		var got schema.RepositoryDetail
		require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
		assert.Equal(t, "spf13/cobra", got.Repository.FullName)
		require.Len(t, got.Issues, 1)
		assert.Equal(t, int64(7), got.Issues[0].ID)
	})

	t.Run("not found", func(t *testing.T) {
		s, searcher := newTestServer(t)
		searcher.On("GetRepositoryByID", mock.Anything, int64(1)).Return(schema.Repository{}, errors.New("github: not found"))
		res := call(t, s, "repository_detail", map[string]any{"id": 1.0})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "repository lookup failed")
	})
}
