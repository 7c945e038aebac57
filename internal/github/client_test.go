package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:    srv.URL + "/",
		Token:      "secret",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
}

func TestRepoQuery(t *testing.T) {
	tests := []struct {
		name     string
		criteria schema.RepoCriteria
		want     string
	}{
		{
			name:     "defaults",
			criteria: schema.RepoCriteria{}.WithDefaults(),
			want:     "stars:100..* is:public archived:false",
		},
		{
			name:     "language topic and range",
			criteria: schema.RepoCriteria{Language: "Go", Topic: "cli", MinStars: 500, MaxStars: 50000},
			want:     "language:Go topic:cli stars:500..50000 is:public archived:false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepoQuery(tt.criteria))
		})
	}
}

func TestIssueQuery(t *testing.T) {
	got := IssueQuery(schema.IssueCriteria{Language: "Python", Labels: []string{"help wanted", "good first issue"}}.WithDefaults())
	assert.Equal(t, `state:open is:issue is:public language:Python label:"help wanted" label:"good first issue"`, got)

	got = IssueQuery(schema.IssueCriteria{}.WithDefaults())
	assert.Equal(t, `state:open is:issue is:public label:"good first issue"`, got)
}

func TestSearchRepositories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "language:Go stars:100..* is:public archived:false", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "20", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))
		_, _ = w.Write([]byte(`{"total_count":1,"incomplete_results":false,"items":[{
			"id": 260, "name": "cobra", "full_name": "spf13/cobra", "language": "Go",
			"topics": ["cli"], "stargazers_count": 40000, "forks_count": 2900,
			"open_issues_count": 250, "updated_at": "2025-06-01T10:00:00Z",
			"owner": {"login": "spf13", "avatar_url": "https://example.com/a.png"}
		}]}`))
	})

	repos, err := c.SearchRepositories(context.Background(), schema.RepoCriteria{Language: "Go"})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, schema.Repository{
		ID:         260,
		Name:       "cobra",
		FullName:   "spf13/cobra",
		Language:   "Go",
		Topics:     []string{"cli"},
		Stars:      40000,
		Forks:      2900,
		OpenIssues: 250,
		UpdatedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Owner:      schema.Owner{Login: "spf13", AvatarURL: "https://example.com/a.png"},
	}, repos[0])
}

func TestSearchIssues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, `state:open is:issue is:public language:Rust label:"good first issue"`, r.URL.Query().Get("q"))
		assert.Equal(t, "created", r.URL.Query().Get("sort"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"items":[{
			"id": 1, "number": 12, "title": "Add docs",
			"labels": [{"id": 3, "name": "good first issue", "color": "7057ff"}],
			"created_at": "2025-06-01T00:00:00Z",
			"repository_url": "https://api.github.com/repos/rust-lang/rustlings",
			"user": {"login": "octocat"}
		}]}`))
	})

	issues, err := c.SearchIssues(context.Background(), schema.IssueCriteria{Language: "Rust"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Add docs", issues[0].Title)
	assert.Equal(t, []schema.Label{{ID: 3, Name: "good first issue", Color: "7057ff"}}, issues[0].Labels)
	assert.Equal(t, "rust-lang/rustlings", issues[0].RepoRef().FullName)
}

func TestGetRepository(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/golang/go":
			_, _ = w.Write([]byte(`{"id": 23096959, "full_name": "golang/go", "language": null}`))
		case "/repositories/23096959":
			_, _ = w.Write([]byte(`{"id": 23096959, "full_name": "golang/go"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	})
	ctx := context.Background()

	repo, err := c.GetRepository(ctx, "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, int64(23096959), repo.ID)
	assert.Empty(t, repo.Language)

	repo, err = c.GetRepositoryByID(ctx, 23096959)
	require.NoError(t, err)
	assert.Equal(t, "golang/go", repo.FullName)

	_, err = c.GetRepositoryByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRepositoryIssues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widget/issues", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "bug,help wanted", r.URL.Query().Get("labels"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "real issue"},
			{"id": 2, "title": "a pull request", "pull_request": {"url": "https://api.github.com/repos/acme/widget/pulls/2"}}
		]`))
	})

	issues, err := c.GetRepositoryIssues(context.Background(), "acme", "widget", []string{"bug", "help wanted"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, int64(1), issues[0].ID)
}

func TestRetries(t *testing.T) {
	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"items":[]}`))
		})

		repos, err := c.SearchRepositories(context.Background(), schema.RepoCriteria{})
		require.NoError(t, err)
		assert.Empty(t, repos)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("rate limit retried until attempts run out", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.SearchIssues(context.Background(), schema.IssueCriteria{})
		require.Error(t, err)
		var se *statusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.code)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
		})

		_, err := c.SearchRepositories(context.Background(), schema.RepoCriteria{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Validation Failed")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.GetRepository(context.Background(), "nobody", "nothing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bad gateway", &statusError{code: 502}, true},
		{"too many requests", &statusError{code: 429}, true},
		{"forbidden", &statusError{code: 403}, false},
		{"not found", ErrNotFound, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("decode"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, "https://api.github.com", c.baseURL)
	assert.Equal(t, uint(1), c.attempts)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.log)
}
