//go:build basic

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recentTimestamp() string {
	return time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
}

// fakeGitHub serves canned search responses and counts requests.
func fakeGitHub(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	updated := recentTimestamp()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/repositories":
			_, _ = w.Write([]byte(`{"total_count": 2, "items": [
				{"id": 1, "name": "cobra", "full_name": "spf13/cobra", "language": "Go", "topics": ["cli"],
				 "stargazers_count": 40000, "forks_count": 2900, "open_issues_count": 250, "updated_at": "` + updated + `"},
				{"id": 2, "name": "tiny", "full_name": "acme/tiny", "language": "Go", "stargazers_count": 100}
			]}`))
		case "/search/issues":
			_, _ = w.Write([]byte(`{"items": [
				{"id": 10, "number": 3, "title": "Add docs", "labels": [{"name": "good first issue"}],
				 "created_at": "` + updated + `", "repository_url": "https://api.github.com/repos/spf13/cobra"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestReposJSON(t *testing.T) {
	srv, calls := fakeGitHub(t)
	env := []string{
		"OSSCOMPASS_GITHUB_API_URL=" + srv.URL,
		"OSSCOMPASS_CACHE_BACKEND=memory",
	}

	out, err := runCommand(t, env, "repos", "--languages", "go", "--output", "json")
	require.NoError(t, err)

	var repos []struct {
		Rank     int    `json:"rank"`
		FullName string `json:"full_name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "spf13/cobra", repos[0].FullName)
	assert.Equal(t, 1, repos[0].Rank)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecommendText(t *testing.T) {
	srv, _ := fakeGitHub(t)
	env := []string{
		"OSSCOMPASS_GITHUB_API_URL=" + srv.URL,
		"OSSCOMPASS_CACHE_BACKEND=none",
		"OSSCOMPASS_COLOR=no",
	}

	out, err := runCommand(t, env, "recommend", "--languages", "go", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "spf13/cobra")
	assert.Contains(t, out, "Add docs")
	assert.Contains(t, out, "Recommendation completed in")
}

func TestSQLiteCacheAvoidsRepeatSearches(t *testing.T) {
	srv, calls := fakeGitHub(t)
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	env := []string{
		"OSSCOMPASS_GITHUB_API_URL=" + srv.URL,
		"OSSCOMPASS_CACHE_DB_CONNECT=" + dbPath,
	}

	for range 2 {
		_, err := runCommand(t, env, "issues", "--languages", "go", "--output", "csv")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	out, err := runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "osscompass entries: 1")

	out, err = runCommand(t, env, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cached responses.")
}

func TestScoreOffline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	payload := `[{"id": 7, "full_name": "pallets/flask", "language": "Python", "stargazers_count": 60000, "updated_at": "` + recentTimestamp() + `"}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	// An unreachable API URL proves no request is made.
	env := []string{"OSSCOMPASS_GITHUB_API_URL=http://127.0.0.1:1"}
	out, err := runCommand(t, env, "score", "repos", path, "--languages", "python", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "pallets/flask")
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCommand(t, nil, "repos", "--limit", "500")
	require.Error(t, err)

	_, err = runCommand(t, nil, "repos", "--output", "parquet")
	require.Error(t, err)
}
