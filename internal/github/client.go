// Package github implements contract.Searcher over the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"go.uber.org/zap"
)

// ErrNotFound is returned when GitHub reports 404 for a repository.
var ErrNotFound = errors.New("github: not found")

// Retry constants.
const (
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
	repoIssuesPerPage = 30
)

// Config holds configuration for creating a new GitHub client.
type Config struct {
	BaseURL    string        // defaults to contract.DefaultGitHubAPIURL
	Token      string        // optional; raises the rate limit when set
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // attempts for retryable failures
	RetryDelay time.Duration // initial backoff delay
	Logger     *zap.Logger
	HTTPClient *http.Client // overrides Timeout when set
}

// Client handles all GitHub API interactions.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration
	log        *zap.Logger
}

var _ contract.Searcher = &Client{} // Compile-time check

// New creates a GitHub client from cfg, filling in defaults.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		attempts:   uint(max(cfg.MaxRetries, 1)),
		retryDelay: cfg.RetryDelay,
		log:        cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = contract.DefaultGitHubAPIURL
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = contract.DefaultHTTPTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.retryDelay <= 0 {
		c.retryDelay = initialRetryDelay
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

// retryable reports whether a failed attempt is worth repeating.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= http.StatusInternalServerError
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// getJSON fetches path with query and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return retry.Do(
		func() error {
			return c.fetch(ctx, endpoint, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(c.retryDelay/4),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("github request retry",
				zap.String("path", path),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", c.attempts),
				zap.Error(err))
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
}

func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	c.log.Debug("github response",
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// searchResponse is the envelope of every /search endpoint.
type searchResponse[T any] struct {
	TotalCount int  `json:"total_count"`
	Incomplete bool `json:"incomplete_results"`
	Items      []T  `json:"items"`
}

// SearchRepositories implements the Searcher interface.
func (c *Client) SearchRepositories(ctx context.Context, criteria schema.RepoCriteria) ([]schema.Repository, error) {
	criteria = criteria.WithDefaults()
	params := url.Values{}
	params.Set("q", RepoQuery(criteria))
	params.Set("sort", criteria.Sort)
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(criteria.PerPage))
	params.Set("page", strconv.Itoa(criteria.Page))

	var resp searchResponse[schema.Repository]
	if err := c.getJSON(ctx, "/search/repositories", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	return resp.Items, nil
}

// SearchIssues implements the Searcher interface.
func (c *Client) SearchIssues(ctx context.Context, criteria schema.IssueCriteria) ([]schema.Issue, error) {
	criteria = criteria.WithDefaults()
	params := url.Values{}
	params.Set("q", IssueQuery(criteria))
	params.Set("sort", criteria.Sort)
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(criteria.PerPage))
	params.Set("page", strconv.Itoa(criteria.Page))

	var resp searchResponse[schema.Issue]
	if err := c.getJSON(ctx, "/search/issues", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	return resp.Items, nil
}

// GetRepository implements the Searcher interface.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (schema.Repository, error) {
	var repo schema.Repository
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	if err := c.getJSON(ctx, path, nil, &repo); err != nil {
		return repo, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}
	return repo, nil
}

// GetRepositoryByID implements the Searcher interface.
func (c *Client) GetRepositoryByID(ctx context.Context, id int64) (schema.Repository, error) {
	var repo schema.Repository
	if err := c.getJSON(ctx, "/repositories/"+strconv.FormatInt(id, 10), nil, &repo); err != nil {
		return repo, fmt.Errorf("failed to fetch repository %d: %w", id, err)
	}
	return repo, nil
}

// issueItem is a repository issue listing entry, which may be a pull request.
type issueItem struct {
	schema.Issue
	PullRequest json.RawMessage `json:"pull_request,omitempty"`
}

// GetRepositoryIssues implements the Searcher interface.
// Pull requests returned by the listing are dropped.
func (c *Client) GetRepositoryIssues(ctx context.Context, owner, name string, labels []string) ([]schema.Issue, error) {
	params := url.Values{}
	params.Set("state", schema.DefaultIssueState)
	params.Set("per_page", strconv.Itoa(repoIssuesPerPage))
	if len(labels) > 0 {
		params.Set("labels", strings.Join(labels, ","))
	}

	var items []issueItem
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name) + "/issues"
	if err := c.getJSON(ctx, path, params, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch issues for %s/%s: %w", owner, name, err)
	}

	issues := make([]schema.Issue, 0, len(items))
	for _, item := range items {
		if len(item.PullRequest) > 0 {
			continue
		}
		issues = append(issues, item.Issue)
	}
	return issues, nil
}

// RepoQuery builds the search qualifier string for a repository search.
func RepoQuery(c schema.RepoCriteria) string {
	var parts []string
	if c.Language != "" {
		parts = append(parts, "language:"+c.Language)
	}
	if c.Topic != "" {
		parts = append(parts, "topic:"+c.Topic)
	}
	upper := "*"
	if c.MaxStars > 0 {
		upper = strconv.Itoa(c.MaxStars)
	}
	parts = append(parts, fmt.Sprintf("stars:%d..%s", c.MinStars, upper), "is:public", "archived:false")
	return strings.Join(parts, " ")
}

// IssueQuery builds the search qualifier string for an issue search.
func IssueQuery(c schema.IssueCriteria) string {
	parts := []string{"state:" + c.State, "is:issue", "is:public"}
	if c.Language != "" {
		parts = append(parts, "language:"+c.Language)
	}
	for _, label := range c.Labels {
		parts = append(parts, fmt.Sprintf("label:%q", label))
	}
	return strings.Join(parts, " ")
}
