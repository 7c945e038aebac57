package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fan-out limits and query shapes used by Recommend.
const (
	recommendRepoLanguages  = 3
	recommendIssueLanguages = 2
	recommendMaxStars       = 50000
	recommendRepoPerPage    = 20
	recommendIssuePerPage   = 30
)

// Recommender runs upstream searches and ranks the results for a profile.
type Recommender struct {
	searcher contract.Searcher
	log      *zap.Logger
	now      func() time.Time
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*Recommender)

// WithNow overrides the reference time used for scoring.
func WithNow(now func() time.Time) RecommenderOption {
	return func(r *Recommender) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecommender builds a Recommender over searcher. A nil log discards output.
func NewRecommender(searcher contract.Searcher, log *zap.Logger, opts ...RecommenderOption) *Recommender {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recommender{searcher: searcher, log: log, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Repositories searches repositories and returns those scoring at least MinRepositoryScore.
func (r *Recommender) Repositories(ctx context.Context, criteria schema.RepoCriteria, profile schema.Profile) ([]schema.ScoredRepository, error) {
	repos, err := r.searcher.SearchRepositories(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	return SortByScore(r.scoreRepositories(repos, profile), MinRepositoryScore), nil
}

// Issues searches issues and returns those scoring at least MinIssueScore.
// The owning repository's language is not known here, so it does not count.
func (r *Recommender) Issues(ctx context.Context, criteria schema.IssueCriteria, profile schema.Profile) ([]schema.ScoredIssue, error) {
	issues, err := r.searcher.SearchIssues(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return SortByScore(r.scoreIssues(issues, profile), MinIssueScore), nil
}

// Recommend queries repositories for the first three languages and issues for
// the first two, then merges, deduplicates and ranks them. A failed query is
// logged and skipped. Only cancellation aborts the whole call.
func (r *Recommender) Recommend(ctx context.Context, profile schema.Profile) (schema.Recommendations, error) {
	var out schema.Recommendations
	if len(profile.Languages) == 0 {
		return out, nil
	}

	repoLangs := profile.Languages[:min(recommendRepoLanguages, len(profile.Languages))]
	issueLangs := profile.Languages[:min(recommendIssueLanguages, len(profile.Languages))]
	labels := LabelsFor(profile.Experience)

	repoResults := make([][]schema.Repository, len(repoLangs))
	issueResults := make([][]schema.Issue, len(issueLangs))

	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range repoLangs {
		g.Go(func() error {
			repos, err := r.searcher.SearchRepositories(gctx, schema.RepoCriteria{
				Language: lang,
				MinStars: schema.DefaultMinStars,
				MaxStars: recommendMaxStars,
				PerPage:  recommendRepoPerPage,
			})
			if err != nil {
				return r.skip(gctx, "repositories", lang, err)
			}
			repoResults[i] = repos
			return nil
		})
	}
	for i, lang := range issueLangs {
		g.Go(func() error {
			issues, err := r.searcher.SearchIssues(gctx, schema.IssueCriteria{
				Language: lang,
				Labels:   labels,
				PerPage:  recommendIssuePerPage,
			})
			if err != nil {
				return r.skip(gctx, "issues", lang, err)
			}
			issueResults[i] = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	var repos []schema.Repository
	for _, batch := range repoResults {
		repos = append(repos, batch...)
	}
	var issues []schema.Issue
	for _, batch := range issueResults {
		issues = append(issues, batch...)
	}

	out.Repositories = SortByScore(DedupeByID(r.scoreRepositories(repos, profile)), MinRecommendationScore)
	out.Issues = SortByScore(DedupeByID(r.scoreIssues(issues, profile)), MinRecommendationScore)
	r.log.Debug("recommendations ranked",
		zap.Int("repositories", len(out.Repositories)),
		zap.Int("issues", len(out.Issues)))
	return out, nil
}

// RepositoryDetail scores one repository and ranks its open issues.
func (r *Recommender) RepositoryDetail(ctx context.Context, id int64, profile schema.Profile) (schema.RepositoryDetail, error) {
	var out schema.RepositoryDetail
	repo, err := r.searcher.GetRepositoryByID(ctx, id)
	if err != nil {
		return out, fmt.Errorf("get repository %d: %w", id, err)
	}
	issues, err := r.searcher.GetRepositoryIssues(ctx, repo.Owner.Login, repo.Name, nil)
	if err != nil {
		return out, fmt.Errorf("get issues for %s: %w", repo.FullName, err)
	}

	out.Repository = ScoreRepository(repo, profile, r.now())
	out.Issues = SortByScore(r.scoreIssues(issues, profile), MinRepoIssueScore)
	return out, nil
}

// LabelsFor picks the issue labels worth searching for an experience level.
func LabelsFor(level schema.ExperienceLevel) []string {
	switch level {
	case schema.Beginner:
		return []string{"good first issue"}
	case schema.Intermediate:
		return []string{"help wanted", "good first issue"}
	default:
		return []string{"help wanted", "enhancement"}
	}
}

// skip logs a failed per-language query. It only returns an error on cancellation.
func (r *Recommender) skip(ctx context.Context, kind, lang string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.log.Warn("recommendation query failed",
		zap.String("kind", kind),
		zap.String("language", lang),
		zap.Error(err))
	return nil
}

func (r *Recommender) scoreRepositories(repos []schema.Repository, profile schema.Profile) []schema.ScoredRepository {
	asOf := r.now()
	scored := make([]schema.ScoredRepository, len(repos))
	for i, repo := range repos {
		scored[i] = ScoreRepository(repo, profile, asOf)
	}
	return scored
}

func (r *Recommender) scoreIssues(issues []schema.Issue, profile schema.Profile) []schema.ScoredIssue {
	asOf := r.now()
	scored := make([]schema.ScoredIssue, len(issues))
	for i, issue := range issues {
		scored[i] = ScoreIssue(issue, profile, "", asOf)
	}
	return scored
}
