package core

import (
	"cmp"
	"slices"

	"github.com/huangsam/osscompass/schema"
)

// Default minimum totals applied by each listing.
const (
	MinRepositoryScore     = 30.0
	MinIssueScore          = 25.0
	MinRecommendationScore = 20.0
	MinRepoIssueScore      = 10.0
)

// beginnerRepoScore is the total a repository needs to pass the beginner filter.
const beginnerRepoScore = 70.0

// Scored is anything ranked by its total match score.
type Scored interface {
	ScoreTotal() float64
}

// Identified is anything deduplicated by a GitHub ID.
type Identified interface {
	Identity() int64
}

// SortByScore drops items whose total is below minScore and returns the rest
// ordered by descending total. Equal totals keep their input order.
// The input slice is not modified.
func SortByScore[T Scored](items []T, minScore float64) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.ScoreTotal() >= minScore {
			kept = append(kept, item)
		}
	}
	slices.SortStableFunc(kept, func(a, b T) int {
		return cmp.Compare(b.ScoreTotal(), a.ScoreTotal())
	})
	return kept
}

// DedupeByID keeps one item per ID at the position of its first occurrence,
// holding the value of its last occurrence.
func DedupeByID[T Identified](items []T) []T {
	index := make(map[int64]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.Identity()]; ok {
			out[i] = item
			continue
		}
		index[item.Identity()] = len(out)
		out = append(out, item)
	}
	return out
}

// Limit truncates items to at most n entries. n <= 0 keeps everything.
func Limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// FilterRepositories applies a display filter to ranked repositories.
func FilterRepositories(repos []schema.ScoredRepository, mode schema.FilterMode) []schema.ScoredRepository {
	switch mode {
	case schema.BeginnerFilter:
		return keep(repos, func(r schema.ScoredRepository) bool { return r.MatchScore.Total >= beginnerRepoScore })
	case schema.GSoCFilter, schema.HacktoberfestFilter:
		return keep(repos, func(r schema.ScoredRepository) bool { return r.HasTopic(string(mode)) })
	default:
		return repos
	}
}

// FilterIssues applies a display filter to ranked issues.
func FilterIssues(issues []schema.ScoredIssue, mode schema.FilterMode) []schema.ScoredIssue {
	switch mode {
	case schema.BeginnerFilter:
		return keep(issues, func(i schema.ScoredIssue) bool { return i.Difficulty == schema.Easy })
	case schema.GSoCFilter, schema.HacktoberfestFilter:
		return keep(issues, func(i schema.ScoredIssue) bool { return i.HasLabelLike(string(mode)) })
	default:
		return issues
	}
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// View is how a ranked listing is presented: a display filter, an optional
// stricter minimum score and a result limit.
type View struct {
	Filter   schema.FilterMode
	MinScore float64 // 0 keeps the listing's own minimum
	Limit    int     // 0 keeps everything
}

// Repositories applies the view to ranked repositories.
func (v View) Repositories(repos []schema.ScoredRepository) []schema.ScoredRepository {
	return Limit(SortByScore(FilterRepositories(repos, v.Filter), v.MinScore), v.Limit)
}

// Issues applies the view to ranked issues.
func (v View) Issues(issues []schema.ScoredIssue) []schema.ScoredIssue {
	return Limit(SortByScore(FilterIssues(issues, v.Filter), v.MinScore), v.Limit)
}
