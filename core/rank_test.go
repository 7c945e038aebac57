package core

import (
	"testing"

	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredRepo(id int64, total float64) schema.ScoredRepository {
	return schema.ScoredRepository{
		Repository: schema.Repository{ID: id},
		MatchScore: schema.MatchScore{Total: total},
	}
}

func totals[T Scored](items []T) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.ScoreTotal()
	}
	return out
}

func ids(items []schema.ScoredRepository) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestSortByScore(t *testing.T) {
	t.Run("filters and orders", func(t *testing.T) {
		items := []schema.ScoredRepository{scoredRepo(1, 20), scoredRepo(2, 45), scoredRepo(3, 31)}
		got := SortByScore(items, 30)
		assert.Equal(t, []float64{45, 31}, totals(got))
		assert.Equal(t, []float64{20, 45, 31}, totals(items), "input is untouched")
	})

	t.Run("minimum is inclusive", func(t *testing.T) {
		got := SortByScore([]schema.ScoredRepository{scoredRepo(1, 29.99), scoredRepo(2, 30)}, MinRepositoryScore)
		assert.Equal(t, []int64{2}, ids(got))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		items := []schema.ScoredRepository{scoredRepo(1, 50), scoredRepo(2, 70), scoredRepo(3, 50), scoredRepo(4, 50)}
		assert.Equal(t, []int64{2, 1, 3, 4}, ids(SortByScore(items, 0)))
	})

	t.Run("idempotent", func(t *testing.T) {
		items := []schema.ScoredRepository{scoredRepo(1, 10), scoredRepo(2, 90), scoredRepo(3, 40), scoredRepo(4, 40)}
		once := SortByScore(items, 25)
		assert.Equal(t, once, SortByScore(once, 25))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SortByScore([]schema.ScoredIssue(nil), 0))
	})

	t.Run("issues", func(t *testing.T) {
		issues := []schema.ScoredIssue{
			{Issue: schema.Issue{ID: 1}, MatchScore: schema.MatchScore{Total: 24}},
			{Issue: schema.Issue{ID: 2}, MatchScore: schema.MatchScore{Total: 60}},
		}
		got := SortByScore(issues, MinIssueScore)
		assert.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})
}

func TestDedupeByID(t *testing.T) {
	items := []schema.ScoredRepository{scoredRepo(1, 10), scoredRepo(2, 20), scoredRepo(1, 99), scoredRepo(3, 30)}
	got := DedupeByID(items)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
	assert.Equal(t, []float64{99, 20, 30}, totals(got), "last value wins at the first position")
}

func TestLimit(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, Limit(items, 2))
	assert.Equal(t, []int{1, 2, 3}, Limit(items, 10))
	assert.Equal(t, []int{1, 2, 3}, Limit(items, 0))
}

func TestFilterRepositories(t *testing.T) {
	repos := []schema.ScoredRepository{
		{Repository: schema.Repository{ID: 1, Topics: []string{"gsoc"}}, MatchScore: schema.MatchScore{Total: 80}},
		{Repository: schema.Repository{ID: 2, Topics: []string{"hacktoberfest", "go"}}, MatchScore: schema.MatchScore{Total: 69}},
		{Repository: schema.Repository{ID: 3, Topics: []string{"gsoc-2025"}}, MatchScore: schema.MatchScore{Total: 70}},
	}

	tests := []struct {
		mode schema.FilterMode
		want []int64
	}{
		{schema.AllFilter, []int64{1, 2, 3}},
		{schema.BeginnerFilter, []int64{1, 3}},
		{schema.GSoCFilter, []int64{1}},
		{schema.HacktoberfestFilter, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterRepositories(repos, tt.mode)))
		})
	}
}

func TestFilterIssues(t *testing.T) {
	issues := []schema.ScoredIssue{
		{Issue: schema.Issue{ID: 1, Labels: labels("GSoC 2025")}, Difficulty: schema.Medium},
		{Issue: schema.Issue{ID: 2, Labels: labels("Hacktoberfest-accepted")}, Difficulty: schema.Easy},
		{Issue: schema.Issue{ID: 3}, Difficulty: schema.Easy},
	}

	tests := []struct {
		mode schema.FilterMode
		want []int64
	}{
		{schema.AllFilter, []int64{1, 2, 3}},
		{schema.BeginnerFilter, []int64{2, 3}},
		{schema.GSoCFilter, []int64{1}},
		{schema.HacktoberfestFilter, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := FilterIssues(issues, tt.mode)
			gotIDs := make([]int64, len(got))
			for i, issue := range got {
				gotIDs[i] = issue.ID
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestView(t *testing.T) {
	repos := []schema.ScoredRepository{
		{Repository: schema.Repository{ID: 1, Topics: []string{"hacktoberfest"}}, MatchScore: schema.MatchScore{Total: 90}},
		{Repository: schema.Repository{ID: 2}, MatchScore: schema.MatchScore{Total: 75}},
		{Repository: schema.Repository{ID: 3, Topics: []string{"hacktoberfest"}}, MatchScore: schema.MatchScore{Total: 40}},
		{Repository: schema.Repository{ID: 4}, MatchScore: schema.MatchScore{Total: 31}},
	}

	tests := []struct {
		name string
		view View
		want []int64
	}{
		{"zero view keeps everything", View{}, []int64{1, 2, 3, 4}},
		{"limit", View{Limit: 2}, []int64{1, 2}},
		{"min score", View{MinScore: 50}, []int64{1, 2}},
		{"filter then limit", View{Filter: schema.HacktoberfestFilter, Limit: 1}, []int64{1}},
		{"beginner filter", View{Filter: schema.BeginnerFilter, Limit: 5}, []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.view.Repositories(repos)))
		})
	}

	issues := []schema.ScoredIssue{
		{Issue: schema.Issue{ID: 1}, MatchScore: schema.MatchScore{Total: 30}, Difficulty: schema.Hard},
		{Issue: schema.Issue{ID: 2}, MatchScore: schema.MatchScore{Total: 60}, Difficulty: schema.Easy},
		{Issue: schema.Issue{ID: 3}, MatchScore: schema.MatchScore{Total: 55}, Difficulty: schema.Easy},
	}
	got := View{Filter: schema.BeginnerFilter, MinScore: 56}.Issues(issues)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}
