package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/osscompass/schema"
)

// Skill match weights. The sum is capped at maxSkillScore.
const (
	maxSkillScore     = 40.0
	languageMatch     = 15.0
	topicMatchEach    = 5.0
	maxTopicScore     = 15.0
	maxRequiredScore  = 10.0
	defaultDifficulty = 15.0 // unknown experience level or difficulty
)

// Fixed sub-scores for the dimensions a candidate type does not carry.
const (
	repoDifficultyScore  = 20.0
	issueActivityScore   = 10.0
	issuePopularityScore = 5.0
)

const maxPopularityScore = 10.0

// difficultyTable maps experience to difficulty to points.
var difficultyTable = map[schema.ExperienceLevel]map[schema.Difficulty]float64{
	schema.Beginner:     {schema.Easy: 30, schema.Medium: 15, schema.Hard: 5},
	schema.Intermediate: {schema.Easy: 20, schema.Medium: 30, schema.Hard: 15},
	schema.Advanced:     {schema.Easy: 10, schema.Medium: 20, schema.Hard: 30},
}

// band is one step of a days-since threshold table.
type band struct {
	under  float64 // exclusive upper bound in days
	points float64
	reason string
}

var (
	activityBands = []band{
		{7, 10, "Very active (updated this week)"},
		{30, 7, "Active (updated this month)"},
		{90, 4, "Moderately active"},
	}
	freshnessBands = []band{
		{7, 5, "Fresh issue (< 1 week)"},
		{30, 3, "Recent issue (< 1 month)"},
		{90, 1, "Older issue"},
	}
)

// ScoreRepository scores repo against profile, measuring time bands from asOf.
func ScoreRepository(repo schema.Repository, profile schema.Profile, asOf time.Time) schema.ScoredRepository {
	skill, skillReasons := skillMatch(profile.Skills(), repo.Language, repo.Topics, nil)
	activity, activityReasons := activityScore(repo.UpdatedAt, repo.OpenIssues, asOf)
	popularity, popularityReasons := popularityScore(repo.Stars, repo.Forks)

	breakdown := make([]string, 0, len(skillReasons)+len(activityReasons)+len(popularityReasons))
	breakdown = append(breakdown, skillReasons...)
	breakdown = append(breakdown, activityReasons...)
	breakdown = append(breakdown, popularityReasons...)

	return schema.ScoredRepository{
		Repository: repo,
		MatchScore: schema.MatchScore{
			Total:           skill + repoDifficultyScore + activity + popularity,
			SkillMatch:      skill,
			DifficultyMatch: repoDifficultyScore,
			ActivityScore:   activity,
			PopularityScore: popularity,
			Breakdown:       breakdown,
		},
	}
}

// ScoreIssue scores issue against profile. repoLanguage may be empty when
// the owning repository's language is unknown.
func ScoreIssue(issue schema.Issue, profile schema.Profile, repoLanguage string, asOf time.Time) schema.ScoredIssue {
	difficulty := ClassifyDifficulty(issue.Labels)
	required := ExtractRequiredSkills(issue.Labels, repoLanguage)

	skill, skillReasons := skillMatch(profile.Skills(), repoLanguage, nil, required)
	diff, diffReason := difficultyMatch(profile.Experience, difficulty)
	fresh, freshReason := freshnessScore(issue.CreatedAt, asOf)

	breakdown := make([]string, 0, len(skillReasons)+2)
	breakdown = append(breakdown, skillReasons...)
	breakdown = append(breakdown, diffReason)
	if freshReason != "" {
		breakdown = append(breakdown, freshReason)
	}

	score := schema.MatchScore{
		Total:           skill + diff + issueActivityScore + issuePopularityScore + fresh,
		SkillMatch:      skill,
		DifficultyMatch: diff,
		ActivityScore:   issueActivityScore,
		PopularityScore: issuePopularityScore,
		FreshnessScore:  fresh,
		Breakdown:       breakdown,
	}

	return schema.ScoredIssue{
		Issue:          issue,
		MatchScore:     score,
		Difficulty:     difficulty,
		RequiredSkills: required,
		Explanation:    Explain(difficulty, score),
		Repository:     issue.RepoRef(),
	}
}

// skillMatch awards points for language, topic and required-skill overlap.
func skillMatch(skills []string, language string, topics, required []string) (float64, []string) {
	normalized := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			normalized = append(normalized, s)
		}
	}

	var score float64
	var reasons []string

	if language != "" && slices.Contains(normalized, strings.ToLower(language)) {
		score += languageMatch
		reasons = append(reasons, "Language match: "+language)
	}

	var topicHits []string
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		if slices.ContainsFunc(normalized, func(s string) bool { return strings.Contains(lower, s) }) {
			topicHits = append(topicHits, topic)
		}
	}
	if len(topicHits) > 0 {
		score += min(float64(len(topicHits))*topicMatchEach, maxTopicScore)
		reasons = append(reasons, "Topic matches: "+strings.Join(topicHits, ", "))
	}

	if len(required) > 0 {
		var hits []string
		for _, req := range required {
			lower := strings.ToLower(req)
			if slices.ContainsFunc(normalized, func(s string) bool {
				return strings.Contains(lower, s) || strings.Contains(s, lower)
			}) {
				hits = append(hits, req)
			}
		}
		score += float64(len(hits)) / float64(len(required)) * maxRequiredScore
		if len(hits) > 0 {
			reasons = append(reasons, "Required skills: "+strings.Join(hits, ", "))
		}
	}

	return min(score, maxSkillScore), reasons
}

// difficultyMatch looks up the experience/difficulty fit. The reason is always set.
func difficultyMatch(level schema.ExperienceLevel, difficulty schema.Difficulty) (float64, string) {
	reason := fmt.Sprintf("%s → %s issue", level, difficulty)
	if points, ok := difficultyTable[level][difficulty]; ok {
		return points, reason
	}
	return defaultDifficulty, reason
}

func activityScore(updatedAt time.Time, openIssues int, asOf time.Time) (float64, []string) {
	var score float64
	var reasons []string

	if points, reason := bandFor(activityBands, updatedAt, asOf); reason != "" {
		score += points
		reasons = append(reasons, reason)
	}

	switch {
	case openIssues > 10 && openIssues < 500:
		score += 5
		reasons = append(reasons, "Healthy issue count")
	case openIssues >= 500:
		score += 2
		reasons = append(reasons, "Many open issues")
	}
	return score, reasons
}

func popularityScore(stars, forks int) (float64, []string) {
	var score float64
	var reasons []string

	switch {
	case stars >= 1000 && stars < 10000:
		score += 7
		reasons = append(reasons, "Well-established project")
	case stars >= 10000 && stars < 50000:
		score += 5
		reasons = append(reasons, "Popular project")
	case stars >= 100 && stars < 1000:
		score += 4
		reasons = append(reasons, "Growing project")
	case stars >= 50000:
		score += 3
		reasons = append(reasons, "Very popular (competitive)")
	}

	if forks > 100 {
		score += 3
		reasons = append(reasons, "Active community")
	}
	return min(score, maxPopularityScore), reasons
}

func freshnessScore(createdAt, asOf time.Time) (float64, string) {
	return bandFor(freshnessBands, createdAt, asOf)
}

// bandFor returns the first band whose bound exceeds the age of t.
// A zero t scores nothing.
func bandFor(bands []band, t, asOf time.Time) (float64, string) {
	if t.IsZero() {
		return 0, ""
	}
	days := asOf.Sub(t).Hours() / 24
	for _, b := range bands {
		if days < b.under {
			return b.points, b.reason
		}
	}
	return 0, ""
}
