// Package schema holds the data model shared by the scoring engine, the cache and the outputs.
package schema

import "time"

// Profile is the developer's stated skills and experience.
type Profile struct {
	Languages  []string        `json:"languages"`
	Frameworks []string        `json:"frameworks"`
	Experience ExperienceLevel `json:"experience"`
}

// Owner is the account that owns a repository or opened an issue.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository mirrors the subset of the GitHub repository payload we score.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language"` // empty when GitHub reports null
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       Owner     `json:"owner"`
}

// Label is a single issue label.
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue mirrors the subset of the GitHub issue payload we score.
type Issue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	HTMLURL       string    `json:"html_url"`
	Labels        []Label   `json:"labels"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	RepositoryURL string    `json:"repository_url"`
	User          Owner     `json:"user"`
}

// RepoRef identifies the repository an issue belongs to.
type RepoRef struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// MatchScore is the explainable result of scoring one candidate.
// Total is always the exact sum of the sub-scores.
type MatchScore struct {
	Total           float64  `json:"total"`
	SkillMatch      float64  `json:"skill_match"`
	DifficultyMatch float64  `json:"difficulty_match"`
	ActivityScore   float64  `json:"activity_score"`
	PopularityScore float64  `json:"popularity_score"`
	FreshnessScore  float64  `json:"freshness_score"`
	Breakdown       []string `json:"breakdown"`
}

// ScoredRepository is a repository together with its match score.
type ScoredRepository struct {
	Repository
	MatchScore MatchScore `json:"match_score"`
}

// ScoredIssue is an issue together with its match score and derived fields.
type ScoredIssue struct {
	Issue
	MatchScore     MatchScore `json:"match_score"`
	Difficulty     Difficulty `json:"difficulty"`
	RequiredSkills []string   `json:"required_skills"`
	Explanation    string     `json:"explanation"`
	Repository     RepoRef    `json:"repository"`
}

// Recommendations is the merged, ranked result of a profile-driven search.
type Recommendations struct {
	Repositories []ScoredRepository `json:"repositories"`
	Issues       []ScoredIssue      `json:"issues"`
}

// RepositoryDetail is a single repository with its ranked open issues.
type RepositoryDetail struct {
	Repository ScoredRepository `json:"repository"`
	Issues     []ScoredIssue    `json:"issues"`
}
