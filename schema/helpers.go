package schema

import (
	"slices"
	"strings"
)

// Skills returns the languages followed by the frameworks.
func (p Profile) Skills() []string {
	skills := make([]string, 0, len(p.Languages)+len(p.Frameworks))
	skills = append(skills, p.Languages...)
	skills = append(skills, p.Frameworks...)
	return skills
}

// RepoRef derives the owning repository from the issue's repository URL.
func (i Issue) RepoRef() RepoRef {
	return ParseRepoRef(i.RepositoryURL)
}

// ParseRepoRef takes the last two path segments of a repository URL
// such as https://api.github.com/repos/owner/name.
func ParseRepoRef(url string) RepoRef {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	var ref RepoRef
	if n := len(parts); n >= 2 {
		ref.Owner = parts[n-2]
		ref.Name = parts[n-1]
	} else if n == 1 {
		ref.Name = parts[0]
	}
	ref.FullName = ref.Owner + "/" + ref.Name
	return ref
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Identity returns the GitHub ID used to deduplicate repositories.
func (r Repository) Identity() int64 { return r.ID }

// Identity returns the GitHub ID used to deduplicate issues.
func (i Issue) Identity() int64 { return i.ID }

// ScoreTotal returns the total match score.
func (s ScoredRepository) ScoreTotal() float64 { return s.MatchScore.Total }

// ScoreTotal returns the total match score.
func (s ScoredIssue) ScoreTotal() float64 { return s.MatchScore.Total }

// HasTopic reports whether topic is one of the repository's topics.
func (r Repository) HasTopic(topic string) bool {
	return slices.Contains(r.Topics, topic)
}

// HasLabelLike reports whether any label name contains sub, ignoring case.
func (i Issue) HasLabelLike(sub string) bool {
	sub = strings.ToLower(sub)
	for _, label := range i.Labels {
		if strings.Contains(strings.ToLower(label.Name), sub) {
			return true
		}
	}
	return false
}
