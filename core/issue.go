package core

import (
	"slices"
	"strings"

	"github.com/huangsam/osscompass/schema"
)

var (
	easyPatterns = []string{"good first issue", "beginner", "easy", "starter"}
	hardPatterns = []string{"hard", "complex", "advanced", "expert"}
)

// skillKeywords maps a label substring to the skill it implies, in lookup order.
var skillKeywords = []struct {
	keyword string
	skill   string
}{
	{"typescript", "TypeScript"},
	{"javascript", "JavaScript"},
	{"python", "Python"},
	{"react", "React"},
	{"vue", "Vue.js"},
	{"angular", "Angular"},
	{"documentation", "Technical Writing"},
	{"accessibility", "ARIA"},
	{"api", "API Design"},
}

// ClassifyDifficulty infers the difficulty tier from label names.
// Easy patterns win over hard ones, and no match means medium.
func ClassifyDifficulty(labels []schema.Label) schema.Difficulty {
	names := make([]string, len(labels))
	for i, label := range labels {
		names[i] = strings.ToLower(label.Name)
	}
	if anyContains(names, easyPatterns) {
		return schema.Easy
	}
	if anyContains(names, hardPatterns) {
		return schema.Hard
	}
	return schema.Medium
}

func anyContains(names, patterns []string) bool {
	for _, name := range names {
		for _, p := range patterns {
			if strings.Contains(name, p) {
				return true
			}
		}
	}
	return false
}

// ExtractRequiredSkills lists the repository language followed by skills
// implied by label keywords, without duplicates.
func ExtractRequiredSkills(labels []schema.Label, repoLanguage string) []string {
	var skills []string
	if repoLanguage != "" {
		skills = append(skills, repoLanguage)
	}
	for _, label := range labels {
		name := strings.ToLower(label.Name)
		for _, kw := range skillKeywords {
			if strings.Contains(name, kw.keyword) && !slices.Contains(skills, kw.skill) {
				skills = append(skills, kw.skill)
			}
		}
	}
	return skills
}

// Explain summarizes why an issue was recommended.
func Explain(difficulty schema.Difficulty, score schema.MatchScore) string {
	var reasons []string
	switch difficulty {
	case schema.Easy:
		reasons = append(reasons, "Great for beginners")
	case schema.Medium:
		reasons = append(reasons, "Good challenge for intermediate developers")
	default:
		reasons = append(reasons, "Complex task for experienced contributors")
	}
	if score.SkillMatch > 25 {
		reasons = append(reasons, "matches your skills well")
	}
	if score.FreshnessScore > 3 {
		reasons = append(reasons, "recently opened")
	}
	return strings.Join(reasons, ", ") + "."
}
