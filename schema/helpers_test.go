package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileSkills(t *testing.T) {
	p := Profile{
		Languages:  []string{"Go", "Python"},
		Frameworks: []string{"React"},
	}
	assert.Equal(t, []string{"Go", "Python", "React"}, p.Skills())
	assert.Empty(t, Profile{}.Skills())
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		url  string
		want RepoRef
	}{
		{"https://api.github.com/repos/golang/go", RepoRef{Owner: "golang", Name: "go", FullName: "golang/go"}},
		{"https://api.github.com/repos/spf13/cobra/", RepoRef{Owner: "spf13", Name: "cobra", FullName: "spf13/cobra"}},
		{"owner/name", RepoRef{Owner: "owner", Name: "name", FullName: "owner/name"}},
		{"name", RepoRef{Name: "name", FullName: "/name"}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRepoRef(tt.url))
			assert.Equal(t, tt.want, Issue{RepositoryURL: tt.url}.RepoRef())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "rust"}, SplitList(" go, ,rust ,"))
	assert.Nil(t, SplitList(""))
}

func TestRepoCriteriaWithDefaults(t *testing.T) {
	got := RepoCriteria{Language: "Go"}.WithDefaults()
	assert.Equal(t, RepoCriteria{
		Language: "Go",
		MinStars: 100,
		Sort:     "stars",
		PerPage:  20,
		Page:     1,
	}, got)

	custom := RepoCriteria{MinStars: 5, MaxStars: 500, Sort: "updated", PerPage: 3, Page: 2}
	assert.Equal(t, custom, custom.WithDefaults())
}

func TestIssueCriteriaWithDefaults(t *testing.T) {
	got := IssueCriteria{Language: "Go"}.WithDefaults()
	assert.Equal(t, IssueCriteria{
		Language: "Go",
		Labels:   []string{"good first issue"},
		State:    "open",
		Sort:     "created",
		PerPage:  30,
		Page:     1,
	}, got)

	labels := []string{"help wanted"}
	custom := IssueCriteria{Labels: labels}.WithDefaults()
	custom.Labels[0] = "changed"
	assert.Equal(t, "help wanted", labels[0], "defaults must not alias the caller's labels")
}
