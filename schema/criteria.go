package schema

// Default search criteria.
const (
	DefaultMinStars      = 100
	DefaultRepoSort      = "stars"
	DefaultRepoPerPage   = 20
	DefaultIssueState    = "open"
	DefaultIssueSort     = "created"
	DefaultIssuePerPage  = 30
	DefaultPage          = 1
	DefaultBeginnerLabel = "good first issue"
)

// RepoCriteria describes a repository search.
type RepoCriteria struct {
	Language string `json:"language,omitempty"`
	Topic    string `json:"topic,omitempty"`
	MinStars int    `json:"min_stars"`
	MaxStars int    `json:"max_stars,omitempty"` // 0 means unbounded
	Sort     string `json:"sort"`
	PerPage  int    `json:"per_page"`
	Page     int    `json:"page"`
}

// WithDefaults returns a copy with every unset field filled in.
func (c RepoCriteria) WithDefaults() RepoCriteria {
	if c.MinStars <= 0 {
		c.MinStars = DefaultMinStars
	}
	if c.MaxStars < 0 {
		c.MaxStars = 0
	}
	if c.Sort == "" {
		c.Sort = DefaultRepoSort
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultRepoPerPage
	}
	if c.Page <= 0 {
		c.Page = DefaultPage
	}
	return c
}

// IssueCriteria describes an issue search.
type IssueCriteria struct {
	Language string   `json:"language,omitempty"`
	Labels   []string `json:"labels"`
	State    string   `json:"state"`
	Sort     string   `json:"sort"`
	PerPage  int      `json:"per_page"`
	Page     int      `json:"page"`
}

// WithDefaults returns a copy with every unset field filled in.
// An empty label list means the beginner label.
func (c IssueCriteria) WithDefaults() IssueCriteria {
	if len(c.Labels) == 0 {
		c.Labels = []string{DefaultBeginnerLabel}
	} else {
		c.Labels = append([]string(nil), c.Labels...)
	}
	if c.State == "" {
		c.State = DefaultIssueState
	}
	if c.Sort == "" {
		c.Sort = DefaultIssueSort
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultIssuePerPage
	}
	if c.Page <= 0 {
		c.Page = DefaultPage
	}
	return c
}
