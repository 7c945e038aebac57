// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/osscompass/schema"
)

// Searcher defines the upstream operations used to discover candidates.
// This allows the recommendation logic to be tested without a live GitHub API.
type Searcher interface {
	// SearchRepositories returns repositories matching the criteria.
	SearchRepositories(ctx context.Context, criteria schema.RepoCriteria) ([]schema.Repository, error)

	// SearchIssues returns issues matching the criteria.
	SearchIssues(ctx context.Context, criteria schema.IssueCriteria) ([]schema.Issue, error)

	// GetRepository returns a single repository by owner and name.
	GetRepository(ctx context.Context, owner, name string) (schema.Repository, error)

	// GetRepositoryByID returns a single repository by its numeric ID.
	GetRepositoryByID(ctx context.Context, id int64) (schema.Repository, error)

	// GetRepositoryIssues returns the open issues of a repository, optionally filtered by labels.
	GetRepositoryIssues(ctx context.Context, owner, name string, labels []string) ([]schema.Issue, error)
}

// ProfileProvider supplies the profile used for scoring.
type ProfileProvider interface {
	Profile() schema.Profile
}

// StaticProfile is a ProfileProvider backed by a fixed value, usually from config.
type StaticProfile schema.Profile

var _ ProfileProvider = StaticProfile{} // Compile-time check

// Profile implements the ProfileProvider interface.
func (p StaticProfile) Profile() schema.Profile {
	return schema.Profile(p)
}
