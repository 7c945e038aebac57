// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Shared argument descriptions.
const (
	languagesDesc  = "Comma-separated programming languages, most preferred first. Defaults to the configured profile."
	frameworksDesc = "Comma-separated frameworks or topics. Defaults to the configured profile."
	experienceDesc = "Experience level. Defaults to the configured profile."
	limitDesc      = "Limit the number of results returned."
)

// NewMCPServer initializes and configures the osscompass MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, rec *core.Recommender, log *zap.Logger) *server.MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	s := server.NewMCPServer(
		"osscompass Recommendation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		rec:     rec,
		log:     log,
	}

	experience := mcp.Enum("beginner", "intermediate", "advanced")

	s.AddTool(mcp.NewTool("recommend",
		mcp.WithDescription("Recommend open source repositories and issues that match a developer profile."),
		mcp.WithString("languages", mcp.Description(languagesDesc)),
		mcp.WithString("frameworks", mcp.Description(frameworksDesc)),
		mcp.WithString("experience", mcp.Description(experienceDesc), experience),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
	), h.handleRecommend)

	s.AddTool(mcp.NewTool("search_repositories",
		mcp.WithDescription("Search GitHub repositories and rank them against a developer profile."),
		mcp.WithString("language", mcp.Description("Repository language qualifier.")),
		mcp.WithString("topic", mcp.Description("Repository topic qualifier.")),
		mcp.WithNumber("min_stars", mcp.Description("Minimum stars. Defaults to 100.")),
		mcp.WithNumber("max_stars", mcp.Description("Maximum stars. Unbounded when omitted.")),
		mcp.WithString("languages", mcp.Description(languagesDesc)),
		mcp.WithString("frameworks", mcp.Description(frameworksDesc)),
		mcp.WithString("experience", mcp.Description(experienceDesc), experience),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
	), h.handleSearchRepositories)

	s.AddTool(mcp.NewTool("search_issues",
		mcp.WithDescription("Search open GitHub issues and rank them by difficulty and skill match."),
		mcp.WithString("language", mcp.Description("Repository language qualifier.")),
		mcp.WithString("labels", mcp.Description("Comma-separated labels. Defaults to 'good first issue'.")),
		mcp.WithString("languages", mcp.Description(languagesDesc)),
		mcp.WithString("frameworks", mcp.Description(frameworksDesc)),
		mcp.WithString("experience", mcp.Description(experienceDesc), experience),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
	), h.handleSearchIssues)

	s.AddTool(mcp.NewTool("repository_detail",
		mcp.WithDescription("Score one repository by its numeric GitHub ID and rank its open issues."),
		mcp.WithNumber("id", mcp.Description("The GitHub repository ID."), mcp.Required()),
		mcp.WithString("languages", mcp.Description(languagesDesc)),
		mcp.WithString("frameworks", mcp.Description(frameworksDesc)),
		mcp.WithString("experience", mcp.Description(experienceDesc), experience),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
	), h.handleRepositoryDetail)

	return s
}

// StartMCPServer serves the osscompass tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, rec *core.Recommender, log *zap.Logger) error {
	s := NewMCPServer(baseCfg, rec, log)
	return server.ServeStdio(s)
}
