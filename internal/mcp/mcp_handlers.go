package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	rec     *core.Recommender
	log     *zap.Logger
}

// profileFrom reads the profile arguments, falling back to the configured profile
// for any that are absent.
func (h *toolHandler) profileFrom(request mcp.CallToolRequest) (schema.Profile, error) {
	profile := h.baseCfg.Profile()
	if v := request.GetString("languages", ""); v != "" {
		profile.Languages = schema.SplitList(v)
	}
	if v := request.GetString("frameworks", ""); v != "" {
		profile.Frameworks = schema.SplitList(v)
	}
	if v := request.GetString("experience", ""); v != "" {
		level := schema.ExperienceLevel(strings.ToLower(strings.TrimSpace(v)))
		if _, ok := schema.ValidExperienceLevels[level]; !ok {
			return profile, fmt.Errorf("invalid experience '%s'. must be beginner, intermediate, advanced", v)
		}
		profile.Experience = level
	}
	return profile, nil
}

// view is the configured presentation, with the limit overridable per call.
func (h *toolHandler) view(request mcp.CallToolRequest) core.View {
	v := core.View{
		Filter:   h.baseCfg.Filter,
		MinScore: h.baseCfg.MinScore,
		Limit:    h.baseCfg.ResultLimit,
	}
	if l := request.GetInt("limit", 0); l > 0 {
		v.Limit = min(l, contract.MaxResultLimit)
	}
	return v
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.profileFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := h.rec.Recommend(ctx, profile)
	if err != nil {
		h.log.Warn("mcp recommend failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	v := h.view(request)
	rec.Repositories = v.Repositories(rec.Repositories)
	rec.Issues = v.Issues(rec.Issues)
	return jsonResult(rec)
}

func (h *toolHandler) handleSearchRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.profileFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	criteria := schema.RepoCriteria{
		Language: request.GetString("language", ""),
		Topic:    request.GetString("topic", ""),
		MinStars: request.GetInt("min_stars", 0),
		MaxStars: request.GetInt("max_stars", 0),
	}
	if criteria.MaxStars > 0 && criteria.MaxStars < criteria.MinStars {
		return mcp.NewToolResultError("max_stars must not be below min_stars"), nil
	}

	repos, err := h.rec.Repositories(ctx, criteria, profile)
	if err != nil {
		h.log.Warn("mcp repository search failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("repository search failed: %v", err)), nil
	}
	return jsonResult(h.view(request).Repositories(repos))
}

func (h *toolHandler) handleSearchIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.profileFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	criteria := schema.IssueCriteria{
		Language: request.GetString("language", ""),
		Labels:   schema.SplitList(request.GetString("labels", "")),
	}

	issues, err := h.rec.Issues(ctx, criteria, profile)
	if err != nil {
		h.log.Warn("mcp issue search failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("issue search failed: %v", err)), nil
	}
	return jsonResult(h.view(request).Issues(issues))
}

func (h *toolHandler) handleRepositoryDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.profileFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive repository ID"), nil
	}

	detail, err := h.rec.RepositoryDetail(ctx, int64(id), profile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("repository lookup failed: %v", err)), nil
	}
	detail.Issues = h.view(request).Issues(detail.Issues)
	return jsonResult(detail)
}
