package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  *core.DatasetLoader
	store   contract.EntityStore
}

// scorer loads the memoized dataset and builds a scorer with the configured weights.
func (h *toolHandler) scorer(ctx context.Context) (*core.Scorer, error) {
	data, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewScorer(data, h.baseCfg.ComputedWeights, h.baseCfg.OperationalSource).
		WithLogger(logging.FromContext(ctx)), nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

// limitItems truncates items when limit is positive.
func limitItems[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

func filterItems[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (h *toolHandler) handleGetUnitDrivers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit := strings.TrimSpace(request.GetString("unit", ""))
	if unit == "" {
		return mcp.NewToolResultError("unit is required"), nil
	}

	s, err := h.scorer(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}
	resp, err := s.Drivers(unit)
	if errors.Is(err, core.ErrUnitNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("unit %q not found", unit)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("drivers failed: %v", err)), nil
	}
	return jsonResult(resp), nil
}

func (h *toolHandler) handleGetUnitSummaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit < 0 || limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 0 and %d", contract.MaxResultLimit)), nil
	}

	s, err := h.scorer(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}
	return jsonResult(s.Summaries(limit)), nil
}

func (h *toolHandler) handleListUnits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	units, err := h.store.ListUnits(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list units: %v", err)), nil
	}
	if category := request.GetString("category", ""); category != "" {
		units = filterItems(units, func(u schema.Unit) bool { return schema.SameName(u.Category, category) })
	}
	return jsonResult(units), nil
}

func (h *toolHandler) handleListAlerts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list alerts: %v", err)), nil
	}
	if sev := request.GetString("severity", ""); sev != "" {
		alerts = filterItems(alerts, func(a schema.Alert) bool { return schema.SameName(string(a.Severity), sev) })
	}
	return jsonResult(limitItems(alerts, request.GetInt("limit", 0))), nil
}

func (h *toolHandler) handleGetHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cells, err := h.store.ListHeatmap(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list heatmap: %v", err)), nil
	}
	if unit := request.GetString("unit", ""); unit != "" {
		id := core.UnitID(unit)
		cells = filterItems(cells, func(c schema.HeatmapCell) bool { return c.UnitID == id })
	}
	if dim := request.GetString("dimension", ""); dim != "" {
		cells = filterItems(cells, func(c schema.HeatmapCell) bool { return schema.SameName(string(c.Dimension), dim) })
	}
	return jsonResult(cells), nil
}

func (h *toolHandler) handleListNews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	news, err := h.store.ListNews(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list news: %v", err)), nil
	}
	if sentiment := request.GetString("sentiment", ""); sentiment != "" {
		news = filterItems(news, func(n schema.NewsItem) bool { return schema.SameName(string(n.Sentiment), sentiment) })
	}
	return jsonResult(limitItems(news, request.GetInt("limit", 0))), nil
}
