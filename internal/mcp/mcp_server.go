// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the AuditRadar MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, loader *core.DatasetLoader, store contract.EntityStore) *server.MCPServer {
	s := server.NewMCPServer(
		"AuditRadar Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  loader,
		store:   store,
	}

	// --- 1. Tool: get_unit_drivers ---
	s.AddTool(mcp.NewTool("get_unit_drivers",
		mcp.WithDescription("Explain the risk scores of one auditable unit: component scores, per-dimension contributions, cited evidence and recommended actions."),
		mcp.WithString("unit", mcp.Description("Unit name, matched case-insensitively."), mcp.Required()),
	), h.handleGetUnitDrivers)

	// --- 2. Tool: get_unit_summaries ---
	s.AddTool(mcp.NewTool("get_unit_summaries",
		mcp.WithDescription("Rank every unit by its average risk score, highest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetUnitSummaries)

	// --- 3. Tool: list_units ---
	s.AddTool(mcp.NewTool("list_units",
		mcp.WithDescription("List the units persisted by the last seeding run."),
		mcp.WithString("category", mcp.Description("Only return units of this category.")),
	), h.handleListUnits)

	// --- 4. Tool: list_alerts ---
	s.AddTool(mcp.NewTool("list_alerts",
		mcp.WithDescription("List persisted risk alerts with their structured breakdown."),
		mcp.WithString("severity", mcp.Description("Only return alerts of this severity."), mcp.Enum("critical", "high", "medium", "low")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListAlerts)

	// --- 5. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Return persisted heatmap cells (unit x dimension value and trend)."),
		mcp.WithString("unit", mcp.Description("Only return cells of this unit name.")),
		mcp.WithString("dimension", mcp.Description("Only return cells of this dimension.")),
	), h.handleGetHeatmap)

	// --- 6. Tool: list_news ---
	s.AddTool(mcp.NewTool("list_news",
		mcp.WithDescription("List persisted news items with derived sentiment, sector and risk type."),
		mcp.WithString("sentiment", mcp.Description("Only return items of this sentiment."), mcp.Enum("Negative", "Neutral", "Positive")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListNews)

	return s
}

// StartMCPServer starts the AuditRadar MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, loader *core.DatasetLoader, store contract.EntityStore) error {
	s := NewMCPServer(baseCfg, loader, store)
	return server.ServeStdio(s)
}
