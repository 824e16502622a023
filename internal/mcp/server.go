package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"burncast/internal/config"
	"burncast/internal/project"
)

// Server exposes forecasting over the Model Context Protocol so agent
// tooling can inspect stored projects and run simulations against them.
type Server struct {
	store   project.Store
	cfg     *config.AppConfig
	version string
}

// NewServer creates an MCP server backed by the given project store.
func NewServer(store project.Store, cfg *config.AppConfig, version string) *Server {
	return &Server{store: store, cfg: cfg, version: version}
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "burncast", Version: s.version}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all stored projects with their backlog and cadence summary.",
	}, s.listProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "run_forecast",
		Description: "Run a Monte Carlo completion forecast for a stored project across the standard distribution set.",
	}, s.runForecast)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_period_records",
		Description: "Append completed period (sprint) records to a project's history.",
	}, s.addPeriodRecords)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_productivity_adjustments",
		Description: "Replace a project's productivity adjustments (date spans of reduced or restored capacity).",
	}, s.setProductivityAdjustments)

	log.Info().Str("version", s.version).Msg("MCP server listening on stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}
