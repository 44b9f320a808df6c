// Package mcp exposes the workout data layer to MCP clients over stdio, so
// an assistant can browse templates, history and progression without going
// through the HTTP API.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/repbook/internal/workout"
)

// New creates an MCP server with all tools and resources registered.
func New(templates *workout.TemplateStore, ledger *workout.Ledger, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepBook", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepBook workout tracker. Query workout templates, per-exercise set history, and strength progression. All data belongs to the single local user."),
	)

	h := &handlers{templates: templates, ledger: ledger, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetGlobalHistory, Handler: h.getGlobalHistory},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
		server.ServerTool{Tool: toolGetTrainingCalendar, Handler: h.getTrainingCalendar},
	)

	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	templates *workout.TemplateStore
	ledger    *workout.Ledger
	log       *slog.Logger
}
