package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repbook/internal/workout"
)

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"repbook://catalog",
	"Template Catalog",
	mcp.WithResourceDescription("All workout templates with their exercises"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates, err := h.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, templates)
}

// --- Tool definitions ---

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List all workout templates with their exercises, in creation order."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all distinct exercises across templates, deduplicated by name and muscle group."),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Past attempts at an exercise within one template: dated set logs, most recent first, excluding today."),
	mcp.WithString("template_id", mcp.Required(), mcp.Description("Template ID")),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
)

var toolGetGlobalHistory = mcp.NewTool("get_global_history",
	mcp.WithDescription("Every logged occurrence of an exercise across all templates and sessions. Empty if the exercise no longer exists in any template."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Chronological chart points for an exercise plus the overall progression percentage. Progression is omitted when there is no usable baseline."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithString("metric", mcp.Description("Chart metric. Defaults to weight."), mcp.Enum("weight", "volume")),
)

var toolGetTrainingCalendar = mcp.NewTool("get_training_calendar",
	mcp.WithDescription("All dates with a recorded session, plus the total session count."),
)

// --- Tool handlers ---

func (h *handlers) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.templates.List(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(templates)
}

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.templates.AllExercisesFlat(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := req.GetString("template_id", "")
	exerciseID := req.GetString("exercise_id", "")
	if templateID == "" || exerciseID == "" {
		return mcp.NewToolResultError("template_id and exercise_id are required"), nil
	}

	history, err := h.ledger.ExerciseHistory(ctx, templateID, exerciseID)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(history)
}

func (h *handlers) getGlobalHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID := req.GetString("exercise_id", "")
	if exerciseID == "" {
		return mcp.NewToolResultError("exercise_id is required"), nil
	}

	history, err := h.ledger.GlobalExerciseHistory(ctx, exerciseID)
	if err != nil {
		h.log.Error("mcp get_global_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(history)
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID := req.GetString("exercise_id", "")
	if exerciseID == "" {
		return mcp.NewToolResultError("exercise_id is required"), nil
	}
	metric := workout.Metric(req.GetString("metric", string(workout.MetricMaxWeight)))
	if !workout.ValidMetric(metric) {
		return mcp.NewToolResultError("metric must be weight or volume"), nil
	}

	history, err := h.ledger.GlobalExerciseHistory(ctx, exerciseID)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points := workout.ChartPoints(history, metric)
	payload := map[string]any{
		"metric": metric,
		"points": points,
		"max":    workout.MaxValue(points),
	}
	if pct, ok := workout.Progression(points); ok {
		payload["progression_pct"] = pct
	}
	return jsonResult(payload)
}

func (h *handlers) getTrainingCalendar(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dates, err := h.ledger.SessionDates(ctx)
	if err != nil {
		h.log.Error("mcp get_training_calendar", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	count, err := h.ledger.TotalSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_training_calendar", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{
		"dates":          dates,
		"total_sessions": count,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
