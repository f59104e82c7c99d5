package mcp

import (
	"context"
	"encoding/json"

	"github.com/2beens/repit/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(msg string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg + ": " + err.Error()}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// NoInput is the input of tools without arguments.
type NoInput struct{}

// ListWorkoutsInput is the input for list_workouts.
type ListWorkoutsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by workout category (e.g. push, legs, sports)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max number of workouts, newest first (default 20)"`
}

func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListWorkouts(ctx, ListParams{
			Category: workouts.Category(in.Category),
			Limit:    in.Limit,
		})
		if err != nil {
			return errorResult("Error listing workouts", err), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetWorkoutStatsTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		stats, err := h.service.WorkoutStats(ctx)
		if err != nil {
			return errorResult("Error computing stats", err), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

func (h *Handler) GetStrengthReportTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		report, err := h.service.StrengthReport(ctx)
		if err != nil {
			return errorResult("Error building strength report", err), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}
