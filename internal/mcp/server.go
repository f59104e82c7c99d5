package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "1.0.0"

// NewServer builds an MCP server with the read-only workout tools.
// The backend mounts it at /mcp; cmd/repit_mcp runs it over stdio.
func NewServer(source workoutsSource, reloadOnRead bool) *mcp.Server {
	h := NewHandler(NewContextService(source, reloadOnRead))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "repit-workouts",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns logged workouts, newest first, with state (drafted, in_progress, finished) and completion percent. Optional: category (push, pull, legs, cardio, HIIT, arms, full body, stretching, sports), limit.",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_stats",
		Description: "Returns total workouts, finished workouts, the current daily streak and the top workout categories with their share.",
	}, h.GetWorkoutStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_strength_report",
		Description: "Returns current vs goal values for bench press, military press, deadlift, bicep curl, squat (lbs) and plank (seconds), with percent of goal reached.",
	}, h.GetStrengthReportTool())

	return s
}

// NewHTTPHandler serves the server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
