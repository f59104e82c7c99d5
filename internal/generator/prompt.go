package generator

import (
	"strings"

	"github.com/2beens/repit/internal/workouts"
)

const structuredOutputInstruction = "Please provide a structured workout with exercises. " +
	"For each exercise include: name, sets, reps (or duration), and any relevant notes."

// BuildPrompt renders a workout request into the message sent to the assistant.
func BuildPrompt(req workouts.GenerateRequest) string {
	var sb strings.Builder
	sb.WriteString("Generate a ")
	sb.WriteString(string(req.WorkoutType))
	sb.WriteString(" workout")

	if len(req.Equipment) > 0 {
		eq := make([]string, 0, len(req.Equipment))
		for _, e := range req.Equipment {
			eq = append(eq, string(e))
		}
		sb.WriteString(" using: ")
		sb.WriteString(strings.Join(eq, ", "))
	}

	if req.Context != "" {
		sb.WriteString("\n\nAdditional context: ")
		sb.WriteString(req.Context)
	}

	sb.WriteString("\n\n")
	sb.WriteString(structuredOutputInstruction)
	return sb.String()
}
