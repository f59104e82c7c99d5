package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repit/internal/assistant"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultPollInterval = time.Second
	DefaultTimeout      = 2 * time.Minute
)

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=generator_test

type assistantAPI interface {
	CreateThread(ctx context.Context) (*assistant.Thread, error)
	AddUserMessage(ctx context.Context, threadID, content string) (*assistant.Message, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (*assistant.Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*assistant.Run, error)
	LatestMessage(ctx context.Context, threadID string) (*assistant.Message, error)
}

type Params struct {
	APIKey      string
	AssistantID string
	// PollInterval between run status checks, DefaultPollInterval when zero.
	PollInterval time.Duration
	// Timeout for the whole round trip. Zero waits until the run ends or ctx is done.
	Timeout time.Duration
}

type Generator struct {
	api            assistantAPI
	params         Params
	parser         *Parser
	metricsManager *metrics.Manager
}

func New(api assistantAPI, params Params, parser *Parser, metricsManager *metrics.Manager) *Generator {
	if params.PollInterval <= 0 {
		params.PollInterval = DefaultPollInterval
	}
	if parser == nil {
		parser = NewParser(nil, nil)
	}
	return &Generator{
		api:            api,
		params:         params,
		parser:         parser,
		metricsManager: metricsManager,
	}
}

// Generate asks the assistant for a workout plan. Sports requests return an
// empty plan without any call. Every failure is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, req workouts.GenerateRequest) (_ workouts.Plan, err error) {
	if req.WorkoutType == workouts.CategorySports {
		return workouts.Plan{Exercises: []workouts.Exercise{}}, nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "generator.generate")
	span.SetAttributes(attribute.String("workout.type", string(req.WorkoutType)))
	defer func(begin time.Time) {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			span.SetAttributes(attribute.String("generation.failure", string(genErr.Reason)))
			if g.metricsManager != nil {
				g.metricsManager.CounterGenerationFailures.WithLabelValues(string(genErr.Reason)).Inc()
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if g.metricsManager != nil {
			g.metricsManager.HistogramGenerationDuration.Observe(time.Since(begin).Seconds())
		}
		span.End()
	}(time.Now())

	if g.params.APIKey == "" {
		return workouts.Plan{}, newError(ReasonCredentialsMissing, "config", ErrMissingAPIKey)
	}
	if g.params.AssistantID == "" {
		return workouts.Plan{}, newError(ReasonCredentialsMissing, "config", ErrMissingAssistantID)
	}

	if g.params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.params.Timeout)
		defer cancel()
	}

	text, err := g.roundTrip(ctx, BuildPrompt(req))
	if err != nil {
		return workouts.Plan{}, err
	}

	plan := g.parser.Parse(text)
	span.SetAttributes(attribute.Int("exercises.count", len(plan.Exercises)))
	log.Debugf("generated %s workout with %d exercises", req.WorkoutType, len(plan.Exercises))
	return plan, nil
}

func (g *Generator) roundTrip(ctx context.Context, prompt string) (string, error) {
	thread, err := g.api.CreateThread(ctx)
	if err != nil {
		return "", classify(ctx, "create thread", err)
	}

	if _, err := g.api.AddUserMessage(ctx, thread.ID, prompt); err != nil {
		return "", classify(ctx, "add message", err)
	}

	run, err := g.api.CreateRun(ctx, thread.ID, g.params.AssistantID)
	if err != nil {
		return "", classify(ctx, "create run", err)
	}

	if err := g.waitForRun(ctx, thread.ID, run); err != nil {
		return "", err
	}

	msg, err := g.api.LatestMessage(ctx, thread.ID)
	if err != nil {
		return "", classify(ctx, "list messages", err)
	}
	if msg == nil || msg.Role != "assistant" {
		return "", newError(ReasonMalformedResponse, "list messages", errors.New("no response from assistant"))
	}
	if len(msg.Content) == 0 || msg.Content[0].Type != "text" || msg.Content[0].Text == nil {
		return "", newError(ReasonMalformedResponse, "list messages", errors.New("unexpected response format"))
	}

	return msg.Content[0].Text.Value, nil
}

func (g *Generator) waitForRun(ctx context.Context, threadID string, run *assistant.Run) error {
	ticker := time.NewTicker(g.params.PollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		switch run.Status {
		case assistant.RunStatusCompleted:
			log.Tracef("run [%s] completed after %d polls", run.ID, polls)
			return nil
		case assistant.RunStatusFailed,
			assistant.RunStatusCancelled,
			assistant.RunStatusExpired,
			assistant.RunStatusIncomplete:
			runErr := fmt.Errorf("assistant run %s", run.Status)
			if run.LastError != nil {
				runErr = fmt.Errorf("assistant run %s: %s: %s", run.Status, run.LastError.Code, run.LastError.Message)
			}
			return newError(ReasonServiceFailure, "poll run", runErr)
		}

		select {
		case <-ctx.Done():
			return classify(ctx, "poll run", ctx.Err())
		case <-ticker.C:
		}

		polls++
		next, err := g.api.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return classify(ctx, "poll run", err)
		}
		run = next
	}
}

func classify(ctx context.Context, step string, err error) *GenerationError {
	var (
		apiErr    *assistant.APIError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newError(ReasonTimeout, step, err)
	case errors.As(err, &apiErr):
		return newError(ReasonServiceFailure, step, err)
	case errors.Is(err, context.Canceled):
		return newError(ReasonNetwork, step, err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return newError(ReasonMalformedResponse, step, err)
	default:
		return newError(ReasonNetwork, step, err)
	}
}
