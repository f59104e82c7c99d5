package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repit/internal/kv"
	"github.com/2beens/repit/internal/workouts"
)

func (s *IntegrationTestSuite) listWorkouts(ctx context.Context) workouts.ListResponse {
	resp := s.doRequest(ctx, http.MethodGet, "/workouts", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	return decodeBody[workouts.ListResponse](s.T(), resp)
}

func (s *IntegrationTestSuite) storedHistory(ctx context.Context) workouts.History {
	raw, err := s.rdb.Get(ctx, kv.Namespaced(testNamespace, workouts.HistoryKey)).Bytes()
	require.NoError(s.T(), err)

	var h workouts.History
	require.NoError(s.T(), json.Unmarshal(raw, &h))
	return h
}

func (s *IntegrationTestSuite) TestWorkoutLifecycle() {
	ctx := context.Background()
	before := s.listWorkouts(ctx).Total

	resp := s.doRequest(ctx, http.MethodPost, "/workouts/generate", workouts.GenerateRequest{
		WorkoutType: workouts.CategoryLegs,
		Equipment:   []workouts.Equipment{workouts.EquipmentBodyweight},
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	created := decodeBody[workouts.WorkoutView](s.T(), resp)

	require.Len(s.T(), created.Exercises, 3)
	assert.Equal(s.T(), "Squats", created.Exercises[0].Name)
	assert.Equal(s.T(), "4", created.Exercises[0].Sets)
	assert.Equal(s.T(), "45 sec", created.Exercises[2].Duration)
	assert.Equal(s.T(), "Strong legs carry a strong mind.", created.Quote)
	assert.Equal(s.T(), workouts.StateDrafted, created.State)

	// the blob in redis is the source of truth, newest first
	stored := s.storedHistory(ctx)
	require.Len(s.T(), stored.Workouts, before+1)
	assert.Equal(s.T(), created.ID, stored.Workouts[0].ID)

	resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/start", created.ID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), workouts.StateInProgress, decodeBody[workouts.WorkoutView](s.T(), resp).State)

	resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/exercises/%s/toggle", created.ID, created.Exercises[0].ID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), 33, decodeBody[workouts.WorkoutView](s.T(), resp).Completion)

	resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/finish", created.ID), nil)
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	for _, ex := range created.Exercises[1:] {
		resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/exercises/%s/toggle", created.ID, ex.ID), nil)
		require.Equal(s.T(), http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/finish", created.ID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	finished := decodeBody[workouts.WorkoutView](s.T(), resp)
	assert.Equal(s.T(), workouts.StateFinished, finished.State)
	require.NotNil(s.T(), finished.CompletedAt)

	// finishing twice is refused
	resp = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/workouts/%s/finish", created.ID), nil)
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	stored = s.storedHistory(ctx)
	assert.NotNil(s.T(), stored.Workouts[0].CompletedAt)

	resp = s.doRequest(ctx, http.MethodGet, "/stats", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	stats := decodeBody[workouts.Stats](s.T(), resp)
	assert.GreaterOrEqual(s.T(), stats.TotalCompleted, 1)
	assert.GreaterOrEqual(s.T(), stats.Streak, 1)
}

func (s *IntegrationTestSuite) TestSportsActivitySkipsAssistant() {
	ctx := context.Background()
	promptsBefore := len(s.assistant.Prompts())

	resp := s.doRequest(ctx, http.MethodPost, "/workouts/generate", workouts.GenerateRequest{
		WorkoutType:       workouts.CategorySports,
		SportsDescription: "Tennis doubles, 90 minutes",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	logged := decodeBody[workouts.WorkoutView](s.T(), resp)

	assert.Empty(s.T(), logged.Exercises)
	assert.Equal(s.T(), 100, logged.Completion)
	assert.Equal(s.T(), "Tennis doubles, 90 minutes", logged.SportsDescription)
	assert.Len(s.T(), s.assistant.Prompts(), promptsBefore)

	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/workouts/%s", logged.ID), nil)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/workouts/%s?confirm=true", logged.ID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.True(s.T(), decodeBody[workouts.DeleteResponse](s.T(), resp).Deleted)

	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/workouts/%s", logged.ID), nil)
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestStrengthGoalsAndProgress() {
	ctx := context.Background()

	goals := workouts.Strength{BenchPress: 225, MilitaryPress: 135, Deadlift: 405, BicepCurl: 60, Squat: 315, Plank: 180}
	resp := s.doRequest(ctx, http.MethodPut, "/strength/goals", goals)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	progress := workouts.Strength{BenchPress: 180, MilitaryPress: 95, Deadlift: 315, BicepCurl: 40, Squat: 225, Plank: 90}
	resp = s.doRequest(ctx, http.MethodPut, "/strength/progress", progress)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	raw, err := s.rdb.Get(ctx, kv.Namespaced(testNamespace, workouts.GoalsKey)).Bytes()
	require.NoError(s.T(), err)
	var storedGoals workouts.Strength
	require.NoError(s.T(), json.Unmarshal(raw, &storedGoals))
	assert.Equal(s.T(), goals, storedGoals)

	resp = s.doRequest(ctx, http.MethodGet, "/strength/report", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	report := decodeBody[[]workouts.LiftProgress](s.T(), resp)
	require.Len(s.T(), report, 6)
	for _, lp := range report {
		if lp.Lift == "Plank" {
			assert.Equal(s.T(), "s", lp.Unit)
			assert.Equal(s.T(), float64(90), lp.Current)
			assert.Equal(s.T(), float64(180), lp.Goal)
			assert.InDelta(s.T(), 50, lp.Percentage, 0.01)
		}
	}
}

func (s *IntegrationTestSuite) TestGenerationFailureLeavesHistoryIntact() {
	ctx := context.Background()
	before := s.listWorkouts(ctx).Total

	s.assistant.SetFailRuns(true)
	defer s.assistant.SetFailRuns(false)

	resp := s.doRequest(ctx, http.MethodPost, "/workouts/generate", workouts.GenerateRequest{
		WorkoutType: workouts.CategoryPull,
		Equipment:   []workouts.Equipment{workouts.EquipmentPullupBar},
	})
	assert.Equal(s.T(), http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(s.T(), before, s.listWorkouts(ctx).Total)
}
