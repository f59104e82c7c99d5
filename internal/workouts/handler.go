package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/repit/internal/kv"
	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	History() []Workout
	Workout(id string) (Workout, error)
	Goals() Strength
	Progress() Strength
	Stats() Stats
	StrengthReport() []LiftProgress
	Dispatch(ctx context.Context, cmd Command) (Outcome, error)
}

type WorkoutView struct {
	Workout
	State      State `json:"state"`
	Completion int   `json:"completion"`
}

func NewWorkoutView(w Workout) WorkoutView {
	return WorkoutView{
		Workout:    w,
		State:      w.State(),
		Completion: w.CompletionPercent(),
	}
}

type ListResponse struct {
	Workouts []WorkoutView `json:"workouts"`
	Total    int           `json:"total"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
	Deleted   bool   `json:"deleted"`
}

type Handler struct {
	service workoutsService
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", h.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/generate", h.HandleGenerate).Methods("POST", "OPTIONS").Name("generate-workout")
	r.HandleFunc("/workouts/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/start", h.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	r.HandleFunc("/workouts/{id}/finish", h.HandleFinish).Methods("POST", "OPTIONS").Name("finish-workout")
	r.HandleFunc("/workouts/{id}/exercises/{exid}/toggle", h.HandleToggleExercise).Methods("POST", "OPTIONS").Name("toggle-exercise")

	r.HandleFunc("/strength/goals", h.HandleGetGoals).Methods("GET", "OPTIONS").Name("get-goals")
	r.HandleFunc("/strength/goals", h.HandleSaveGoals).Methods("PUT", "OPTIONS").Name("save-goals")
	r.HandleFunc("/strength/progress", h.HandleGetProgress).Methods("GET", "OPTIONS").Name("get-progress")
	r.HandleFunc("/strength/progress", h.HandleSaveProgress).Methods("PUT", "OPTIONS").Name("save-progress")
	r.HandleFunc("/strength/report", h.HandleStrengthReport).Methods("GET", "OPTIONS").Name("strength-report")

	r.HandleFunc("/stats", h.HandleStats).Methods("GET", "OPTIONS").Name("stats")
}

// writeError maps service errors to status codes. Internal details are only logged.
func writeError(w http.ResponseWriter, op string, err error) {
	var genErr GenerationFailure
	switch {
	case errors.As(err, &genErr):
		log.Errorf("%s: %s", op, genErr)
		status := http.StatusBadGateway
		switch genErr.FailureReason() {
		case "credentials_missing":
			status = http.StatusServiceUnavailable
		case "timeout":
			status = http.StatusGatewayTimeout
		}
		pkg.WriteJSONError(w, genErr.UserMessage(), status)
	case errors.Is(err, ErrInvalidRequest):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound), errors.Is(err, ErrExerciseNotFound):
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrIncompleteExercises), errors.Is(err, ErrWorkoutFinished):
		pkg.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, kv.ErrConflict):
		log.Warnf("%s: %s", op, err)
		pkg.WriteJSONError(w, "data was changed concurrently, reload and try again", http.StatusConflict)
	case errors.Is(err, context.Canceled):
		// client is gone, the status is only for logs and metrics
		log.Debugf("%s: request cancelled", op)
		pkg.WriteJSONError(w, "request cancelled", http.StatusRequestTimeout)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, "failed to save your data, please try again", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	history := h.service.History()
	resp := ListResponse{
		Workouts: make([]WorkoutView, 0, len(history)),
		Total:    len(history),
	}
	for _, wo := range history {
		resp.Workouts = append(resp.Workouts, NewWorkoutView(wo))
	}
	span.SetAttributes(attribute.Int("workouts.total", resp.Total))

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	wo, err := h.service.Workout(id)
	if err != nil {
		writeError(w, "get workout", err)
		return
	}

	pkg.WriteJSON(w, NewWorkoutView(wo), http.StatusOK)
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.generate")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("generate workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid workout request", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("workout.type", string(req.WorkoutType)))

	var cmd Command = GenerateWorkout{Request: req}
	if req.WorkoutType == CategorySports {
		cmd = LogSportsActivity{Request: req}
	}

	outcome, err := h.service.Dispatch(ctx, cmd)
	if err != nil {
		writeError(w, "generate workout", err)
		return
	}

	pkg.WriteJSON(w, NewWorkoutView(*outcome.Workout), http.StatusCreated)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, op string, cmd Command) {
	outcome, err := h.service.Dispatch(r.Context(), cmd)
	if err != nil {
		writeError(w, op, err)
		return
	}
	pkg.WriteJSON(w, NewWorkoutView(*outcome.Workout), http.StatusOK)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.start")
	defer span.End()

	h.handleTransition(w, r.WithContext(ctx), "start workout", StartWorkout{WorkoutID: mux.Vars(r)["id"]})
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.finish")
	defer span.End()

	h.handleTransition(w, r.WithContext(ctx), "finish workout", FinishWorkout{WorkoutID: mux.Vars(r)["id"]})
}

func (h *Handler) HandleToggleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.toggle")
	defer span.End()

	vars := mux.Vars(r)
	h.handleTransition(w, r.WithContext(ctx), "toggle exercise", ToggleExerciseCmd{
		WorkoutID:  vars["id"],
		ExerciseID: vars["exid"],
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if r.URL.Query().Get("confirm") != "true" {
		pkg.WriteJSONError(w, "deleting a workout cannot be undone, repeat with confirm=true", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.Dispatch(ctx, DeleteWorkout{WorkoutID: id})
	if err != nil {
		writeError(w, "delete workout", err)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id, Deleted: outcome.Deleted}, http.StatusOK)
}

func (h *Handler) HandleGetGoals(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.service.Goals(), http.StatusOK)
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.service.Progress(), http.StatusOK)
}

func (h *Handler) handleSaveStrength(w http.ResponseWriter, r *http.Request, op string, toCmd func(Strength) Command) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var st Strength
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		log.Tracef("%s, unmarshal json params: %s", op, err)
		pkg.WriteJSONError(w, "invalid strength values", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.Dispatch(r.Context(), toCmd(st))
	if err != nil {
		writeError(w, op, err)
		return
	}
	pkg.WriteJSON(w, outcome.Strength, http.StatusOK)
}

func (h *Handler) HandleSaveGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strength.goals.save")
	defer span.End()

	h.handleSaveStrength(w, r.WithContext(ctx), "save goals", func(st Strength) Command {
		return SaveGoals{Goals: st}
	})
}

func (h *Handler) HandleSaveProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strength.progress.save")
	defer span.End()

	h.handleSaveStrength(w, r.WithContext(ctx), "save progress", func(st Strength) Command {
		return SaveProgress{Progress: st}
	})
}

func (h *Handler) HandleStrengthReport(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.service.StrengthReport(), http.StatusOK)
}

func (h *Handler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.service.Stats(), http.StatusOK)
}
