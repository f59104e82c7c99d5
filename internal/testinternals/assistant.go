package testinternals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// FakeAssistant is an in-memory Assistants API. Every run completes after
// PendingPolls in_progress polls and answers with Reply.
type FakeAssistant struct {
	Server *httptest.Server

	mu           sync.Mutex
	Reply        string
	PendingPolls int
	FailRuns     bool
	threads      int
	polls        map[string]int
	prompts      []string
}

func NewFakeAssistant(reply string) *FakeAssistant {
	fa := &FakeAssistant{
		Reply: reply,
		polls: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", fa.handleCreateThread)
	mux.HandleFunc("POST /threads/{thread}/messages", fa.handleAddMessage)
	mux.HandleFunc("POST /threads/{thread}/runs", fa.handleCreateRun)
	mux.HandleFunc("GET /threads/{thread}/runs/{run}", fa.handleGetRun)
	mux.HandleFunc("GET /threads/{thread}/messages", fa.handleListMessages)
	fa.Server = httptest.NewServer(fa.authorized(mux))

	return fa
}

func (fa *FakeAssistant) URL() string {
	return fa.Server.URL
}

func (fa *FakeAssistant) Close() {
	fa.Server.Close()
}

// Prompts returns the user messages received so far.
func (fa *FakeAssistant) Prompts() []string {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	return append([]string(nil), fa.prompts...)
}

func (fa *FakeAssistant) SetReply(reply string) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.Reply = reply
}

func (fa *FakeAssistant) SetFailRuns(fail bool) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.FailRuns = fail
}

func (fa *FakeAssistant) authorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" || r.Header.Get("Authorization") == "Bearer " {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]string{"type": "invalid_request_error", "message": "missing api key"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fa *FakeAssistant) handleCreateThread(w http.ResponseWriter, _ *http.Request) {
	fa.mu.Lock()
	fa.threads++
	id := fmt.Sprintf("thread_%d", fa.threads)
	fa.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (fa *FakeAssistant) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		return
	}

	fa.mu.Lock()
	fa.prompts = append(fa.prompts, body.Content)
	fa.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"id":        "msg_user",
		"thread_id": r.PathValue("thread"),
		"role":      "user",
	})
}

func (fa *FakeAssistant) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	thread := r.PathValue("thread")
	writeJSON(w, http.StatusOK, map[string]string{
		"id":        "run_" + thread,
		"thread_id": thread,
		"status":    "queued",
	})
}

func (fa *FakeAssistant) handleGetRun(w http.ResponseWriter, r *http.Request) {
	thread, run := r.PathValue("thread"), r.PathValue("run")

	fa.mu.Lock()
	fa.polls[run]++
	polls := fa.polls[run]
	pending, fail := fa.PendingPolls, fa.FailRuns
	fa.mu.Unlock()

	resp := map[string]any{
		"id":        run,
		"thread_id": thread,
		"status":    "completed",
	}
	switch {
	case polls <= pending:
		resp["status"] = "in_progress"
	case fail:
		resp["status"] = "failed"
		resp["last_error"] = map[string]string{"code": "server_error", "message": "run failed"}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (fa *FakeAssistant) handleListMessages(w http.ResponseWriter, r *http.Request) {
	fa.mu.Lock()
	reply := fa.Reply
	fa.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"data": []map[string]any{{
			"id":        "msg_assistant",
			"thread_id": r.PathValue("thread"),
			"role":      "assistant",
			"content": []map[string]any{{
				"type": "text",
				"text": map[string]string{"value": reply},
			}},
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
