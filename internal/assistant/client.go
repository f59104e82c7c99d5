package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/repit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const betaHeaderValue = "assistants=v2"

// Run statuses reported by the API.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCancelling     = "cancelling"
	RunStatusCancelled      = "cancelled"
	RunStatusFailed         = "failed"
	RunStatusCompleted      = "completed"
	RunStatusIncomplete     = "incomplete"
	RunStatusExpired        = "expired"
)

type Thread struct {
	ID string `json:"id"`
}

type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Run struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

type TextContent struct {
	Value string `json:"value"`
}

type MessageContent struct {
	Type string       `json:"type"`
	Text *TextContent `json:"text,omitempty"`
}

type Message struct {
	ID       string           `json:"id"`
	ThreadID string           `json:"thread_id"`
	Role     string           `json:"role"`
	Content  []MessageContent `json:"content"`
}

type messageList struct {
	Data []Message `json:"data"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assistant api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("assistant api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to an OpenAI compatible Assistants (v2) API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.request")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("assistant.path", path),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", betaHeaderValue)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(respBytes, &errResp) == nil && errResp.Error != nil {
			apiErr.Type = errResp.Error.Type
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		log.Tracef("unexpected assistant response for %s %s: %s", method, path, respBytes)
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *Client) AddUserMessage(ctx context.Context, threadID, content string) (*Message, error) {
	body := map[string]string{
		"role":    "user",
		"content": content,
	}
	var msg Message
	path := "/threads/" + url.PathEscape(threadID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (*Run, error) {
	body := map[string]string{
		"assistant_id": assistantID,
	}
	var run Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs"
	if err := c.do(ctx, http.MethodPost, path, body, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var run Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs/" + url.PathEscape(runID)
	if err := c.do(ctx, http.MethodGet, path, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestMessage returns the newest message of the thread, nil if it has none.
func (c *Client) LatestMessage(ctx context.Context, threadID string) (*Message, error) {
	var list messageList
	path := "/threads/" + url.PathEscape(threadID) + "/messages?order=desc&limit=1"
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}
