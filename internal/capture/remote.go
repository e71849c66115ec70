package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// Sender delivers a journal entry somewhere else.
type Sender interface {
	Send(ctx context.Context, e Entry) error
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("memoir API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("memoir API returned %d: %s", e.StatusCode, e.Body)
}

// Remote posts captures to the Memoir API.
type Remote struct {
	url    string
	client *http.Client
	token  func() (string, error)
}

// NewRemote creates a Remote posting to url. token may be nil; when it
// returns a non-empty value it is sent as a bearer token.
func NewRemote(url string, client *http.Client, token func() (string, error)) *Remote {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Remote{url: url, client: client, token: token}
}

type captureRequest struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CapturedAt time.Time `json:"captured_at"`
	Source     string    `json:"source"`
}

// Send posts e as JSON.
func (r *Remote) Send(ctx context.Context, e Entry) error {
	body, err := json.Marshal(captureRequest{
		ID:         e.ID,
		Content:    e.Content,
		CapturedAt: e.CreatedAt,
		Source:     "quick-capture",
	})
	if err != nil {
		return fmt.Errorf("failed to encode capture: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != nil {
		tok, err := r.token()
		if err != nil {
			return fmt.Errorf("failed to read API token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach memoir API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
