// Package chat produces bot replies for the chat widgets.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Replier answers a single user message.
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// ReplierFunc adapts a function to the Replier interface.
type ReplierFunc func(ctx context.Context, message string) (string, error)

func (f ReplierFunc) Reply(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// Request is the body the chat backend accepts.
type Request struct {
	Message string `json:"message"`
}

// Response is the body the chat backend returns.
type Response struct {
	Response string `json:"response"`
}

// StatusError reports a non-2xx answer from the chat backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat backend returned status %d: %s", e.StatusCode, e.Body)
}

// RemoteReplier forwards messages to an HTTP chat backend.
type RemoteReplier struct {
	url    string
	client *http.Client
}

// NewRemoteReplier creates a RemoteReplier posting to url. A zero timeout
// leaves the request bounded only by its context.
func NewRemoteReplier(url string, timeout time.Duration) *RemoteReplier {
	return &RemoteReplier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *RemoteReplier) Reply(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(Request{Message: message})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}
	return out.Response, nil
}
