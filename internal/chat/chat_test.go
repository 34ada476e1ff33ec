package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/msomdec/college-chatbot/internal/chat"
)

func TestRemoteReplier_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req chat.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chat.Response{Response: "echo: " + req.Message})
	}))
	defer srv.Close()

	got, err := chat.NewRemoteReplier(srv.URL, time.Second).Reply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "echo: hi" {
		t.Fatalf("expected %q, got %q", "echo: hi", got)
	}
}

func TestRemoteReplier_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := chat.NewRemoteReplier(srv.URL, time.Second).Reply(context.Background(), "hi")
	var serr *chat.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", serr.StatusCode)
	}
}

func TestRemoteReplier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := chat.NewRemoteReplier(url, time.Second).Reply(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected an error for an unreachable backend")
	}
	var serr *chat.StatusError
	if errors.As(err, &serr) {
		t.Fatal("transport failures should not be reported as status errors")
	}
}

func TestRemoteReplier_HonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := chat.NewRemoteReplier(srv.URL, 0).Reply(ctx, "hi"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestCannedReplier_PicksFromList(t *testing.T) {
	r := chat.NewCannedReplier(chat.StudyResponses)
	for range 20 {
		got, err := r.Reply(context.Background(), "anything")
		if err != nil {
			t.Fatalf("Reply: %v", err)
		}
		if !slices.Contains(chat.StudyResponses, got) {
			t.Fatalf("unexpected reply %q", got)
		}
	}
}

func TestKeywordReplier(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Hello bot", "Hi there! How can I help you today?"},
		{"HOW ARE YOU?", "I'm just a bot, but I'm doing great! Thanks for asking."},
		{"so... will we win SIH", "If your frontend team works harder and learns more than css, Sure you can make it!!! 💪"},
		{"hello, how are you", "Hi there! How can I help you today?"},
		{"what are the fees?", chat.FallbackReply},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			got, err := chat.KeywordReplier{}.Reply(context.Background(), tc.message)
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
