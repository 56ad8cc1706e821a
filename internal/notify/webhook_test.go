package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proctor-quiz-service/internal/domain"
)

func TestWebhookPostsEmbed(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, 30, time.Second)
	err := hook.Notify(context.Background(), domain.Submission{Name: "Ada", Score: 35, TabSwitches: 2, TimeTaken: 125}, 40)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(got.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(got.Embeds))
	}
	e := got.Embeds[0]
	if e.Color != colorPass {
		t.Fatalf("expected pass colour for score above pass mark, got %x", e.Color)
	}
	want := map[string]string{"Name": "Ada", "Score": "35/40", "Tab Switches": "2", "Time Taken": "2m 5s"}
	for _, f := range e.Fields {
		if want[f.Name] != f.Value {
			t.Fatalf("field %s: expected %q, got %q", f.Name, want[f.Name], f.Value)
		}
	}
}

func TestWebhookDefaultColourAtPassMark(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer server.Close()

	if err := NewWebhook(server.URL, 30, time.Second).Notify(context.Background(), domain.Submission{Score: 30}, 40); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.Embeds[0].Color != colorDefault {
		t.Fatalf("expected default colour, got %x", got.Embeds[0].Color)
	}
}

func TestWebhookNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if err := NewWebhook(server.URL, 30, time.Second).Notify(context.Background(), domain.Submission{}, 1); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(0); got != "0m 0s" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDuration(3599); got != "59m 59s" {
		t.Fatalf("got %q", got)
	}
}
