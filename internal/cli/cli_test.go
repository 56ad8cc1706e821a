package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/config"
	"proctor-quiz-service/internal/domain"
	"proctor-quiz-service/internal/session"
)

func TestOpenResultStoreDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{config.DriverFile, config.DriverMemory, config.DriverSQLite} {
		cfg := config.Default()
		cfg.Results.Driver = driver
		cfg.Results.Path = filepath.Join(dir, "results.json")
		cfg.SQLite.Path = filepath.Join(dir, "results.db")

		store, closeStore, err := openResultStore(ctx, cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		if err := store.Append(ctx, domain.Submission{ID: 1, Name: "Ada", Answers: domain.AnswerMap{}, Timestamp: time.Now().UTC()}); err != nil {
			t.Fatalf("%s append: %v", driver, err)
		}
		got, err := store.List(ctx)
		if err != nil || len(got) != 1 {
			t.Fatalf("%s list: %v %+v", driver, err, got)
		}
		closeStore()
	}
}

func TestOpenResultStoreRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Results.Driver = "mongo"
	if _, _, err := openResultStore(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	cfg.Results.Driver = config.DriverRedis
	cfg.Redis.Addr = ""
	if _, _, err := openResultStore(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for redis without addr")
	}
}

func TestFeedURL(t *testing.T) {
	cases := map[string]string{
		"http://127.0.0.1:5000":     "ws://127.0.0.1:5000/ws/results",
		"https://quiz.example.com/": "wss://quiz.example.com/ws/results",
	}
	for in, want := range cases {
		got, err := feedURL(in)
		if err != nil || got != want {
			t.Fatalf("feedURL(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestWriteResults(t *testing.T) {
	var b strings.Builder
	writeResults(&b, nil)
	if !strings.Contains(b.String(), "No results yet") {
		t.Fatalf("unexpected empty listing %q", b.String())
	}

	b.Reset()
	writeResults(&b, []domain.Submission{{ID: 7, Name: "Ada", Score: 3, TabSwitches: 1, TimeTaken: 75}})
	out := b.String()
	for _, want := range []string{"NAME", "Ada", "1:15", "7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestRenderQuizShowsAlert(t *testing.T) {
	s := session.New([]domain.Question{{Prompt: "2+2?", Options: []string{"3", "4"}, Answer: 1}}, false)
	s.Step = session.StepQuiz
	s.Candidate.Name = "Ada"
	s.Answers = domain.AnswerMap{0: 1}
	s.Alert = true

	var b strings.Builder
	renderState(&b, s)
	out := b.String()
	for _, want := range []string{"2+2?", "[x] 2. 4", "Focus loss detected"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "0:00", 9: "0:09", 75: "1:15", 600: "10:00"}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Fatalf("formatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderResultUsesClockFormat(t *testing.T) {
	s := session.New([]domain.Question{{Prompt: "2+2?", Options: []string{"3", "4"}, Answer: 1}}, false)
	s.Step = session.StepResult
	s.Candidate.Name = "Ada"
	s.Elapsed = 125

	var b strings.Builder
	renderState(&b, s)
	if !strings.Contains(b.String(), "Time taken:   2:05") {
		t.Fatalf("result view should show m:ss:\n%s", b.String())
	}
}
