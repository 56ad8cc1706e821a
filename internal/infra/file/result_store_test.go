package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"proctor-quiz-service/internal/domain"
)

func TestResultStoreMissingFileIsEmpty(t *testing.T) {
	store := NewResultStore(filepath.Join(t.TempDir(), "results.json"))

	results, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", results)
	}
}

func TestResultStoreAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.json")
	store := NewResultStore(path)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	const n = 5
	for i := 0; i < n; i++ {
		err := store.Append(ctx, domain.Submission{
			ID:        int64(i),
			Name:      "candidate",
			Answers:   domain.AnswerMap{0: i % 2},
			Score:     i,
			Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	// A fresh store instance must read back what the first one wrote.
	results, err := NewResultStore(path).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != n {
		t.Fatalf("expected %d results, got %d", n, len(results))
	}
	for i, r := range results {
		if r.ID != int64(i) || r.Score != i {
			t.Fatalf("result %d out of order: %+v", i, r)
		}
		if !r.Timestamp.Equal(ts) {
			t.Fatalf("timestamp not preserved: %v", r.Timestamp)
		}
	}
	if results[1].Answers[0] != 1 {
		t.Fatalf("answers not preserved: %v", results[1].Answers)
	}
}

func TestResultStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewResultStore(filepath.Join(dir, "results.json"))

	if err := store.Append(context.Background(), domain.Submission{Name: "Ada", Answers: domain.AnswerMap{}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "results.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only results.json, got %v", names)
	}
}

func TestResultStoreRefusesToOverwriteCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	corrupt := []byte(`[{"name": "Ada",`)
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewResultStore(path)

	if _, err := store.List(context.Background()); !errors.Is(err, domain.ErrCorruptResults) {
		t.Fatalf("expected corrupt error from list, got %v", err)
	}
	err := store.Append(context.Background(), domain.Submission{Name: "Grace", Answers: domain.AnswerMap{}})
	if !errors.Is(err, domain.ErrCorruptResults) {
		t.Fatalf("expected corrupt error from append, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != string(corrupt) {
		t.Fatalf("corrupt file was modified: %q", data)
	}
}

func TestResultStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(filepath.Join(t.TempDir(), "results.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Append(ctx, domain.Submission{ID: int64(i), Name: "c", Answers: domain.AnswerMap{}}); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
			_, _ = store.List(ctx)
		}(i)
	}
	wg.Wait()

	results, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("expected 20 results from a single writer process, got %d", len(results))
	}
}

func TestResultStoreListAfterAppendSeesRecord(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(filepath.Join(t.TempDir(), "results.json"))

	stop := make(chan struct{})
	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_, _ = store.List(ctx)
				}
			}
		}()
	}

	for i := 0; i < 30; i++ {
		if err := store.Append(ctx, domain.Submission{ID: int64(i), Name: "c", Answers: domain.AnswerMap{}}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		results, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
		if len(results) != i+1 || results[i].ID != int64(i) {
			close(stop)
			readers.Wait()
			t.Fatalf("list after append %d returned %d records", i, len(results))
		}
	}
	close(stop)
	readers.Wait()
}

func TestQuestionLoaderJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "questions.json")
	yamlPath := filepath.Join(dir, "questions.yaml")

	_ = os.WriteFile(jsonPath, []byte(`[{"question":"2+2?","options":["3","4"],"answer":1}]`), 0o644)
	_ = os.WriteFile(yamlPath, []byte("- question: \"2+2?\"\n  options: [\"3\", \"4\"]\n  answer: 1\n"), 0o644)

	for _, path := range []string{jsonPath, yamlPath} {
		questions, err := NewQuestionLoader(path).LoadQuestions(context.Background())
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		if len(questions) != 1 || questions[0].Answer != 1 || questions[0].Options[1] != "4" {
			t.Fatalf("unexpected questions from %s: %+v", path, questions)
		}
	}
}

func TestQuestionLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewQuestionLoader(filepath.Join(dir, "missing.json")).LoadQuestions(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{not json`), 0o644)
	if _, err := NewQuestionLoader(bad).LoadQuestions(context.Background()); err == nil {
		t.Fatalf("expected error for malformed file")
	}
}
