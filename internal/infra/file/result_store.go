package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"proctor-quiz-service/internal/domain"
)

// ResultStore keeps all submissions in one JSON array file.
// Every append rewrites the file through a temp file and a rename, so readers
// see either the previous array or the new one, never a partial write.
// The store assumes it is the only writer of path.
type ResultStore struct {
	path string
	sf   singleflight.Group
	// gen counts completed writes; List only joins reads of the current generation.
	gen atomic.Uint64

	mu sync.Mutex
}

func NewResultStore(path string) *ResultStore {
	return &ResultStore{path: path}
}

func (s *ResultStore) Append(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.read()
	if err != nil {
		return err
	}
	results = append(results, submission)
	if err := s.write(results); err != nil {
		return err
	}
	s.gen.Add(1)
	return nil
}

// List coalesces concurrent reads into a single file read. A List that starts
// after an Append returned never shares a read begun before that write.
func (s *ResultStore) List(_ context.Context) ([]domain.Submission, error) {
	key := strconv.FormatUint(s.gen.Load(), 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.read()
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]domain.Submission)
	out := make([]domain.Submission, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *ResultStore) read() ([]domain.Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Submission{}, nil
	}

	var results []domain.Submission
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptResults, s.path, err)
	}
	if results == nil {
		results = []domain.Submission{}
	}
	return results, nil
}

func (s *ResultStore) write(results []domain.Submission) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace results: %w", err)
	}
	committed = true
	return nil
}
