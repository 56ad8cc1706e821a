package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"proctor-quiz-service/internal/domain"
)

// DefaultKey is the list holding every submission as a JSON document.
const DefaultKey = "quiz:results"

// ResultStore keeps submissions in a Redis list: RPUSH on append, LRANGE on list.
// A single RPUSH is atomic, so concurrent appends from several instances keep
// every record.
type ResultStore struct {
	client *redis.Client
	key    string
}

func NewResultStore(client *redis.Client, key string) *ResultStore {
	if key == "" {
		key = DefaultKey
	}
	return &ResultStore{client: client, key: key}
}

func (s *ResultStore) Append(ctx context.Context, submission domain.Submission) error {
	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", s.key, err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]domain.Submission, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}
	results := make([]domain.Submission, 0, len(raw))
	for i, item := range raw {
		var submission domain.Submission
		if err := json.Unmarshal([]byte(item), &submission); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", domain.ErrCorruptResults, s.key, i, err)
		}
		results = append(results, submission)
	}
	return results, nil
}
