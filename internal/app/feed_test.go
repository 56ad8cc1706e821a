package app

import (
	"testing"

	"proctor-quiz-service/internal/domain"
)

func TestFeedDropsOldestForSlowSubscriber(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	for i := 0; i < 10; i++ {
		feed.Publish(domain.Submission{ID: int64(i)})
	}

	first := <-ch
	if first.ID != 2 {
		t.Fatalf("expected the two oldest updates to be dropped, first=%d", first.ID)
	}
}

func TestFeedCancelUnsubscribes(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe()
	if feed.Len() != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if feed.Len() != 0 {
		t.Fatalf("expected no subscribers")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed")
	}
	feed.Publish(domain.Submission{})
}
