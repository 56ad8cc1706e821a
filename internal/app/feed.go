package app

import (
	"sync"

	"proctor-quiz-service/internal/domain"
)

// Feed fans saved submissions out to live subscribers (admin dashboards).
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Submission]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.Submission]struct{})}
}

func (f *Feed) Subscribe() (<-chan domain.Submission, func()) {
	ch := make(chan domain.Submission, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish never blocks: a full subscriber loses its oldest pending update.
func (f *Feed) Publish(submission domain.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- submission:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- submission
		}
	}
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
