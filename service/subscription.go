package service

import "sync"

// choiceStream publishes installment choice changes to its subscribers.
// Callbacks run synchronously on the publisher's goroutine.
type choiceStream struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(int)
}

func newChoiceStream() *choiceStream {
	return &choiceStream{subs: make(map[int]func(int))}
}

func (s *choiceStream) Subscribe(fn func(int)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return &Subscription{release: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}}
}

func (s *choiceStream) Publish(n int) {
	s.mu.Lock()
	fns := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}

func (s *choiceStream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscription is the handle returned by Subscribe. Unsubscribe is safe to
// call more than once.
type Subscription struct {
	once    sync.Once
	release func()
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.release)
}
