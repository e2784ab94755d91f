package session

import "sync"

// Stream is a single-value observable: it always holds the latest
// published value and fans it out to any number of subscribers.
// Publication is last-write-wins; a slow subscriber whose buffer is full
// misses intermediate values, never the writer's progress.
type Stream[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]chan T
	nextID int
}

func newStream[T any](initial T) *Stream[T] {
	return &Stream[T]{value: initial, subs: make(map[int]chan T)}
}

// Get returns the latest published value.
func (s *Stream[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe returns a channel receiving every subsequent publication and
// a cancel func releasing the subscription. The channel is closed on
// cancel so range loops terminate.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan T, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Stream[T]) publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
		}
	}
}
