package notify

import "sync"

// Recorder implements Notifier by remembering every notification.
// Test double.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Failures  []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Failure(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, message)
}
