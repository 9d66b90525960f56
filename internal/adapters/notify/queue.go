package notify

import "sync"

// Queue implements ports.Notifier by buffering alerts until the page
// collects them with Drain.
type Queue struct {
	mu     sync.Mutex
	alerts []string
}

func (q *Queue) Alert(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = append(q.alerts, msg)
}

// Drain returns the queued alerts, oldest first, and empties the queue.
// It never returns nil.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.alerts
	q.alerts = nil
	if out == nil {
		out = []string{}
	}
	return out
}
