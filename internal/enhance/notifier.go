package enhance

import (
	"sync"

	"resume-builder/internal/resumes"
)

// Notifier fans status changes out to in-process waiters.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan resumes.CompletionStatus
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan resumes.CompletionStatus)}
}

// Subscribe returns a channel that receives the next statuses published for
// resumeID. The cancel func must be called to release it.
func (n *Notifier) Subscribe(resumeID string) (<-chan resumes.CompletionStatus, func()) {
	ch := make(chan resumes.CompletionStatus, 1)
	n.mu.Lock()
	id := n.next
	n.next++
	if n.subs[resumeID] == nil {
		n.subs[resumeID] = make(map[int]chan resumes.CompletionStatus)
	}
	n.subs[resumeID][id] = ch
	n.mu.Unlock()

	return ch, func() {
		n.mu.Lock()
		delete(n.subs[resumeID], id)
		if len(n.subs[resumeID]) == 0 {
			delete(n.subs, resumeID)
		}
		n.mu.Unlock()
	}
}

// Publish never blocks; a waiter that has not drained its last status only
// keeps that one.
func (n *Notifier) Publish(resumeID string, status resumes.CompletionStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[resumeID] {
		select {
		case ch <- status:
		default:
		}
	}
}
