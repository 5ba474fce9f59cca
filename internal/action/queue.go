package action

import "sync"

// Queue is the ordered log of not-yet-persisted actions.
//
// Thread-safety is provided for external submitters while the sync engine
// drains. In practice most usage is single-threaded; the lock exists so the
// debounce timer callback and a submitting caller can never interleave a
// read-modify-write.
type Queue struct {
	mu      sync.Mutex
	actions []Action
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		actions: make([]Action, 0, 16),
	}
}

// Enqueue appends an action, filtering the existing log first: a new
// UpdateEvent or UpdateEventSteps for event X replaces a previously queued
// action of the same kind for X rather than stacking on it. All other kinds
// append unconditionally; ordering of untouched entries is preserved.
func (q *Queue) Enqueue(a Action) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch a.Kind() {
	case KindUpdateEvent, KindUpdateEventSteps:
		id := TargetID(a)
		kept := q.actions[:0]
		for _, prev := range q.actions {
			if prev.Kind() == a.Kind() && TargetID(prev) == id {
				a = carryImage(prev, a)
				continue
			}
			kept = append(kept, prev)
		}
		q.actions = kept
	}
	q.actions = append(q.actions, a)
}

// carryImage keeps a superseded update's original-image payload alive when
// the replacing update neither carries nor removes one. The event record
// still claims the original image, so the blob must ride along or a flush
// would persist a record whose image was never written.
func carryImage(prev, next Action) Action {
	p, ok := prev.(UpdateEvent)
	if !ok || len(p.ImageData) == 0 {
		return next
	}
	n, ok := next.(UpdateEvent)
	if !ok || len(n.ImageData) > 0 || n.RemoveImage || !n.Event.HasOriginalImage {
		return next
	}
	n.ImageData = p.ImageData
	return n
}

// Snapshot returns a copy of the current log in order. The copy is safe to
// fold and flush while new actions keep arriving.
func (q *Queue) Snapshot() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Action, len(q.actions))
	copy(out, q.actions)
	return out
}

// DropFirst removes the first n actions, exactly the batch a successful
// flush persisted. Actions enqueued mid-flush stay for the next cycle.
// Returns the number of actions remaining.
func (q *Queue) DropFirst(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.actions) {
		n = len(q.actions)
	}
	// Copy the tail forward and nil the freed slots so the backing array
	// does not retain action payloads (image blobs can be large).
	remaining := copy(q.actions, q.actions[n:])
	for i := remaining; i < len(q.actions); i++ {
		q.actions[i] = nil
	}
	q.actions = q.actions[:remaining]
	return remaining
}

// Clear empties the queue (explicit discard or full reset).
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.actions {
		q.actions[i] = nil
	}
	q.actions = q.actions[:0]
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}
