package intervention

import (
	"sync"
	"time"
)

// DefaultTTL is how long an intervention stays pending before it expires.
const DefaultTTL = 5 * time.Minute

// Store holds pending interventions per learner. Implementations own expiry:
// an intervention enqueued at T must be absent from Pending after T+TTL.
type Store interface {
	// Enqueue adds an intervention to the learner's queue and stamps
	// its ExpiresAt.
	Enqueue(learnerID string, iv Intervention) error

	// Pending returns the learner's non-expired interventions in enqueue
	// order.
	Pending(learnerID string) ([]Intervention, error)

	// Remove deletes the intervention with the given ID from the learner's
	// queue and returns it. ok is false if no such intervention is pending.
	Remove(learnerID, id string) (iv Intervention, ok bool, err error)

	// Clear drops the learner's entire queue.
	Clear(learnerID string) error
}

// MemoryStore is an in-process Store. Expiry is lazy: expired entries are
// filtered out and written back on Pending, not removed by a timer.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	queues map[string][]Intervention
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		queues: make(map[string][]Intervention),
	}
}

// SetClock overrides the store's wall clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Enqueue(learnerID string, iv Intervention) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv.ExpiresAt = s.now().Add(s.ttl)
	s.queues[learnerID] = append(s.queues[learnerID], iv)
	return nil
}

func (s *MemoryStore) Pending(learnerID string) ([]Intervention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.queues[learnerID]
	if len(queue) == 0 {
		return nil, nil
	}

	now := s.now()
	live := queue[:0]
	for _, iv := range queue {
		if iv.ExpiresAt.After(now) {
			live = append(live, iv)
		}
	}
	if len(live) == 0 {
		delete(s.queues, learnerID)
		return nil, nil
	}
	s.queues[learnerID] = live

	out := make([]Intervention, len(live))
	copy(out, live)
	return out, nil
}

func (s *MemoryStore) Remove(learnerID, id string) (Intervention, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.queues[learnerID]
	now := s.now()
	for i, iv := range queue {
		if iv.ID != id {
			continue
		}
		s.queues[learnerID] = append(queue[:i], queue[i+1:]...)
		if !iv.ExpiresAt.After(now) {
			// Found but already expired: treat as absent.
			return Intervention{}, false, nil
		}
		return iv, true, nil
	}
	return Intervention{}, false, nil
}

func (s *MemoryStore) Clear(learnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, learnerID)
	return nil
}
