package intervention

import (
	"testing"
	"time"
)

func TestMemoryStore_EnqueueStampsExpiry(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })

	iv := New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "slow down")
	if err := s.Enqueue("learner", iv); err != nil {
		t.Fatal(err)
	}

	pending, err := s.Pending("learner")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1", len(pending))
	}
	if want := base.Add(5 * time.Minute); !pending[0].ExpiresAt.Equal(want) {
		t.Errorf("got expiry %v, want %v", pending[0].ExpiresAt, want)
	}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	s.Enqueue("learner", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "first"))

	now = now.Add(3 * time.Minute)
	s.Enqueue("learner", New(TypeConfidenceCheck, TriggerFalseConfidence, SeverityModerate, "second"))

	// 6 minutes after the first enqueue: first expired, second alive.
	now = now.Add(3 * time.Minute)
	pending, err := s.Pending("learner")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Message != "second" {
		t.Fatalf("got %v, want only the second intervention", pending)
	}

	// 11 minutes in: everything expired.
	now = now.Add(5 * time.Minute)
	pending, _ = s.Pending("learner")
	if len(pending) != 0 {
		t.Errorf("got %d pending after full expiry, want 0", len(pending))
	}
}

func TestMemoryStore_ExpiryBoundary(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	s.Enqueue("learner", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "m"))

	// Exactly at ExpiresAt the intervention is gone.
	now = now.Add(5 * time.Minute)
	pending, _ := s.Pending("learner")
	if len(pending) != 0 {
		t.Errorf("intervention must be absent exactly at its expiry time")
	}
}

func TestMemoryStore_Remove(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)

	first := New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "first")
	second := New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "second")
	s.Enqueue("learner", first)
	s.Enqueue("learner", second)

	got, ok, err := s.Remove("learner", first.ID)
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if got.Message != "first" {
		t.Errorf("got %q, want the removed intervention back", got.Message)
	}

	pending, _ := s.Pending("learner")
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("remaining queue should hold only the second intervention")
	}

	if _, ok, _ := s.Remove("learner", "no-such-id"); ok {
		t.Error("removing an unknown ID must report ok=false")
	}
}

func TestMemoryStore_RemoveExpiredReportsAbsent(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	iv := New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "m")
	s.Enqueue("learner", iv)

	now = now.Add(10 * time.Minute)
	if _, ok, _ := s.Remove("learner", iv.ID); ok {
		t.Error("an expired intervention must be treated as absent")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(0)
	s.Enqueue("learner", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "a"))
	s.Enqueue("learner", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "b"))
	s.Enqueue("other", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "c"))

	if err := s.Clear("learner"); err != nil {
		t.Fatal(err)
	}

	if pending, _ := s.Pending("learner"); len(pending) != 0 {
		t.Error("cleared learner should have no pending interventions")
	}
	if pending, _ := s.Pending("other"); len(pending) != 1 {
		t.Error("clearing one learner must not touch another's queue")
	}
}

func TestMemoryStore_QueuesAreIsolated(t *testing.T) {
	s := NewMemoryStore(0)
	s.Enqueue("a", New(TypeSpeedBump, TriggerDoomScroll, SeverityMild, "for a"))

	if pending, _ := s.Pending("b"); len(pending) != 0 {
		t.Error("learner b must not see learner a's queue")
	}
}

func TestMemoryStore_DefaultTTL(t *testing.T) {
	s := NewMemoryStore(-1)
	if s.ttl != DefaultTTL {
		t.Errorf("got ttl %v, want %v", s.ttl, DefaultTTL)
	}
}

func TestPickers(t *testing.T) {
	msgs := []string{"a", "b", "c"}

	if got := (FixedPicker{Index: 1}).Pick(msgs); got != "b" {
		t.Errorf("got %q, want b", got)
	}
	if got := (FixedPicker{Index: 99}).Pick(msgs); got != "a" {
		t.Errorf("out-of-range index clamps to 0, got %q", got)
	}
	if got := (FixedPicker{}).Pick(nil); got != "" {
		t.Errorf("empty set picks empty string, got %q", got)
	}

	p := NewRandPicker(7)
	for i := 0; i < 20; i++ {
		got := p.Pick(msgs)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("random pick %q not in the set", got)
		}
	}
	if got := p.Pick(nil); got != "" {
		t.Errorf("empty set picks empty string, got %q", got)
	}
}

func TestPriorityFor(t *testing.T) {
	if PriorityFor(SeveritySevere) != PriorityHigh {
		t.Error("severe maps to high")
	}
	if PriorityFor(SeverityModerate) != PriorityMedium {
		t.Error("moderate maps to medium")
	}
	if PriorityFor(SeverityMild) != PriorityLow {
		t.Error("mild maps to low")
	}
}
