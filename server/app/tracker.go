package app

import (
	"sync"
	"time"
)

// TrackedEvent is a post that can still be purged.
type TrackedEvent struct {
	ID        string
	ChannelID string
	OwnerID   string
	// ObservedAt is the post creation time when known, the insertion time otherwise.
	ObservedAt time.Time
}

type Stats struct {
	Owners int
	Events int
}

type SweepStats struct {
	Removed int
	Owners  int
}

// StatsProvider reports the tracker size.
type StatsProvider interface {
	Stats() Stats
}

// Tracker indexes recent posts by author. Every method holds the single lock for its
// whole duration and none of them performs I/O.
type Tracker struct {
	mu     sync.Mutex
	owners map[string][]TrackedEvent
	window time.Duration
	now    func() time.Time
}

func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	return &Tracker{
		owners: map[string][]TrackedEvent{},
		window: window,
		now:    time.Now,
	}
}

// Window is the retention window of the tracker.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Add appends a post to its author's group. A zero observedAt means now.
// Ids are assumed unique, a second Add of the same id is not detected.
func (t *Tracker) Add(ownerID, id, channelID string, observedAt time.Time) {
	if observedAt.IsZero() {
		observedAt = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.appendLocked(ownerID, id, channelID, observedAt)
}

// AddNew adds the post unless its author already has a post with that id. It reports
// whether the post was added.
func (t *Tracker) AddNew(ownerID, id, channelID string, observedAt time.Time) bool {
	if observedAt.IsZero() {
		observedAt = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.owners[ownerID] {
		if e.ID == id {
			return false
		}
	}

	t.appendLocked(ownerID, id, channelID, observedAt)
	return true
}

// Remove drops the post with the given id. It reports whether it was tracked.
func (t *Tracker) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for owner, events := range t.owners {
		for i := range events {
			if events[i].ID != id {
				continue
			}
			if len(events) == 1 {
				delete(t.owners, owner)
				return true
			}
			t.owners[owner] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveMany drops every post whose id is in ids in one pass over the tracker.
// It returns the number of posts removed.
func (t *Tracker) RemoveMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var removed int
	for owner, events := range t.owners {
		n := t.filter(owner, events, func(e TrackedEvent) bool {
			_, drop := set[e.ID]
			return !drop
		})
		removed += n
	}
	return removed
}

// ByOwner returns a copy of the author's posts in insertion order. When limit is positive
// only the limit most recently inserted posts are returned.
func (t *Tracker) ByOwner(ownerID string, limit int) []TrackedEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := t.owners[ownerID]
	if limit > 0 && limit < len(events) {
		events = events[len(events)-limit:]
	}

	out := make([]TrackedEvent, len(events))
	copy(out, events)
	return out
}

// Sweep evicts every post with now - ObservedAt >= window.
func (t *Tracker) Sweep(now time.Time) SweepStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var st SweepStats
	for owner, events := range t.owners {
		st.Removed += t.filter(owner, events, func(e TrackedEvent) bool {
			return now.Sub(e.ObservedAt) < t.window
		})
	}
	st.Owners = len(t.owners)
	return st
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Stats{Owners: len(t.owners)}
	for _, events := range t.owners {
		st.Events += len(events)
	}
	return st
}

func (t *Tracker) appendLocked(ownerID, id, channelID string, observedAt time.Time) {
	t.owners[ownerID] = append(t.owners[ownerID], TrackedEvent{
		ID:         id,
		ChannelID:  channelID,
		OwnerID:    ownerID,
		ObservedAt: observedAt,
	})
}

// filter keeps the events of owner for which keep returns true, dropping the group when
// nothing is left. It must be called with the lock held and returns the number dropped.
func (t *Tracker) filter(owner string, events []TrackedEvent, keep func(TrackedEvent) bool) int {
	kept := events[:0:0]
	for _, e := range events {
		if keep(e) {
			kept = append(kept, e)
		}
	}

	dropped := len(events) - len(kept)
	switch {
	case len(kept) == 0:
		delete(t.owners, owner)
	case dropped > 0:
		t.owners[owner] = kept
	}
	return dropped
}
