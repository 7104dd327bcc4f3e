package app_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ids(events []app.TrackedEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestTrackerAddAndByOwner(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)

	tr.Add("u1", "p1", "ch1", base)
	tr.Add("u1", "p2", "ch2", base.Add(time.Minute))
	tr.Add("u2", "p3", "ch1", base)

	got := tr.ByOwner("u1", 0)
	require.Len(t, got, 2)
	assert.Equal(t, app.TrackedEvent{ID: "p1", ChannelID: "ch1", OwnerID: "u1", ObservedAt: base}, got[0])
	assert.Equal(t, []string{"p1", "p2"}, ids(got))

	assert.Empty(t, tr.ByOwner("nobody", 0))
	assert.Equal(t, app.Stats{Owners: 2, Events: 3}, tr.Stats())
}

func TestTrackerByOwnerLimit(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)
	for i := 0; i < 5; i++ {
		tr.Add("u1", fmt.Sprintf("p%d", i), "ch1", base)
	}

	assert.Equal(t, []string{"p3", "p4"}, ids(tr.ByOwner("u1", 2)))
	assert.Len(t, tr.ByOwner("u1", 10), 5)
	assert.Len(t, tr.ByOwner("u1", -1), 5)
}

func TestTrackerByOwnerReturnsCopy(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)
	tr.Add("u1", "p1", "ch1", base)

	got := tr.ByOwner("u1", 0)
	got[0].ID = "changed"

	assert.Equal(t, "p1", tr.ByOwner("u1", 0)[0].ID)
}

func TestTrackerAddZeroTimeUsesNow(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)
	tr.SetNow(func() time.Time { return base })

	tr.Add("u1", "p1", "ch1", time.Time{})

	assert.Equal(t, base, tr.ByOwner("u1", 0)[0].ObservedAt)
}

func TestTrackerRemove(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)
	tr.Add("u1", "p1", "ch1", base)
	tr.Add("u1", "p2", "ch1", base)

	assert.True(t, tr.Remove("p1"))
	assert.False(t, tr.Remove("p1"))
	assert.False(t, tr.Remove("unknown"))
	assert.Equal(t, []string{"p2"}, ids(tr.ByOwner("u1", 0)))

	assert.True(t, tr.Remove("p2"))
	assert.Equal(t, app.Stats{}, tr.Stats())
}

func TestTrackerRemoveMany(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)
	tr.Add("u1", "p1", "ch1", base)
	tr.Add("u1", "p2", "ch1", base)
	tr.Add("u2", "p3", "ch2", base)
	tr.Add("u2", "p4", "ch2", base)

	removed := tr.RemoveMany([]string{"p1", "p3", "p4", "missing"})

	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{"p2"}, ids(tr.ByOwner("u1", 0)))
	assert.Empty(t, tr.ByOwner("u2", 0))
	assert.Equal(t, app.Stats{Owners: 1, Events: 1}, tr.Stats())

	assert.Zero(t, tr.RemoveMany(nil))
	assert.Zero(t, tr.RemoveMany([]string{"p1"}))
}

func TestTrackerSweep(t *testing.T) {
	window := 48 * time.Hour
	tr := app.NewTracker(window)
	now := base.Add(window)

	tr.Add("u1", "expired", "ch1", base)
	tr.Add("u1", "young", "ch1", base.Add(time.Millisecond))
	tr.Add("u2", "old", "ch1", base.Add(-time.Hour))

	st := tr.Sweep(now)

	assert.Equal(t, app.SweepStats{Removed: 2, Owners: 1}, st)
	assert.Equal(t, []string{"young"}, ids(tr.ByOwner("u1", 0)))
	assert.Empty(t, tr.ByOwner("u2", 0))
}

func TestTrackerSweepEmpty(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)

	assert.Equal(t, app.SweepStats{}, tr.Sweep(base))
}

func TestTrackerDefaultWindow(t *testing.T) {
	assert.Equal(t, app.DefaultRetentionWindow, app.NewTracker(0).Window())
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			owner := fmt.Sprintf("u%d", w%2)
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("w%d-p%d", w, i)
				tr.Add(owner, id, "ch1", base)
				if i%2 == 0 {
					tr.Remove(id)
				}
				tr.ByOwner(owner, 10)
				tr.Stats()
			}
			tr.Sweep(base)
		}(w)
	}
	wg.Wait()

	assert.Equal(t, app.Stats{Owners: 2, Events: 8 * 100}, tr.Stats())
}

func TestTrackerRemoveManyMatchesRemove(t *testing.T) {
	fill := func() *app.Tracker {
		tr := app.NewTracker(48 * time.Hour)
		for i := 0; i < 30; i++ {
			tr.Add(fmt.Sprintf("u%d", i%4), fmt.Sprintf("p%d", i), fmt.Sprintf("ch%d", i%3), base)
		}
		return tr
	}
	drop := []string{"p29", "p0", "p7", "p8", "p12", "p3", "missing", "p16", "p20", "p24", "p28", "p4"}

	bulk := fill()
	bulk.RemoveMany(drop)

	single := fill()
	for i := len(drop) - 1; i >= 0; i-- {
		single.Remove(drop[i])
	}

	assert.Equal(t, single.Stats(), bulk.Stats())
	for i := 0; i < 4; i++ {
		owner := fmt.Sprintf("u%d", i)
		assert.Equal(t, single.ByOwner(owner, 0), bulk.ByOwner(owner, 0))
	}
	// u0 held p0, p4, p8, ..., p28 which are all dropped
	assert.Empty(t, bulk.ByOwner("u0", 0))
}

func TestTrackerSweepIsIdempotent(t *testing.T) {
	tr := app.NewTracker(time.Hour)
	for i := 0; i < 10; i++ {
		tr.Add("u1", fmt.Sprintf("p%d", i), "ch1", base.Add(time.Duration(i)*10*time.Minute))
	}
	now := base.Add(90 * time.Minute)

	first := tr.Sweep(now)
	after := tr.ByOwner("u1", 0)
	second := tr.Sweep(now)

	assert.Equal(t, 4, first.Removed)
	assert.Zero(t, second.Removed)
	assert.Equal(t, after, tr.ByOwner("u1", 0))
	for _, e := range after {
		assert.Less(t, now.Sub(e.ObservedAt), time.Hour)
	}
}

func TestTrackerAddNew(t *testing.T) {
	tr := app.NewTracker(48 * time.Hour)

	require.True(t, tr.AddNew("u1", "p1", "ch1", base))
	assert.False(t, tr.AddNew("u1", "p1", "ch1", base.Add(time.Minute)))
	assert.True(t, tr.AddNew("u1", "p2", "ch1", base))

	events := tr.ByOwner("u1", 0)
	require.Len(t, events, 2)
	assert.Equal(t, base, events[0].ObservedAt)
}
