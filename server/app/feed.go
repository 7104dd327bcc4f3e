package app

import (
	"time"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
)

// EventFeed applies live post notifications to the tracker. Removals are idempotent so
// duplicate notifications are harmless.
type EventFeed struct {
	tracker *Tracker
	logger  bot.Logger
	metrics *metrics.Metrics
}

func NewEventFeed(tracker *Tracker, logger bot.Logger, m *metrics.Metrics) *EventFeed {
	return &EventFeed{
		tracker: tracker,
		logger:  logger,
		metrics: m,
	}
}

// EventCreated tracks a new post. A zero createdAt falls back to the arrival time.
func (f *EventFeed) EventCreated(ownerID, id, channelID string, createdAt time.Time) {
	f.tracker.Add(ownerID, id, channelID, createdAt)
	f.metrics.ObserveFeed(metrics.FeedCreated, 1)
}

func (f *EventFeed) EventDeleted(id string) {
	if f.tracker.Remove(id) {
		f.metrics.ObserveFeed(metrics.FeedDeleted, 1)
	}
}

func (f *EventFeed) EventsBulkDeleted(ids []string) {
	removed := f.tracker.RemoveMany(ids)
	f.metrics.ObserveFeed(metrics.FeedBulkDeleted, removed)
	f.logger.Debugf("Purge: bulk delete detected. %d of %d posts were tracked.", removed, len(ids))
}
