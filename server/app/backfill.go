package app

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
)

// HistoryPost is a post read from channel history.
type HistoryPost struct {
	ID         string
	OwnerID    string
	ObservedAt time.Time
}

// HistorySource pages through a channel's history backwards.
type HistorySource interface {
	// FetchPage returns up to limit posts older than beforeID (newest first when beforeID is
	// empty), ordered newest first. An empty page means the history is exhausted.
	FetchPage(ctx context.Context, channelID, beforeID string, limit int) ([]HistoryPost, error)
}

type BackfillResult struct {
	Channels int
	Tracked  int
	Failed   int
}

// Backfill rebuilds the tracker from channel history after a restart.
type Backfill struct {
	source   HistorySource
	tracker  *Tracker
	settings Settings
	logger   bot.Logger
	metrics  *metrics.Metrics
	pause    func(ctx context.Context, d time.Duration) error
}

func NewBackfill(source HistorySource, tracker *Tracker, settings Settings, logger bot.Logger, m *metrics.Metrics) *Backfill {
	return &Backfill{
		source:   source,
		tracker:  tracker,
		settings: settings,
		logger:   logger,
		metrics:  m,
		pause:    pause,
	}
}

// Run scans every channel in turn. A failing channel does not stop the others; a cancelled
// ctx stops the run and the counts so far are returned.
func (b *Backfill) Run(ctx context.Context, channelIDs []string, now time.Time) BackfillResult {
	b.logger.Infof("Purge: starting history backfill. channels:%d", len(channelIDs))

	var res BackfillResult
	for i, id := range channelIDs {
		if ctx.Err() != nil {
			break
		}

		tracked, err := b.scanChannel(ctx, id, now)
		res.Channels++
		res.Tracked += tracked
		if err != nil {
			res.Failed++
			b.logger.Warnf("Purge: history backfill stopped for channel %s after %d posts. %v", id, tracked, err)
		}
		b.metrics.ObserveBackfillChannel(tracked, err != nil)

		if i < len(channelIDs)-1 {
			if err := b.pause(ctx, b.settings.ChannelDelay); err != nil {
				break
			}
		}
	}

	if ctx.Err() != nil {
		b.logger.Warnf("Purge: history backfill cancelled. channels:%d tracked:%d failed:%d", res.Channels, res.Tracked, res.Failed)
		return res
	}

	b.logger.Infof("Purge: history backfill complete. channels:%d tracked:%d failed:%d", res.Channels, res.Tracked, res.Failed)
	return res
}

// scanChannel walks one channel from now backwards, leaving posts already tracked by the live
// feed alone. It ends at the first post outside the
// retention window, on an empty page, once the per channel cap is exceeded, or on a fetch error.
func (b *Backfill) scanChannel(ctx context.Context, channelID string, now time.Time) (int, error) {
	var (
		before  string
		tracked int
	)

	window := b.tracker.Window()

	for {
		page, err := b.source.FetchPage(ctx, channelID, before, b.settings.PageSize)
		if err != nil {
			return tracked, errors.Wrapf(err, "failed to fetch history page before %q", before)
		}

		if len(page) == 0 {
			return tracked, nil
		}

		for _, p := range page {
			before = p.ID

			// posts newer than now belong to the live feed
			if p.ObservedAt.After(now) {
				continue
			}
			// pages are newest first, everything after this one is older still
			if now.Sub(p.ObservedAt) >= window {
				return tracked, nil
			}

			if b.tracker.AddNew(p.OwnerID, p.ID, channelID, p.ObservedAt) {
				tracked++
			}
		}

		if tracked > b.settings.MaxBackfillPerChannel {
			b.logger.Debugf("Purge: history backfill capped channel %s at %d posts.", channelID, tracked)
			return tracked, nil
		}

		if err := b.pause(ctx, b.settings.BatchDelay); err != nil {
			return tracked, nil
		}
	}
}
