package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
)

type PurgeService interface {
	Purge(ctx context.Context, req PurgeRequest) PurgeResult
}

// Deleter deletes posts of one channel in a single call.
type Deleter interface {
	// DeleteBatch deletes at most MaxBatch posts and reports how many were deleted, also when
	// it fails part way. Failures should be *DeleteError so they can be classified.
	DeleteBatch(ctx context.Context, channelID string, ids []string) (int, error)
}

// Gate decides whether posts of a channel may be deleted on behalf of an actor.
type Gate interface {
	CanDelete(ctx context.Context, actorID, channelID string) bool
}

type PurgeRequest struct {
	// ActorID is the user asking for the purge.
	ActorID string
	// OwnerID is the author whose posts are deleted.
	OwnerID string
	// Limit restricts the purge to the most recent posts. Zero means all tracked posts.
	Limit int
}

type ChannelRes struct {
	ID      string
	Deleted int
	Chunks  int
	Skipped bool
	Error   error
}

// MarshalJSON renders Error as its message.
func (c ChannelRes) MarshalJSON() ([]byte, error) {
	type plain ChannelRes
	out := struct {
		plain
		Error string `json:",omitempty"`
	}{plain: plain(c)}
	if c.Error != nil {
		out.Error = c.Error.Error()
	}
	return json.Marshal(out)
}

type ChannelsRes map[string]ChannelRes

type PurgeResult struct {
	TotalDeleted      int
	ChannelsProcessed int
	ChannelsTotal     int
	Channels          ChannelsRes
}

type purgeService struct {
	tracker  *Tracker
	deleter  Deleter
	gate     Gate
	settings Settings
	logger   bot.Logger
	metrics  *metrics.Metrics
	pause    func(ctx context.Context, d time.Duration) error
}

func NewPurgeService(tracker *Tracker, deleter Deleter, gate Gate, settings Settings, logger bot.Logger, m *metrics.Metrics) PurgeService {
	if settings.MaxBatch <= 0 || settings.MaxBatch > MaxBatch {
		settings.MaxBatch = MaxBatch
	}
	return &purgeService{
		tracker:  tracker,
		deleter:  deleter,
		gate:     gate,
		settings: settings,
		logger:   logger,
		metrics:  m,
		pause:    pause,
	}
}

// Purge deletes the tracked posts of req.OwnerID channel by channel. It never fails as a
// whole: partial progress is reported through the result and is not rolled back.
func (p *purgeService) Purge(ctx context.Context, req PurgeRequest) PurgeResult {
	res := PurgeResult{Channels: ChannelsRes{}}

	events := p.tracker.ByOwner(req.OwnerID, req.Limit)
	if len(events) == 0 {
		p.logger.Debugf("Purge: no tracked posts for user %s.", req.OwnerID)
		return res
	}

	order, byChannel := groupByChannel(events)
	res.ChannelsTotal = len(order)

	p.logger.Infof("Purge: purging %d posts of user %s in %d channels. requested by:%s",
		len(events), req.OwnerID, len(order), req.ActorID)

	for i, channelID := range order {
		if err := ctx.Err(); err != nil {
			p.logger.Warnf("Purge: stopped before channel %s. %v", channelID, err)
			break
		}

		cr, processed := p.purgeChannel(ctx, req.ActorID, channelID, byChannel[channelID])
		res.Channels[channelID] = cr
		res.TotalDeleted += cr.Deleted

		if !processed {
			continue
		}
		res.ChannelsProcessed++

		if i < len(order)-1 {
			if err := p.pause(ctx, p.settings.RateLimitDelay); err != nil {
				break
			}
		}
	}

	p.metrics.ObservePurge(res.TotalDeleted)
	p.logger.Infof("Purge: purge of user %s finished. deleted:%d channels:%d/%d",
		req.OwnerID, res.TotalDeleted, res.ChannelsProcessed, res.ChannelsTotal)

	return res
}

// purgeChannel deletes ids chunk by chunk. The bool is false when the channel was skipped.
func (p *purgeService) purgeChannel(ctx context.Context, actorID, channelID string, ids []string) (ChannelRes, bool) {
	cr := ChannelRes{ID: channelID}

	if !p.gate.CanDelete(ctx, actorID, channelID) {
		p.logger.Warnf("Purge: skipped channel %s. missing permissions or unsupported channel.", channelID)
		cr.Skipped = true
		return cr, false
	}

	for i, batch := range chunk(ids, p.settings.MaxBatch) {
		if err := ctx.Err(); err != nil {
			cr.Error = err
			return cr, true
		}

		deleted, err := p.deleter.DeleteBatch(ctx, channelID, batch)
		cr.Deleted += deleted
		cr.Chunks++

		if err == nil {
			p.metrics.ObserveChunk(metrics.ChunkOK)
			continue
		}

		switch KindOf(err) {
		case KindAlreadyGone:
			p.metrics.ObserveChunk(metrics.ChunkAlreadyGone)
			p.logger.Warnf("Purge: some posts in channel %s were already deleted. chunk:%d %v", channelID, i, err)
		case KindUnauthorized, KindUnsupported:
			p.metrics.ObserveChunk(metrics.ChunkUnauthorized)
			p.logger.Warnf("Purge: skipped channel %s. chunk:%d %v", channelID, i, err)
			cr.Skipped = true
			cr.Error = err
			return cr, false
		default:
			p.metrics.ObserveChunk(metrics.ChunkFailed)
			p.logger.Errorf("Purge: failed to delete in channel %s, abandoning the channel. chunk:%d %v", channelID, i, err)
			cr.Error = err
			return cr, true
		}
	}

	return cr, true
}

// groupByChannel keeps the first seen order of channels and the insertion order of ids.
func groupByChannel(events []TrackedEvent) ([]string, map[string][]string) {
	var order []string
	byChannel := map[string][]string{}
	for _, e := range events {
		if _, ok := byChannel[e.ChannelID]; !ok {
			order = append(order, e.ChannelID)
		}
		byChannel[e.ChannelID] = append(byChannel[e.ChannelID], e.ID)
	}
	return order, byChannel
}

func chunk(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
