package app

import (
	"context"
	"time"
)

func (t *Tracker) SetNow(now func() time.Time) {
	t.now = now
}

func (b *Backfill) SetPause(f func(ctx context.Context, d time.Duration) error) {
	b.pause = f
}

func SetPurgePause(s PurgeService, f func(ctx context.Context, d time.Duration) error) {
	s.(*purgeService).pause = f
}

var Chunk = chunk
