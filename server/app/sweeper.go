package app

import (
	"sync"
	"time"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
)

const SweeperName = "RetentionSweeper"

// Sweeper evicts expired posts from the tracker on a fixed interval until stopped.
type Sweeper struct {
	name     string
	tracker  *Tracker
	interval time.Duration
	logger   bot.Logger
	metrics  *metrics.Metrics
	stop     chan bool
	stopped  chan bool
	stopOnce sync.Once
}

func NewSweeper(tracker *Tracker, interval time.Duration, logger bot.Logger, m *metrics.Metrics) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		name:     SweeperName,
		tracker:  tracker,
		interval: interval,
		logger:   logger,
		metrics:  m,
		stop:     make(chan bool, 1),
		stopped:  make(chan bool, 1),
	}
}

// Run blocks until Stop is called.
func (s *Sweeper) Run() {
	s.logger.Debugf("Purge: %s started. interval:%v", s.name, s.interval)

	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		s.logger.Debugf("Purge: %s finished.", s.name)
		s.stopped <- true
	}()

	for {
		select {
		case <-s.stop:
			s.logger.Debugf("Purge: %s received stop signal.", s.name)
			return
		case now := <-ticker.C:
			s.RunOnce(now)
		}
	}
}

// Stop signals Run to return and waits for it. It must only be called after Run was started.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Debugf("Purge: %s stopping.", s.name)
		s.stop <- true
		<-s.stopped
	})
}

// RunOnce performs a single sweep at now.
func (s *Sweeper) RunOnce(now time.Time) SweepStats {
	st := s.tracker.Sweep(now)
	s.metrics.ObserveSweep(st.Removed)
	s.logger.Debugf("Purge: %s evicted %d expired posts, %d authors still tracked.", s.name, st.Removed, st.Owners)
	return st
}
