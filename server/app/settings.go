package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultRetentionWindow       = 48 * time.Hour
	DefaultSweepInterval         = time.Hour
	DefaultPageSize              = 50
	DefaultMaxBackfillPerChannel = 500
	DefaultBatchDelay            = time.Second
	DefaultChannelDelay          = 2 * time.Second
	DefaultRateLimitDelay        = 200 * time.Millisecond

	// MaxBatch is the most posts a single deletion call may carry.
	MaxBatch = 100
	// maxPageSize is the largest page the server returns for channel history.
	maxPageSize = 200
)

var (
	ErrInvalidSetting = errors.New("invalid setting.")
	ErrRequired       = errors.New("require setting.")
)

/*
   Settings tune the tracker, the backfill and the purge throttling.
   Every field is optional in the YAML document, a missing field keeps its default.

       retention_window: 48h
       sweep_interval: 1h
       page_size: 50
       max_backfill_per_channel: 500
       batch_delay: 1s
       channel_delay: 2s
       max_batch: 100
       rate_limit_delay: 200ms
       include_direct_channels: false
*/
type Settings struct {
	RetentionWindow       time.Duration `yaml:"retention_window"`
	SweepInterval         time.Duration `yaml:"sweep_interval"`
	PageSize              int           `yaml:"page_size"`
	MaxBackfillPerChannel int           `yaml:"max_backfill_per_channel"`
	BatchDelay            time.Duration `yaml:"batch_delay"`
	ChannelDelay          time.Duration `yaml:"channel_delay"`
	MaxBatch              int           `yaml:"max_batch"`
	RateLimitDelay        time.Duration `yaml:"rate_limit_delay"`
	// IncludeDirectChannels lets purges and the backfill reach direct and group messages.
	IncludeDirectChannels bool `yaml:"include_direct_channels"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		RetentionWindow:       DefaultRetentionWindow,
		SweepInterval:         DefaultSweepInterval,
		PageSize:              DefaultPageSize,
		MaxBackfillPerChannel: DefaultMaxBackfillPerChannel,
		BatchDelay:            DefaultBatchDelay,
		ChannelDelay:          DefaultChannelDelay,
		MaxBatch:              MaxBatch,
		RateLimitDelay:        DefaultRateLimitDelay,
	}
}

// ParseSettings loads the YAML document over the defaults and checks the result.
func ParseSettings(yamlStr string) (Settings, error) {
	s := DefaultSettings()
	if strings.TrimSpace(yamlStr) == "" {
		return s, nil
	}

	if err := yaml.UnmarshalStrict([]byte(yamlStr), &s); err != nil {
		return Settings{}, fmt.Errorf("%w %v", ErrInvalidSetting, err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks every field is in range.
func (s Settings) Validate() error {
	if s.RetentionWindow <= 0 {
		return fmt.Errorf("%w field:retention_window", ErrRequired)
	}
	if s.SweepInterval <= 0 {
		return fmt.Errorf("%w field:sweep_interval", ErrRequired)
	}
	if s.PageSize <= 0 || s.PageSize > maxPageSize {
		return fmt.Errorf("%w field:page_size must be within 1..%d", ErrInvalidSetting, maxPageSize)
	}
	if s.MaxBackfillPerChannel <= 0 {
		return fmt.Errorf("%w field:max_backfill_per_channel", ErrRequired)
	}
	if s.MaxBatch <= 0 || s.MaxBatch > MaxBatch {
		return fmt.Errorf("%w field:max_batch must be within 1..%d", ErrInvalidSetting, MaxBatch)
	}
	for name, d := range map[string]time.Duration{
		"batch_delay":      s.BatchDelay,
		"channel_delay":    s.ChannelDelay,
		"rate_limit_delay": s.RateLimitDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%w field:%s is negative", ErrInvalidSetting, name)
		}
	}
	return nil
}
