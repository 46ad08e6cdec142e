package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RedisConfig holds connection settings for the networked cache backend.
// An empty Addr disables the networked backend entirely; the gateway then
// serves from the in-process fallback store for the process lifetime.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// GatewayConfig tunes the degrading cache gateway.
type GatewayConfig struct {
	// ConnectTimeout bounds each attempt to reach the networked backend.
	ConnectTimeout time.Duration

	// MaxRetries is the number of transient backend failures tolerated
	// before the gateway abandons the networked backend for the process
	// lifetime.
	MaxRetries int

	// DefaultTTL applies to Set calls with a non-positive TTL.
	DefaultTTL time.Duration
}

// FallbackConfig tunes the in-process fallback store.
type FallbackConfig struct {
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration

	// MaxEntryAge is the hard ceiling after which the sweep removes an
	// entry regardless of its own TTL, bounding memory growth from entries
	// written but never read again.
	MaxEntryAge time.Duration
}

// LocalConfig tunes the in-process read-through cache used for
// generation-provider responses.
type LocalConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// TTLPolicy assigns a TTL per cache namespace. Shorter TTLs belong to data
// that changes with every new content item; the generation cache tolerates
// staleness in exchange for fewer provider calls.
type TTLPolicy struct {
	Generation  time.Duration
	Stats       time.Duration
	Analytics   time.Duration
	Performance time.Duration
}

// Config is the top-level configuration for the caching layer.
type Config struct {
	Redis    RedisConfig
	Gateway  GatewayConfig
	Fallback FallbackConfig
	Local    LocalConfig
	TTL      TTLPolicy
}

// DefaultConfig returns a Config populated with the policy defaults:
// 5s connect timeout, 3 retries, 1h default TTL, 5m fallback sweep with a
// 1h age ceiling, and the per-namespace TTLs (generation/performance 1h,
// stats/analytics 30m).
func DefaultConfig() Config {
	return Config{
		Redis: RedisConfig{
			Addr:      "",
			KeyPrefix: "contentcache:",
		},
		Gateway: GatewayConfig{
			ConnectTimeout: 5 * time.Second,
			MaxRetries:     3,
			DefaultTTL:     time.Hour,
		},
		Fallback: FallbackConfig{
			SweepInterval: 5 * time.Minute,
			MaxEntryAge:   time.Hour,
		},
		Local: LocalConfig{
			Capacity:           10000,
			NumShards:          64,
			TTL:                time.Hour,
			EvictionPercentage: 10,
		},
		TTL: TTLPolicy{
			Generation:  time.Hour,
			Stats:       30 * time.Minute,
			Analytics:   30 * time.Minute,
			Performance: time.Hour,
		},
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Gateway,
		validation.Field(&c.Gateway.ConnectTimeout, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.Gateway.MaxRetries, validation.Required, validation.Min(1)),
		validation.Field(&c.Gateway.DefaultTTL, validation.Required, validation.Min(time.Duration(1))),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Fallback,
		validation.Field(&c.Fallback.SweepInterval, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.Fallback.MaxEntryAge, validation.Required, validation.Min(time.Duration(1))),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Local,
		validation.Field(&c.Local.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.Local.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.Local.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.Local.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&c.TTL,
		validation.Field(&c.TTL.Generation, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.TTL.Stats, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.TTL.Analytics, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.TTL.Performance, validation.Required, validation.Min(time.Duration(1))),
	)
}
