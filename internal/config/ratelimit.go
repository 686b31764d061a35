package config

import "time"

type RateLimitConfig struct {
	Enabled        bool          `env:"ENABLED" envDefault:"true"`
	Capacity       int           `env:"CAPACITY" envDefault:"60"`
	RefillTokens   int           `env:"REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1s"`
	TTL            time.Duration `env:"TTL" envDefault:"10m"`
	KeyStrategy    string        `env:"KEY_STRATEGY" envDefault:"ip_user_route"`
	Prefix         string        `env:"PREFIX" envDefault:"rl"`
	Debug          bool          `env:"DEBUG" envDefault:"false"`
	Burst          int           `env:"BURST" envDefault:"-1"`
	RefillEvery    time.Duration `env:"REFILL_EVERY" envDefault:"0s"`
}

// normalize applies the burst/refill shorthands and clamps values so the
// limiter script never sees a zero interval or capacity.
func (r *RateLimitConfig) normalize() {
	if r.Burst > 0 {
		r.Capacity = r.Burst
	}
	if r.RefillEvery > 0 {
		r.RefillTokens = 1
		r.RefillInterval = r.RefillEvery
	}
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
