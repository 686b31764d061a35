package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  Methods lists the HTTP methods to cache (e.g. GET, HEAD).
// KeyStrategy determines which parts of the request contribute to the
// cache key.  Any successful write under the cached API drops every entry
// under Prefix.
type CacheConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"true"`
	Methods      []string      `env:"METHODS" envDefault:"GET" envSeparator:","`
	TTL          time.Duration `env:"TTL" envDefault:"30s"`
	KeyStrategy  string        `env:"KEY_STRATEGY" envDefault:"route_query"`
	Prefix       string        `env:"PREFIX" envDefault:"cache"`
	MaxBodyBytes int           `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// MethodSet returns the cached methods upper-cased for constant-time lookup.
func (c CacheConfig) MethodSet() map[string]bool {
	m := make(map[string]bool, len(c.Methods))
	for _, p := range c.Methods {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
