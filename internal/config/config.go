package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11" // env parses struct tags into values
	"github.com/joho/godotenv"    // godotenv loads an optional .env file
)

// Config holds all runtime configuration values.  Each group maps to a set
// of environment variables sharing a prefix, e.g. DB_HOST or REDIS_ADDR.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`   // application environment (dev/test/prod)
	Port string `env:"APP_PORT" envDefault:"8080"` // HTTP port to listen on

	DB        DBConfig        `envPrefix:"DB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Auth      AuthConfig
	AMQP      AMQPConfig
}

// DBConfig selects the relational store.  Driver "mysql" is the production
// store; "sqlite" keeps everything in a local file for development.
type DBConfig struct {
	Driver      string `env:"DRIVER" envDefault:"mysql"`
	User        string `env:"USER" envDefault:"root"`
	Pass        string `env:"PASS"` // empty allowed
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        string `env:"PORT" envDefault:"3306"`
	Name        string `env:"NAME" envDefault:"filmes"`
	Path        string `env:"PATH" envDefault:"filmes.db"` // sqlite file
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
}

// AuthConfig guards write routes.  When Secret is empty the API is open.
type AuthConfig struct {
	Secret       string `env:"JWT_SECRET"`
	AccessTTLMin int    `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"60"`
}

// Enabled reports whether write routes require a token.
func (a AuthConfig) Enabled() bool { return a.Secret != "" }

// AMQPConfig configures the entity change event stream.  An empty URL
// disables publishing.
type AMQPConfig struct {
	URL   string `env:"RABBITMQ_URL"`
	Queue string `env:"RABBITMQ_QUEUE" envDefault:"filmes.entity.changed"`
}

// Load reads a .env file when present and parses the environment into a
// Config.  Invalid values are reported as an error instead of exiting.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimit.normalize()
	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(c *Config) error {
	switch strings.ToLower(c.DB.Driver) {
	case "mysql", "sqlite":
		c.DB.Driver = strings.ToLower(c.DB.Driver)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Port == "" {
		return errors.New("APP_PORT must not be empty")
	}
	return nil
}
