package config

import (
	"fmt"
	"os"
	"time"
)

// Storage drivers accepted by Config.StorageDriver.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config holds runtime settings for the MediBook CLI.
//
// Fields:
//   - StorageDriver / DSN: which key-value backend to open and how.
//   - RedisAddr / RedisPassword / RedisDB: used when StorageDriver is redis.
//   - AuthDelay: pause applied before login and signup are evaluated.
//   - SessionTTL / SessionSecret: lifetime and HMAC key of session tokens.
//     An empty secret is generated once and kept in the store.
//   - LoginRate / LoginBurst: per-email login attempts per second and burst.
//   - CompletionSchedule: cron spec of the sweep that completes past
//     confirmed appointments. Empty disables it.
//   - S3*: settings for s3:// snapshot locations.
type Config struct {
	StorageDriver      string
	DSN                string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	LogLevel           string
	AuthDelay          time.Duration
	SessionTTL         time.Duration
	SessionSecret      string
	PasswordScheme     string
	LoginRate          float64
	LoginBurst         int
	CompletionSchedule string
	S3Region           string
	S3Endpoint         string
	S3User             string
	S3Password         string
	SnapshotPassphrase string
}

// LoadDefaults populates c with defaults for a single local user.
func (c *Config) LoadDefaults() {
	c.StorageDriver = StorageSQLite
	c.DSN = "medibook.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "warn"
	c.AuthDelay = time.Second
	c.SessionTTL = 24 * time.Hour
	c.PasswordScheme = "argon2id"
	c.LoginRate = 0.2
	c.LoginBurst = 5
	c.CompletionSchedule = "5 * * * *"
	c.S3Region = "us-east-1"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StoragePostgres:
		if c.DSN == "" {
			return fmt.Errorf("storage %q needs a dsn", c.StorageDriver)
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("storage redis needs an address")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.PasswordScheme {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("unknown password scheme %q", c.PasswordScheme)
	}
	if c.AuthDelay < 0 {
		return fmt.Errorf("auth delay must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.LoginRate < 0 || c.LoginBurst < 0 {
		return fmt.Errorf("login rate and burst must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config from args (without the program name),
// applying defaults, then the environment, then JSON, then flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	dotenv, err := readDotEnv(".env")
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envLookup(dotenv)); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envLookup prefers the process environment over .env entries.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}
