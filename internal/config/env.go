package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MEDIBOOK_"

// readDotEnv reads key/value pairs from path without touching the process
// environment. A missing file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

// parseEnv overlays cfg with MEDIBOOK_* variables found through lookup.
//
//	MEDIBOOK_STORAGE             sqlite|postgres|redis|memory
//	MEDIBOOK_DSN                 sqlite path or postgres DSN
//	MEDIBOOK_REDIS_ADDR          host:port
//	MEDIBOOK_REDIS_PASSWORD
//	MEDIBOOK_REDIS_DB            integer
//	MEDIBOOK_LOG_LEVEL           debug|info|warn|error
//	MEDIBOOK_AUTH_DELAY          duration, e.g. 1s
//	MEDIBOOK_SESSION_TTL         duration, e.g. 24h
//	MEDIBOOK_SESSION_SECRET
//	MEDIBOOK_PASSWORD_SCHEME     argon2id|bcrypt
//	MEDIBOOK_LOGIN_RATE          attempts per second
//	MEDIBOOK_LOGIN_BURST         integer
//	MEDIBOOK_COMPLETION_SCHEDULE cron spec, empty disables
//	MEDIBOOK_S3_REGION
//	MEDIBOOK_S3_ENDPOINT
//	MEDIBOOK_S3_USER
//	MEDIBOOK_S3_PASSWORD
//	MEDIBOOK_SNAPSHOT_PASSPHRASE
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"STORAGE":             &cfg.StorageDriver,
		"DSN":                 &cfg.DSN,
		"REDIS_ADDR":          &cfg.RedisAddr,
		"REDIS_PASSWORD":      &cfg.RedisPassword,
		"LOG_LEVEL":           &cfg.LogLevel,
		"SESSION_SECRET":      &cfg.SessionSecret,
		"PASSWORD_SCHEME":     &cfg.PasswordScheme,
		"COMPLETION_SCHEDULE": &cfg.CompletionSchedule,
		"S3_REGION":           &cfg.S3Region,
		"S3_ENDPOINT":         &cfg.S3Endpoint,
		"S3_USER":             &cfg.S3User,
		"S3_PASSWORD":         &cfg.S3Password,
		"SNAPSHOT_PASSPHRASE": &cfg.SnapshotPassphrase,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":    &cfg.RedisDB,
		"LOGIN_BURST": &cfg.LoginBurst,
	}
	for name, dst := range ints {
		v, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		"AUTH_DELAY":  &cfg.AuthDelay,
		"SESSION_TTL": &cfg.SessionTTL,
	}
	for name, dst := range durations {
		v, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	if v, ok := lookup(envPrefix + "LOGIN_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sLOGIN_RATE: %w", envPrefix, err)
		}
		cfg.LoginRate = f
	}
	return nil
}
