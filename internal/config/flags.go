package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/medibook/internal/flagx"
)

var knownFlags = []string{
	"-s", "-d", "-redis", "-redis-password", "-redis-db", "-l",
	"-delay", "-ttl", "-k", "-hash", "-login-rate", "-login-burst",
	"-cron", "-g", "-e", "-u", "-p", "-passphrase",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-s string              storage driver (sqlite|postgres|redis|memory)
//	-d string              sqlite path or postgres DSN
//	-redis string          redis host:port
//	-redis-password string
//	-redis-db int
//	-l string              log level
//	-delay duration        pause before login and signup
//	-ttl duration          session lifetime
//	-k string              session signing secret
//	-hash string           password scheme (argon2id|bcrypt)
//	-login-rate float      login attempts per second per email
//	-login-burst int
//	-cron string           completion sweep schedule, "" disables
//	-g string              S3 region
//	-e string              S3 endpoint
//	-u string              S3 access key
//	-p string              S3 secret key
//	-passphrase string     snapshot passphrase
//
// Args are filtered with flagx.FilterArgs first so flags owned by other
// components (such as -c) do not break parsing.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("medibook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "sqlite path or postgres DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.AuthDelay, "delay", cfg.AuthDelay, "pause before login and signup")
	fs.DurationVar(&cfg.SessionTTL, "ttl", cfg.SessionTTL, "session lifetime")
	fs.StringVar(&cfg.SessionSecret, "k", cfg.SessionSecret, "session signing secret")
	fs.StringVar(&cfg.PasswordScheme, "hash", cfg.PasswordScheme, "password hashing scheme")
	fs.Float64Var(&cfg.LoginRate, "login-rate", cfg.LoginRate, "login attempts per second")
	fs.IntVar(&cfg.LoginBurst, "login-burst", cfg.LoginBurst, "login burst")
	fs.StringVar(&cfg.CompletionSchedule, "cron", cfg.CompletionSchedule, "completion sweep schedule")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3User, "u", cfg.S3User, "S3 access key")
	fs.StringVar(&cfg.S3Password, "p", cfg.S3Password, "S3 secret key")
	fs.StringVar(&cfg.SnapshotPassphrase, "passphrase", cfg.SnapshotPassphrase, "snapshot passphrase")

	return fs.Parse(args)
}
