package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/medibook/internal/flagx"
	"github.com/dmitrijs2005/medibook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values.
type JsonConfig struct {
	StorageDriver      *string         `json:"storage"`
	DSN                *string         `json:"dsn"`
	RedisAddr          *string         `json:"redis_addr"`
	RedisPassword      *string         `json:"redis_password"`
	RedisDB            *int            `json:"redis_db"`
	LogLevel           *string         `json:"log_level"`
	AuthDelay          *timex.Duration `json:"auth_delay"`
	SessionTTL         *timex.Duration `json:"session_ttl"`
	SessionSecret      *string         `json:"session_secret"`
	PasswordScheme     *string         `json:"password_scheme"`
	LoginRate          *float64        `json:"login_rate"`
	LoginBurst         *int            `json:"login_burst"`
	CompletionSchedule *string         `json:"completion_schedule"`
	S3Region           *string         `json:"s3_region"`
	S3Endpoint         *string         `json:"s3_endpoint"`
	S3User             *string         `json:"s3_user"`
	S3Password         *string         `json:"s3_password"`
	SnapshotPassphrase *string         `json:"snapshot_passphrase"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJSON overlays cfg with the JSON file named by -c or -config in args.
// Without either flag nothing is loaded.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.StorageDriver, jc.StorageDriver)
	setIf(&cfg.DSN, jc.DSN)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisPassword, jc.RedisPassword)
	setIf(&cfg.RedisDB, jc.RedisDB)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.SessionSecret, jc.SessionSecret)
	setIf(&cfg.PasswordScheme, jc.PasswordScheme)
	setIf(&cfg.LoginRate, jc.LoginRate)
	setIf(&cfg.LoginBurst, jc.LoginBurst)
	setIf(&cfg.CompletionSchedule, jc.CompletionSchedule)
	setIf(&cfg.S3Region, jc.S3Region)
	setIf(&cfg.S3Endpoint, jc.S3Endpoint)
	setIf(&cfg.S3User, jc.S3User)
	setIf(&cfg.S3Password, jc.S3Password)
	setIf(&cfg.SnapshotPassphrase, jc.SnapshotPassphrase)
	if jc.AuthDelay != nil {
		cfg.AuthDelay = jc.AuthDelay.Duration
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	return nil
}
