// Package config loads runtime configuration for the MediBook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and MEDIBOOK_* environment
//     variables (see parseEnv). Real environment variables beat .env entries.
//  3. Optional JSON file (see parseJSON) selected via -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "1s" or integer
// nanoseconds:
//
//	{
//	  "storage": "sqlite",
//	  "dsn": "medibook.db",
//	  "auth_delay": "1s",
//	  "session_ttl": "24h",
//	  "completion_schedule": "5 * * * *"
//	}
package config
