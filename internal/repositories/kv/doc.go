// Package kv is the key-value store MediBook persists into.
//
// Keys are slash-separated paths ("appointments/<id>", "users/<id>", ...)
// and values are opaque bytes, usually JSON. Three backends implement Store:
// an in-process map (Memory), a database/sql table migrated with goose
// (SQLStore, SQLite or PostgreSQL) and Redis (RedisStore).
//
// Get returns (nil, nil) for an absent key. SetIfAbsent is the atomic
// primitive callers use to claim unique keys such as appointment slots and
// email addresses.
package kv
