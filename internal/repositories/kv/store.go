package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value only if key does not exist and reports
	// whether it did so.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	// List returns every entry whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// GetJSON loads key and decodes it into a T. The bool is false when the key
// is absent.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return v, false, err
	}
	if raw == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// ListJSON decodes every value under prefix. Entries that fail to decode are
// reported through skip, when non-nil, and left out.
func ListJSON[T any](ctx context.Context, s Store, prefix string, skip func(key string, err error)) (map[string]T, error) {
	raw, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(raw))
	for k, b := range raw {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			if skip != nil {
				skip(k, err)
			}
			continue
		}
		out[k] = v
	}
	return out, nil
}
