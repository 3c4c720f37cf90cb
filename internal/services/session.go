package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
)

const (
	currentUserKey   = "current_user"
	sessionSecretKey = "session_secret"
	secretSize       = 32
)

// Session is the persisted pointer to the signed-in user.
type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// ResolveSessionSecret returns the configured secret, or the one stored under
// "session_secret", generating and storing a random one on first use.
func ResolveSessionSecret(ctx context.Context, store kv.Store, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	fresh, err := common.MakeRandHexString(secretSize)
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	if _, err := store.SetIfAbsent(ctx, sessionSecretKey, []byte(fresh)); err != nil {
		return nil, fmt.Errorf("store session secret: %w", err)
	}

	// another process may have won the race
	stored, err := store.Get(ctx, sessionSecretKey)
	if err != nil {
		return nil, fmt.Errorf("load session secret: %w", err)
	}
	if _, err := hex.DecodeString(string(stored)); err != nil || len(stored) == 0 {
		return nil, fmt.Errorf("stored session secret is malformed")
	}
	return stored, nil
}
