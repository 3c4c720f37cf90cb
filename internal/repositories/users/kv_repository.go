package users

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
)

const (
	prefix      = "users/"
	emailPrefix = "users_by_email/"
)

func Key(id string) string { return prefix + id }

func EmailKey(email string) string { return emailPrefix + models.NormalizeEmail(email) }

type KVRepository struct {
	store kv.Store
	log   logging.Logger
}

func NewKVRepository(store kv.Store, log logging.Logger) *KVRepository {
	if log == nil {
		log = logging.Discard()
	}
	return &KVRepository{store: store, log: log}
}

func (r *KVRepository) Create(ctx context.Context, u *models.User) error {
	ok, err := r.store.SetIfAbsent(ctx, EmailKey(u.Email), []byte(u.ID))
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !ok {
		return common.ErrEmailTaken
	}
	if err := kv.PutJSON(ctx, r.store, Key(u.ID), u); err != nil {
		_ = r.store.Delete(ctx, EmailKey(u.Email))
		return fmt.Errorf("failed to save user %s: %w", u.ID, err)
	}
	return nil
}

func (r *KVRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok, err := kv.GetJSON[models.User](ctx, r.store, Key(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *KVRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.store.Get(ctx, EmailKey(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if id == nil {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, string(id))
}

func (r *KVRepository) List(ctx context.Context) ([]models.User, error) {
	all, err := kv.ListJSON[models.User](ctx, r.store, prefix, func(key string, err error) {
		r.log.Warn(ctx, "skipping unreadable user", "key", key, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	result := make([]models.User, 0, len(all))
	for _, u := range all {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *KVRepository) Update(ctx context.Context, u *models.User) error {
	if err := kv.PutJSON(ctx, r.store, Key(u.ID), u); err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.ID, err)
	}
	return nil
}
