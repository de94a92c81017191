package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User) error
	ListIDs(ctx context.Context) ([]string, error)
}

// KVRepository keeps the account registry in the key-value store.
type KVRepository struct {
	store store.Store
}

// NewRepository constructs a KVRepository.
func NewRepository(s store.Store) *KVRepository {
	return &KVRepository{store: s}
}

func (r *KVRepository) load(ctx context.Context) ([]User, error) {
	var users []User
	if _, err := r.store.Get(ctx, UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *KVRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByID fetches a user by id.
func (r *KVRepository) FindByID(ctx context.Context, id string) (*User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// Create appends a new account to the registry.
func (r *KVRepository) Create(ctx context.Context, user User) error {
	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, user.Email) {
			return fmt.Errorf("%w: email %s", shared.ErrConflict, user.Email)
		}
	}
	users = append(users, user)
	return r.store.Set(ctx, UsersKey, users)
}

// ListIDs enumerates every account id, used by per-user background jobs.
func (r *KVRepository) ListIDs(ctx context.Context) ([]string, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

var _ Repository = (*KVRepository)(nil)
