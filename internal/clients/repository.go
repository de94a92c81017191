package clients

import (
	"context"
	"fmt"

	"github.com/gestao-facil/gestao-facil/internal/store"
)

// Key returns the collection key for one user's clients.
func Key(userID string) string {
	return fmt.Sprintf("clients_%s", userID)
}

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) List(ctx context.Context, userID string) ([]Client, error) {
	var items []Client
	if _, err := r.store.Get(ctx, Key(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Save(ctx context.Context, userID string, items []Client) error {
	if items == nil {
		items = []Client{}
	}
	return r.store.Set(ctx, Key(userID), items)
}
