package products

import (
	"context"
	"fmt"

	"github.com/gestao-facil/gestao-facil/internal/store"
)

// Key returns the collection key for one user's products.
func Key(userID string) string {
	return fmt.Sprintf("products_%s", userID)
}

// Repository mirrors one user's product collection to the key-value store.
// The whole collection is read and written wholesale, never incrementally.
type Repository struct {
	store store.Store
}

// NewRepository constructs Repository.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// List loads the user's products. A missing key yields an empty collection.
func (r *Repository) List(ctx context.Context, userID string) ([]Product, error) {
	var items []Product
	if _, err := r.store.Get(ctx, Key(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save overwrites the user's product collection.
func (r *Repository) Save(ctx context.Context, userID string, items []Product) error {
	if items == nil {
		items = []Product{}
	}
	return r.store.Set(ctx, Key(userID), items)
}
