package transactions

import (
	"context"
	"fmt"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

// Key returns the collection key for one user's transactions.
func Key(userID string) string {
	return fmt.Sprintf("transactions_%s", userID)
}

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) List(ctx context.Context, userID string) ([]Transaction, error) {
	var items []Transaction
	if _, err := r.store.Get(ctx, Key(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Save(ctx context.Context, userID string, items []Transaction) error {
	if items == nil {
		items = []Transaction{}
	}
	return r.store.Set(ctx, Key(userID), items)
}

// CommitWithStock writes the transaction collection and the product
// collection in one atomic multi-key commit, so a recorded movement can
// never land without its stock cascade or vice versa.
func (r *Repository) CommitWithStock(ctx context.Context, userID string, txs []Transaction, prods []products.Product) error {
	if txs == nil {
		txs = []Transaction{}
	}
	if prods == nil {
		prods = []products.Product{}
	}
	return r.store.SetMulti(ctx, map[string]any{
		Key(userID):          txs,
		products.Key(userID): prods,
	})
}
