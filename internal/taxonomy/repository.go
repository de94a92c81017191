package taxonomy

import (
	"context"
	"fmt"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

// CategoriesKey returns the key holding one user's category list.
func CategoriesKey(userID string) string {
	return fmt.Sprintf("categories_%s", userID)
}

// SubcategoriesKey returns the key holding one user's subcategory map.
func SubcategoriesKey(userID string) string {
	return fmt.Sprintf("subcategories_%s", userID)
}

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load reads both taxonomy collections. Missing keys yield empty values.
func (r *Repository) Load(ctx context.Context, userID string) ([]string, map[string][]string, error) {
	var categories []string
	if _, err := r.store.Get(ctx, CategoriesKey(userID), &categories); err != nil {
		return nil, nil, err
	}
	subcategories := make(map[string][]string)
	if _, err := r.store.Get(ctx, SubcategoriesKey(userID), &subcategories); err != nil {
		return nil, nil, err
	}
	return categories, subcategories, nil
}

// Save overwrites both taxonomy collections atomically.
func (r *Repository) Save(ctx context.Context, userID string, categories []string, subcategories map[string][]string) error {
	if categories == nil {
		categories = []string{}
	}
	if subcategories == nil {
		subcategories = map[string][]string{}
	}
	return r.store.SetMulti(ctx, map[string]any{
		CategoriesKey(userID):    categories,
		SubcategoriesKey(userID): subcategories,
	})
}

// CommitRename writes the taxonomy collections and the rewritten product
// collection in one atomic commit so a rename can never leave products
// pointing at a name that no longer exists.
func (r *Repository) CommitRename(ctx context.Context, userID string, categories []string, subcategories map[string][]string, prods []products.Product) error {
	if categories == nil {
		categories = []string{}
	}
	if subcategories == nil {
		subcategories = map[string][]string{}
	}
	if prods == nil {
		prods = []products.Product{}
	}
	return r.store.SetMulti(ctx, map[string]any{
		CategoriesKey(userID):    categories,
		SubcategoriesKey(userID): subcategories,
		products.Key(userID):     prods,
	})
}
