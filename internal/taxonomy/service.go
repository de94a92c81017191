package taxonomy

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// RepositoryPort abstracts taxonomy persistence.
type RepositoryPort interface {
	Load(ctx context.Context, userID string) ([]string, map[string][]string, error)
	Save(ctx context.Context, userID string, categories []string, subcategories map[string][]string) error
	CommitRename(ctx context.Context, userID string, categories []string, subcategories map[string][]string, prods []products.Product) error
}

// ProductPort exposes the product collection for rename cascades.
type ProductPort interface {
	List(ctx context.Context, userID string) ([]products.Product, error)
}

// Service enforces taxonomy uniqueness and cascades renames into products.
// There is no hard delete: removing a name would silently orphan product
// references, so the UI only offers renames once nothing references a name.
type Service struct {
	repo        RepositoryPort
	productRepo ProductPort
	collator    *collate.Collator
}

// NewService builds Service.
func NewService(repo RepositoryPort, productRepo ProductPort) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		collator:    collate.New(language.BrazilianPortuguese),
	}
}

// Get returns the taxonomy with categories in collation order.
func (s *Service) Get(ctx context.Context, userID string) (Taxonomy, error) {
	if userID == "" {
		return Taxonomy{}, shared.ErrUnauthenticated
	}
	categories, subcategories, err := s.repo.Load(ctx, userID)
	if err != nil {
		return Taxonomy{}, err
	}
	sorted := slices.Clone(categories)
	s.collator.SortStrings(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	return Taxonomy{Categories: sorted, Subcategories: subcategories}, nil
}

// AddCategory appends a category name. Names are case-sensitive.
func (s *Service) AddCategory(ctx context.Context, userID, name string) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	if name == "" {
		return fmt.Errorf("%w: category name required", shared.ErrValidation)
	}
	categories, subcategories, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(categories, name) {
		return fmt.Errorf("%w: category %q", shared.ErrConflict, name)
	}
	categories = append(categories, name)
	return s.repo.Save(ctx, userID, categories, subcategories)
}

// AddSubcategory appends a subcategory under an existing category.
func (s *Service) AddSubcategory(ctx context.Context, userID, category, name string) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	if name == "" {
		return fmt.Errorf("%w: subcategory name required", shared.ErrValidation)
	}
	categories, subcategories, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(categories, category) {
		return fmt.Errorf("%w: category %q", shared.ErrNotFound, category)
	}
	if slices.Contains(subcategories[category], name) {
		return fmt.Errorf("%w: subcategory %q under %q", shared.ErrConflict, name, category)
	}
	subcategories[category] = append(subcategories[category], name)
	return s.repo.Save(ctx, userID, categories, subcategories)
}

// RenameCategory renames a category, moves its subcategory set and rewrites
// every product referencing the old name, all in one commit.
func (s *Service) RenameCategory(ctx context.Context, userID, oldName, newName string) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	if newName == "" {
		return fmt.Errorf("%w: category name required", shared.ErrValidation)
	}
	if oldName == newName {
		return nil
	}
	categories, subcategories, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}
	idx := slices.Index(categories, oldName)
	if idx < 0 {
		return fmt.Errorf("%w: category %q", shared.ErrNotFound, oldName)
	}
	if slices.Contains(categories, newName) {
		return fmt.Errorf("%w: category %q", shared.ErrConflict, newName)
	}
	categories[idx] = newName
	if subs, ok := subcategories[oldName]; ok {
		subcategories[newName] = subs
		delete(subcategories, oldName)
	}

	prods, err := s.productRepo.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range prods {
		if prods[i].Category == oldName {
			prods[i].Category = newName
		}
	}
	return s.repo.CommitRename(ctx, userID, categories, subcategories, prods)
}

// RenameSubcategory renames one subcategory within a category and rewrites
// matching products.
func (s *Service) RenameSubcategory(ctx context.Context, userID, category, oldName, newName string) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	if newName == "" {
		return fmt.Errorf("%w: subcategory name required", shared.ErrValidation)
	}
	if oldName == newName {
		return nil
	}
	categories, subcategories, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(categories, category) {
		return fmt.Errorf("%w: category %q", shared.ErrNotFound, category)
	}
	subs := subcategories[category]
	idx := slices.Index(subs, oldName)
	if idx < 0 {
		return fmt.Errorf("%w: subcategory %q under %q", shared.ErrNotFound, oldName, category)
	}
	if slices.Contains(subs, newName) {
		return fmt.Errorf("%w: subcategory %q under %q", shared.ErrConflict, newName, category)
	}
	subs[idx] = newName
	subcategories[category] = subs

	prods, err := s.productRepo.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range prods {
		if prods[i].Category == category && prods[i].Subcategory == oldName {
			prods[i].Subcategory = newName
		}
	}
	return s.repo.CommitRename(ctx, userID, categories, subcategories, prods)
}
