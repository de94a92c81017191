package products

import (
	"context"
	"fmt"
	"time"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context, userID string) ([]Product, error)
	Save(ctx context.Context, userID string, items []Product) error
}

// Invalidator is notified after a mutation so stock-derived state (alert
// sets, notification feeds) gets recomputed.
type Invalidator interface {
	Bump(ctx context.Context, userID string) error
}

// Service owns product business rules. Every operation takes the acting
// user id explicitly; an empty id fails before any read or write.
type Service struct {
	repo         RepositoryPort
	invalidators []Invalidator
}

// NewService builds Service. Nil invalidators are skipped.
func NewService(repo RepositoryPort, invalidators ...Invalidator) *Service {
	return &Service{repo: repo, invalidators: invalidators}
}

func (s *Service) bump(ctx context.Context, userID string) {
	for _, inv := range s.invalidators {
		if inv == nil {
			continue
		}
		_ = inv.Bump(ctx, userID)
	}
}

// List returns the user's products.
func (s *Service) List(ctx context.Context, userID string) ([]Product, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	return s.repo.List(ctx, userID)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, userID string, id int64) (Product, error) {
	if userID == "" {
		return Product{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Product{}, err
	}
	for _, p := range items {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: product %d", shared.ErrNotFound, id)
}

// Add creates a product, assigns its id and timestamps, and persists the
// whole collection.
func (s *Service) Add(ctx context.Context, userID string, req CreateProductRequest) (Product, error) {
	if userID == "" {
		return Product{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Product{}, err
	}
	now := time.Now().UTC()
	product := Product{
		ID:          shared.NextID(),
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Cost:        req.Cost,
		SalePrice:   req.SalePrice,
		Quantity:    req.Quantity,
		Supplier:    req.Supplier,
		MinStock:    req.MinStock,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
	}
	items = append(items, product)
	if err := s.repo.Save(ctx, userID, items); err != nil {
		return Product{}, err
	}
	s.bump(ctx, userID)
	return product, nil
}

// Update applies the patch to the matching product, bumping only its
// updated_at timestamp. An unknown id is an error, not a silent no-op.
func (s *Service) Update(ctx context.Context, userID string, id int64, req UpdateProductRequest) (Product, error) {
	if userID == "" {
		return Product{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Product{}, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Product{}, fmt.Errorf("%w: product %d", shared.ErrNotFound, id)
	}
	applyPatch(&items[idx], req)
	items[idx].UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, userID, items); err != nil {
		return Product{}, err
	}
	s.bump(ctx, userID)
	return items[idx], nil
}

// Delete removes the product from the collection. Transactions referencing
// the id are left untouched; orphaned references are tolerated.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, p := range items {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("%w: product %d", shared.ErrNotFound, id)
	}
	if err := s.repo.Save(ctx, userID, kept); err != nil {
		return err
	}
	s.bump(ctx, userID)
	return nil
}

func applyPatch(p *Product, req UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Subcategory != nil {
		p.Subcategory = *req.Subcategory
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.Supplier != nil {
		p.Supplier = *req.Supplier
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
}
