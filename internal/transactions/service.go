package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// RepositoryPort abstracts transaction persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context, userID string) ([]Transaction, error)
	Save(ctx context.Context, userID string, items []Transaction) error
	CommitWithStock(ctx context.Context, userID string, txs []Transaction, prods []products.Product) error
}

// ProductPort exposes the product collection for the stock cascade.
type ProductPort interface {
	List(ctx context.Context, userID string) ([]products.Product, error)
}

// Invalidator is notified after every transaction mutation so dependent
// state (cached financial summaries, low-stock alert sets) gets recomputed.
type Invalidator interface {
	Bump(ctx context.Context, userID string) error
}

// Service records transactions and applies their stock cascades.
type Service struct {
	logger       *slog.Logger
	repo         RepositoryPort
	productRepo  ProductPort
	invalidators []Invalidator
}

// NewService builds Service. Nil invalidators are skipped.
func NewService(logger *slog.Logger, repo RepositoryPort, productRepo ProductPort, invalidators ...Invalidator) *Service {
	return &Service{logger: logger, repo: repo, productRepo: productRepo, invalidators: invalidators}
}

// List returns the user's transactions, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]Transaction, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	return s.repo.List(ctx, userID)
}

// Add records a transaction and commits the paired stock change on the
// referenced product in the same atomic write. Sales subtract the quantity,
// purchases add it, adjustments set the stock level directly.
func (s *Service) Add(ctx context.Context, userID string, req CreateTransactionRequest) (Transaction, error) {
	if userID == "" {
		return Transaction{}, shared.ErrUnauthenticated
	}

	prods, err := s.productRepo.List(ctx, userID)
	if err != nil {
		return Transaction{}, err
	}
	idx := -1
	for i := range prods {
		if prods[i].ID == req.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Transaction{}, fmt.Errorf("%w: product %d", shared.ErrNotFound, req.ProductID)
	}

	now := time.Now().UTC()
	switch req.Type {
	case TypeSale, TypePurchase:
		// Sales and purchases move stock by the quantity, so zero or
		// negative amounts would invert the cascade.
		if req.Quantity <= 0 {
			return Transaction{}, fmt.Errorf("%w: quantity must be positive for %s", shared.ErrValidation, req.Type)
		}
		if req.Type == TypeSale {
			prods[idx].Quantity -= req.Quantity
		} else {
			prods[idx].Quantity += req.Quantity
		}
	case TypeAdjustment:
		// Adjustments set the stock level directly; zero is a valid target.
		if req.Quantity < 0 {
			return Transaction{}, fmt.Errorf("%w: quantity cannot be negative", shared.ErrValidation)
		}
		prods[idx].Quantity = req.Quantity
	default:
		return Transaction{}, fmt.Errorf("%w: unknown transaction type %q", shared.ErrValidation, req.Type)
	}
	prods[idx].UpdatedAt = now

	status := PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = PaymentPaid
	}
	tx := Transaction{
		ID:            shared.NextID(),
		Type:          req.Type,
		ProductID:     req.ProductID,
		ClientID:      req.ClientID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Total:         float64(req.Quantity) * req.UnitPrice,
		PaymentStatus: status,
		Description:   req.Description,
		CreatedAt:     now,
		UserID:        userID,
	}

	txs, err := s.repo.List(ctx, userID)
	if err != nil {
		return Transaction{}, err
	}
	txs = append([]Transaction{tx}, txs...)

	if err := s.repo.CommitWithStock(ctx, userID, txs, prods); err != nil {
		return Transaction{}, err
	}
	s.bump(ctx, userID)
	return tx, nil
}

// Update patches payment status and description. Stock is never recomputed
// on update.
func (s *Service) Update(ctx context.Context, userID string, id int64, req UpdateTransactionRequest) (Transaction, error) {
	if userID == "" {
		return Transaction{}, shared.ErrUnauthenticated
	}
	txs, err := s.repo.List(ctx, userID)
	if err != nil {
		return Transaction{}, err
	}
	idx := -1
	for i := range txs {
		if txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Transaction{}, fmt.Errorf("%w: transaction %d", shared.ErrNotFound, id)
	}
	if req.PaymentStatus != nil {
		txs[idx].PaymentStatus = PaymentStatus(*req.PaymentStatus)
	}
	if req.Description != nil {
		txs[idx].Description = *req.Description
	}
	if err := s.repo.Save(ctx, userID, txs); err != nil {
		return Transaction{}, err
	}
	s.bump(ctx, userID)
	return txs[idx], nil
}

// Delete removes the transaction record. The stock cascade is not reverted;
// corrections go through an adjustment transaction.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	txs, err := s.repo.List(ctx, userID)
	if err != nil {
		return err
	}
	kept := txs[:0]
	found := false
	for _, tx := range txs {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return fmt.Errorf("%w: transaction %d", shared.ErrNotFound, id)
	}
	if err := s.repo.Save(ctx, userID, kept); err != nil {
		return err
	}
	s.bump(ctx, userID)
	return nil
}

func (s *Service) bump(ctx context.Context, userID string) {
	for _, inv := range s.invalidators {
		if inv == nil {
			continue
		}
		if err := inv.Bump(ctx, userID); err != nil && s.logger != nil {
			s.logger.Warn("invalidate after transaction", slog.String("user", userID), slog.Any("error", err))
		}
	}
}
