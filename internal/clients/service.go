package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, userID string) ([]Client, error)
	Save(ctx context.Context, userID string, items []Client) error
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]Client, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string, id int64) (Client, error) {
	if userID == "" {
		return Client{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Client{}, err
	}
	for _, c := range items {
		if c.ID == id {
			return c, nil
		}
	}
	return Client{}, fmt.Errorf("%w: client %d", shared.ErrNotFound, id)
}

func (s *Service) Add(ctx context.Context, userID string, req CreateClientRequest) (Client, error) {
	if userID == "" {
		return Client{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Client{}, err
	}
	now := time.Now().UTC()
	client := Client{
		ID:        shared.NextID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	}
	items = append(items, client)
	if err := s.repo.Save(ctx, userID, items); err != nil {
		return Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, userID string, id int64, req UpdateClientRequest) (Client, error) {
	if userID == "" {
		return Client{}, shared.ErrUnauthenticated
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Client{}, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Client{}, fmt.Errorf("%w: client %d", shared.ErrNotFound, id)
	}
	if req.Name != nil {
		items[idx].Name = *req.Name
	}
	if req.Email != nil {
		items[idx].Email = *req.Email
	}
	if req.Phone != nil {
		items[idx].Phone = *req.Phone
	}
	if req.Address != nil {
		items[idx].Address = *req.Address
	}
	items[idx].UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, userID, items); err != nil {
		return Client{}, err
	}
	return items[idx], nil
}

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
	for _, c := range items {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("%w: client %d", shared.ErrNotFound, id)
	}
	return s.repo.Save(ctx, userID, kept)
}
