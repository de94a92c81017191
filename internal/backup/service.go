package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestao-facil/gestao-facil/internal/clients"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
)

// DefaultRetention is how many automatic backups are kept per user.
const DefaultRetention = 5

// ProductPort, ClientPort and TransactionPort expose the entity collections
// the subsystem snapshots and restores.
type ProductPort interface {
	List(ctx context.Context, userID string) ([]products.Product, error)
}

type ClientPort interface {
	List(ctx context.Context, userID string) ([]clients.Client, error)
}

type TransactionPort interface {
	List(ctx context.Context, userID string) ([]transactions.Transaction, error)
}

// Invalidator is notified after an overwrite replaces the collections.
type Invalidator interface {
	Bump(ctx context.Context, userID string) error
}

// Service serialises, validates and restores snapshots of the three entity
// collections, and maintains the rotating automatic backup list.
type Service struct {
	logger       *slog.Logger
	store        store.Store
	products     ProductPort
	clients      ClientPort
	txs          TransactionPort
	retention    int
	invalidators []Invalidator
}

// NewService builds Service. retention <= 0 falls back to DefaultRetention;
// nil invalidators are skipped.
func NewService(logger *slog.Logger, s store.Store, p ProductPort, c ClientPort, t TransactionPort, retention int, invalidators ...Invalidator) *Service {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Service{logger: logger, store: s, products: p, clients: c, txs: t, retention: retention, invalidators: invalidators}
}

// Export wraps the user's current collections in a portable snapshot.
func (s *Service) Export(ctx context.Context, userID, userName string) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, shared.ErrUnauthenticated
	}
	data, err := s.collect(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Metadata: Metadata{
			ExportDate: time.Now().UTC(),
			Version:    ExportVersion,
			User:       userName,
			UserID:     userID,
		},
		Data: data,
	}, nil
}

// Import validates a raw snapshot payload and, only when every check
// passes, backs up the current state and overwrites the three collections.
// A failing check performs no writes at all.
func (s *Service) Import(ctx context.Context, userID, userName string, raw []byte) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	data, err := parseAndValidate(raw)
	if err != nil {
		return err
	}
	if err := s.CreateBackup(ctx, userID, userName); err != nil {
		return err
	}
	return s.overwrite(ctx, userID, data)
}

// CreateBackup snapshots the current collections into the backup list,
// evicting the oldest entry once the list exceeds the retention bound.
// Eviction is FIFO by insertion order.
func (s *Service) CreateBackup(ctx context.Context, userID, userName string) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	data, err := s.collect(ctx, userID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	entry := Snapshot{
		Metadata: Metadata{
			ExportDate: now,
			BackupDate: &now,
			Version:    ExportVersion,
			User:       userName,
			UserID:     userID,
		},
		Data: data,
	}

	var list []Snapshot
	if _, err := s.store.Get(ctx, Key(userID), &list); err != nil {
		return err
	}
	list = append(list, entry)
	for len(list) > s.retention {
		list = list[1:]
	}
	if err := s.store.Set(ctx, Key(userID), list); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("backup created", slog.String("user", userID), slog.Int("retained", len(list)))
	}
	return nil
}

// List returns the user's backups in insertion order.
func (s *Service) List(ctx context.Context, userID string) ([]Snapshot, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	var list []Snapshot
	if _, err := s.store.Get(ctx, Key(userID), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Snapshot{}
	}
	return list, nil
}

// Restore finds the backup with the exact backup timestamp, backs up the
// current state first and then overwrites the collections with it.
func (s *Service) Restore(ctx context.Context, userID, userName string, backupDate time.Time) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	var target *Snapshot
	for i := range list {
		if list[i].Metadata.BackupDate != nil && list[i].Metadata.BackupDate.Equal(backupDate) {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: backup %s", shared.ErrNotFound, backupDate.Format(time.RFC3339Nano))
	}
	if err := s.CreateBackup(ctx, userID, userName); err != nil {
		return err
	}
	return s.overwrite(ctx, userID, target.Data)
}

// Remove deletes the backup matching the exact timestamp.
func (s *Service) Remove(ctx context.Context, userID string, backupDate time.Time) error {
	if userID == "" {
		return shared.ErrUnauthenticated
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, snap := range list {
		if snap.Metadata.BackupDate != nil && snap.Metadata.BackupDate.Equal(backupDate) {
			found = true
			continue
		}
		kept = append(kept, snap)
	}
	if !found {
		return fmt.Errorf("%w: backup %s", shared.ErrNotFound, backupDate.Format(time.RFC3339Nano))
	}
	return s.store.Set(ctx, Key(userID), kept)
}

func (s *Service) collect(ctx context.Context, userID string) (Data, error) {
	prods, err := s.products.List(ctx, userID)
	if err != nil {
		return Data{}, err
	}
	cls, err := s.clients.List(ctx, userID)
	if err != nil {
		return Data{}, err
	}
	txs, err := s.txs.List(ctx, userID)
	if err != nil {
		return Data{}, err
	}
	if prods == nil {
		prods = []products.Product{}
	}
	if cls == nil {
		cls = []clients.Client{}
	}
	if txs == nil {
		txs = []transactions.Transaction{}
	}
	return Data{Products: prods, Clients: cls, Transactions: txs}, nil
}

func (s *Service) overwrite(ctx context.Context, userID string, data Data) error {
	err := s.store.SetMulti(ctx, map[string]any{
		products.Key(userID):     data.Products,
		clients.Key(userID):      data.Clients,
		transactions.Key(userID): data.Transactions,
	})
	if err != nil {
		return err
	}
	for _, inv := range s.invalidators {
		if inv == nil {
			continue
		}
		if bumpErr := inv.Bump(ctx, userID); bumpErr != nil && s.logger != nil {
			s.logger.Warn("invalidate after overwrite", slog.String("user", userID), slog.Any("error", bumpErr))
		}
	}
	return nil
}

type importPayload struct {
	Metadata json.RawMessage `json:"metadata"`
	Data     *importData     `json:"data"`
}

type importData struct {
	Products     json.RawMessage `json:"products"`
	Clients      json.RawMessage `json:"clients"`
	Transactions json.RawMessage `json:"transactions"`
}

func parseAndValidate(raw []byte) (Data, error) {
	var payload importPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Data{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if len(payload.Metadata) == 0 || isJSONNull(payload.Metadata) || payload.Data == nil {
		return Data{}, fmt.Errorf("%w: metadata and data are required", shared.ErrValidation)
	}

	var data Data
	if err := unmarshalArray(payload.Data.Products, &data.Products, "data.products"); err != nil {
		return Data{}, err
	}
	if err := unmarshalArray(payload.Data.Clients, &data.Clients, "data.clients"); err != nil {
		return Data{}, err
	}
	if err := unmarshalArray(payload.Data.Transactions, &data.Transactions, "data.transactions"); err != nil {
		return Data{}, err
	}

	for i, p := range data.Products {
		if p.Name == "" {
			return Data{}, fmt.Errorf("%w: product %d missing name", shared.ErrValidation, i)
		}
	}
	for i, c := range data.Clients {
		if c.Name == "" {
			return Data{}, fmt.Errorf("%w: client %d missing name", shared.ErrValidation, i)
		}
	}
	for i, tx := range data.Transactions {
		if tx.Type == "" {
			return Data{}, fmt.Errorf("%w: transaction %d missing type", shared.ErrValidation, i)
		}
		// Adjustments may legitimately set stock to zero.
		if tx.Quantity == 0 && tx.Type != transactions.TypeAdjustment {
			return Data{}, fmt.Errorf("%w: transaction %d missing quantity", shared.ErrValidation, i)
		}
	}
	return data, nil
}

// unmarshalArray rejects both non-array values and records whose numeric
// fields carry the wrong JSON type. JSON null unmarshals to nil without an
// error, so it is rejected up front.
func unmarshalArray[T any](raw json.RawMessage, dest *[]T, field string) error {
	if len(raw) == 0 || isJSONNull(raw) {
		return fmt.Errorf("%w: %s must be an array", shared.ErrValidation, field)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrValidation, field, err)
	}
	if *dest == nil {
		*dest = []T{}
	}
	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
