// Package lowstock derives low-stock alerts from the product collection and
// keeps one-time notifications deduplicated per product.
package lowstock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

// maxNotifications bounds the retained notification feed per user.
const maxNotifications = 50

// NotifiedKey returns the key holding the already-notified product id set.
func NotifiedKey(userID string) string {
	return fmt.Sprintf("notified_low_stock_%s", userID)
}

// NotificationsKey returns the key holding the user's notification feed.
func NotificationsKey(userID string) string {
	return fmt.Sprintf("notifications_%s", userID)
}

// Notification is a one-time low-stock alert surfaced to the user. Delivery
// rendering stays outside this package.
type Notification struct {
	ID          string    `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductPort exposes the product collection to the monitor.
type ProductPort interface {
	List(ctx context.Context, userID string) ([]products.Product, error)
}

// GaugeSetter records the current alert count per user, typically backed by
// a prometheus gauge.
type GaugeSetter interface {
	SetLowStock(userID string, count int)
}

// Monitor recomputes alerts and dedups notifications. The notified set is
// replaced wholesale on every refresh, so a product that recovers and then
// drops again is notified again.
type Monitor struct {
	logger   *slog.Logger
	store    store.Store
	products ProductPort
	gauge    GaugeSetter
}

// NewMonitor builds Monitor. gauge may be nil.
func NewMonitor(logger *slog.Logger, s store.Store, productRepo ProductPort, gauge GaugeSetter) *Monitor {
	return &Monitor{logger: logger, store: s, products: productRepo, gauge: gauge}
}

// Alerts derives the current low-stock products. Failures yield an empty
// list, never an error surfaced to presentation.
func (m *Monitor) Alerts(ctx context.Context, userID string) []products.Product {
	if userID == "" {
		return []products.Product{}
	}
	items, err := m.products.List(ctx, userID)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("load products for alerts", slog.String("user", userID), slog.Any("error", err))
		}
		return []products.Product{}
	}
	alerts := []products.Product{}
	for _, p := range items {
		if p.LowOnStock() {
			alerts = append(alerts, p)
		}
	}
	return alerts
}

// Refresh recomputes alerts, emits one notification per newly alerted
// product and replaces the notified set. It returns the new notifications.
func (m *Monitor) Refresh(ctx context.Context, userID string) ([]Notification, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	alerts := m.Alerts(ctx, userID)
	if m.gauge != nil {
		m.gauge.SetLowStock(userID, len(alerts))
	}

	var notified []int64
	if _, err := m.store.Get(ctx, NotifiedKey(userID), &notified); err != nil {
		return nil, err
	}
	known := make(map[int64]struct{}, len(notified))
	for _, id := range notified {
		known[id] = struct{}{}
	}

	now := time.Now().UTC()
	var fresh []Notification
	current := make([]int64, 0, len(alerts))
	for _, p := range alerts {
		current = append(current, p.ID)
		if _, ok := known[p.ID]; ok {
			continue
		}
		fresh = append(fresh, Notification{
			ID:          uuid.NewString(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    p.Quantity,
			MinStock:    p.MinStock,
			CreatedAt:   now,
		})
	}

	// Membership comparison, not positional: a reordering of the same ids
	// must not count as a change.
	if !sameMembers(notified, current) {
		if err := m.store.Set(ctx, NotifiedKey(userID), current); err != nil {
			return nil, err
		}
	}

	if len(fresh) > 0 {
		if err := m.appendNotifications(ctx, userID, fresh); err != nil {
			return nil, err
		}
		if m.logger != nil {
			m.logger.Info("low stock notifications", slog.String("user", userID), slog.Int("count", len(fresh)))
		}
	}
	return fresh, nil
}

// Bump recomputes alerts after an entity mutation. It satisfies the
// invalidator hook the product and transaction services call on every write.
func (m *Monitor) Bump(ctx context.Context, userID string) error {
	_, err := m.Refresh(ctx, userID)
	return err
}

// Notifications returns the user's notification feed, newest first.
func (m *Monitor) Notifications(ctx context.Context, userID string) ([]Notification, error) {
	if userID == "" {
		return nil, shared.ErrUnauthenticated
	}
	var feed []Notification
	if _, err := m.store.Get(ctx, NotificationsKey(userID), &feed); err != nil {
		return nil, err
	}
	if feed == nil {
		feed = []Notification{}
	}
	return feed, nil
}

func (m *Monitor) appendNotifications(ctx context.Context, userID string, fresh []Notification) error {
	var feed []Notification
	if _, err := m.store.Get(ctx, NotificationsKey(userID), &feed); err != nil {
		return err
	}
	feed = append(fresh, feed...)
	if len(feed) > maxNotifications {
		feed = feed[:maxNotifications]
	}
	return m.store.Set(ctx, NotificationsKey(userID), feed)
}

func sameMembers(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}
