package finance

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
)

// TransactionPort exposes the transaction collection to the aggregator.
type TransactionPort interface {
	List(ctx context.Context, userID string) ([]transactions.Transaction, error)
}

// Service computes and caches financial summaries. Concurrent requests for
// the same window share one computation.
type Service struct {
	txs   TransactionPort
	cache *Cache
	group singleflight.Group
}

// NewService builds Service. cache may be nil to disable caching.
func NewService(txs TransactionPort, cache *Cache) *Service {
	return &Service{txs: txs, cache: cache}
}

// Summary returns the financial summary for the user, optionally restricted
// to an inclusive date window. Derivation failures yield a zeroed summary
// rather than an error; only the unauthenticated precondition is surfaced.
func (s *Service) Summary(ctx context.Context, userID string, start, end *time.Time) (Summary, error) {
	if userID == "" {
		return Summary{}, shared.ErrUnauthenticated
	}
	key, err := s.cache.BuildKey(ctx, userID, windowPart(start), windowPart(end))
	if err != nil {
		// Cache being unreachable never blocks the derivation.
		return s.compute(ctx, userID, start, end), nil
	}
	result, err, _ := s.group.Do(key, func() (any, error) {
		var summary Summary
		err := s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
			return s.compute(ctx, userID, start, end), nil
		})
		return summary, err
	})
	if err != nil {
		return s.compute(ctx, userID, start, end), nil
	}
	return result.(Summary), nil
}

func (s *Service) compute(ctx context.Context, userID string, start, end *time.Time) Summary {
	txs, err := s.txs.List(ctx, userID)
	if err != nil {
		return Summary{}
	}
	return Summarize(txs, start, end)
}

func windowPart(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
