package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
)

func tx(kind transactions.Type, status transactions.PaymentStatus, total float64, at time.Time) transactions.Transaction {
	return transactions.Transaction{Type: kind, PaymentStatus: status, Total: total, CreatedAt: at}
}

func TestSummarizeBasicAggregation(t *testing.T) {
	now := time.Now().UTC()
	txs := []transactions.Transaction{
		tx(transactions.TypeSale, transactions.PaymentPaid, 100, now),
		tx(transactions.TypeSale, transactions.PaymentPending, 50, now),
		tx(transactions.TypePurchase, transactions.PaymentPaid, 40, now),
	}

	s := Summarize(txs, nil, nil)
	require.InDelta(t, 100, s.TotalRevenue, 0.001)
	require.InDelta(t, 50, s.PendingReceivables, 0.001)
	require.InDelta(t, 40, s.TotalCosts, 0.001)
	require.InDelta(t, 60, s.Profit, 0.001)
	require.InDelta(t, 60, s.ProfitMargin, 0.001)
}

func TestSummarizeZeroRevenueHasZeroMargin(t *testing.T) {
	now := time.Now().UTC()
	s := Summarize([]transactions.Transaction{
		tx(transactions.TypePurchase, transactions.PaymentPaid, 40, now),
	}, nil, nil)
	require.InDelta(t, -40, s.Profit, 0.001)
	require.Zero(t, s.ProfitMargin)
}

func TestSummarizeDateWindowIsInclusive(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	txs := []transactions.Transaction{
		tx(transactions.TypeSale, transactions.PaymentPaid, 10, day(1)),
		tx(transactions.TypeSale, transactions.PaymentPaid, 20, day(2)),
		tx(transactions.TypeSale, transactions.PaymentPaid, 40, day(3)),
	}
	start := day(2)
	end := day(2)
	s := Summarize(txs, &start, &end)
	require.InDelta(t, 20, s.TotalRevenue, 0.001)
}

func TestSummarizeEmptyIsZeroed(t *testing.T) {
	require.Zero(t, Summarize(nil, nil, nil))
}

type stubTxRepo struct {
	txs   []transactions.Transaction
	err   error
	calls int
}

func (s *stubTxRepo) List(ctx context.Context, userID string) ([]transactions.Transaction, error) {
	s.calls++
	return s.txs, s.err
}

func newCachedService(t *testing.T, repo *stubTxRepo) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache), cache
}

func TestServiceCachesUntilBump(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubTxRepo{txs: []transactions.Transaction{tx(transactions.TypeSale, transactions.PaymentPaid, 100, now)}}
	svc, cache := newCachedService(t, repo)
	ctx := context.Background()

	first, err := svc.Summary(ctx, "u1", nil, nil)
	require.NoError(t, err)
	require.InDelta(t, 100, first.TotalRevenue, 0.001)

	repo.txs = append(repo.txs, tx(transactions.TypeSale, transactions.PaymentPaid, 100, now))
	cached, err := svc.Summary(ctx, "u1", nil, nil)
	require.NoError(t, err)
	require.InDelta(t, 100, cached.TotalRevenue, 0.001)

	require.NoError(t, cache.Bump(ctx, "u1"))
	fresh, err := svc.Summary(ctx, "u1", nil, nil)
	require.NoError(t, err)
	require.InDelta(t, 200, fresh.TotalRevenue, 0.001)
}

func TestServiceSwallowsRepoErrors(t *testing.T) {
	repo := &stubTxRepo{err: errors.New("boom")}
	svc, _ := newCachedService(t, repo)

	s, err := svc.Summary(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	require.Zero(t, s)
}

func TestServiceRequiresUser(t *testing.T) {
	repo := &stubTxRepo{}
	svc, _ := newCachedService(t, repo)
	_, err := svc.Summary(context.Background(), "", nil, nil)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func BenchmarkSummarize(b *testing.B) {
	now := time.Now().UTC()
	txs := make([]transactions.Transaction, 0, 10000)
	for i := 0; i < 10000; i++ {
		typ := transactions.TypeSale
		if i%3 == 0 {
			typ = transactions.TypePurchase
		}
		txs = append(txs, tx(typ, transactions.PaymentPaid, float64(i%100), now.Add(-time.Duration(i)*time.Minute)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Summarize(txs, nil, nil)
	}
}
