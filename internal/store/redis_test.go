package store

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	var out []string
	ok, err := s.Get(context.Background(), "products_u1", &out)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, out)
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := map[string][]string{"Eletrônicos": {"Celulares", "Acessórios"}}
	require.NoError(t, s.Set(ctx, "subcategories_u1", in))

	var out map[string][]string
	ok, err := s.Get(ctx, "subcategories_u1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)
}

func TestSetMultiCommitsAllKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SetMulti(ctx, map[string]any{
		"transactions_u1": []int{1, 2},
		"products_u1":     []int{3},
	})
	require.NoError(t, err)

	var txs, prods []int
	ok, err := s.Get(ctx, "transactions_u1", &txs)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, txs)
	ok, err = s.Get(ctx, "products_u1", &prods)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{3}, prods)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "clients_u1", []string{"a"}))
	require.NoError(t, s.Delete(ctx, "clients_u1"))
	require.NoError(t, s.Delete(ctx, "clients_u1"))

	var out []string
	ok, err := s.Get(ctx, "clients_u1", &out)
	require.NoError(t, err)
	require.False(t, ok)
}
