package transactions

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

type fixture struct {
	txs      *Service
	products *products.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := store.NewRedisStore(client)
	productRepo := products.NewRepository(kv)
	return fixture{
		txs:      NewService(nil, NewRepository(kv), productRepo, nil),
		products: products.NewService(productRepo),
	}
}

func seedProduct(t *testing.T, f fixture, quantity int) products.Product {
	t.Helper()
	p, err := f.products.Add(context.Background(), "u1", products.CreateProductRequest{
		Name: "Notebook", Category: "Eletrônicos", Cost: 2500, SalePrice: 3500, Quantity: quantity, MinStock: 2,
	})
	require.NoError(t, err)
	return p
}

func TestSaleDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	tx, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: 3, UnitPrice: 3500, PaymentStatus: "paid"})
	require.NoError(t, err)
	require.InDelta(t, 10500, tx.Total, 0.001)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.Quantity)
}

func TestPurchaseIncrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypePurchase, ProductID: p.ID, Quantity: 5, UnitPrice: 2500})
	require.NoError(t, err)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 15, got.Quantity)
}

func TestAdjustmentSetsStockDirectly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeAdjustment, ProductID: p.ID, Quantity: 42})
	require.NoError(t, err)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 42, got.Quantity)
}

func TestAddRequiresExistingProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.txs.Add(context.Background(), "u1", CreateTransactionRequest{Type: TypeSale, ProductID: 999, Quantity: 1, UnitPrice: 10})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddRequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.txs.Add(context.Background(), "", CreateTransactionRequest{Type: TypeSale, ProductID: 1, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTransactionsKeptMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	first, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: 1, UnitPrice: 10})
	require.NoError(t, err)
	second, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: 1, UnitPrice: 10})
	require.NoError(t, err)

	list, err := f.txs.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}

func TestDeleteLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	tx, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: 4, UnitPrice: 10})
	require.NoError(t, err)
	require.NoError(t, f.txs.Delete(ctx, "u1", tx.ID))

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 6, got.Quantity)

	list, err := f.txs.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUpdatePatchesPaymentStatusOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	tx, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: 2, UnitPrice: 10, PaymentStatus: "pending"})
	require.NoError(t, err)

	paid := "paid"
	updated, err := f.txs.Update(ctx, "u1", tx.ID, UpdateTransactionRequest{PaymentStatus: &paid})
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, updated.PaymentStatus)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 8, got.Quantity)
}

func TestSaleRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	for _, qty := range []int{0, -3} {
		_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeSale, ProductID: p.ID, Quantity: qty, UnitPrice: 3500})
		require.ErrorIs(t, err, shared.ErrValidation)
	}

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Quantity)

	txs, err := f.txs.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypePurchase, ProductID: p.ID, Quantity: -5, UnitPrice: 2500})
	require.ErrorIs(t, err, shared.ErrValidation)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Quantity)
}

func TestAdjustmentToZeroClearsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeAdjustment, ProductID: p.ID, Quantity: 0})
	require.NoError(t, err)

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestAdjustmentRejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f, 10)

	_, err := f.txs.Add(ctx, "u1", CreateTransactionRequest{Type: TypeAdjustment, ProductID: p.ID, Quantity: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRequestQuantityValidation(t *testing.T) {
	v := validator.New()

	req := CreateTransactionRequest{Type: TypeAdjustment, ProductID: 1, Quantity: 0, UnitPrice: 0}
	require.NoError(t, v.Struct(req))

	req.Quantity = -3
	require.Error(t, v.Struct(req))
}
