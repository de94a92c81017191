package taxonomy

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
)

type fixture struct {
	taxonomy *Service
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
		taxonomy: NewService(NewRepository(kv), productRepo),
		products: products.NewService(productRepo),
	}
}

func TestAddCategoryRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Eletrônicos"))
	err := f.taxonomy.AddCategory(ctx, "u1", "Eletrônicos")
	require.ErrorIs(t, err, shared.ErrConflict)

	tax, err := f.taxonomy.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tax.Categories, 1)
}

func TestCategoryNamesAreCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Papelaria"))
	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "papelaria"))

	tax, err := f.taxonomy.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tax.Categories, 2)
}

func TestAddSubcategoryRequiresCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.taxonomy.AddSubcategory(ctx, "u1", "Eletrônicos", "Celulares")
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Eletrônicos"))
	require.NoError(t, f.taxonomy.AddSubcategory(ctx, "u1", "Eletrônicos", "Celulares"))
	err = f.taxonomy.AddSubcategory(ctx, "u1", "Eletrônicos", "Celulares")
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestRenameCategoryCascadesIntoProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "A"))
	require.NoError(t, f.taxonomy.AddSubcategory(ctx, "u1", "A", "A1"))
	p, err := f.products.Add(ctx, "u1", products.CreateProductRequest{Name: "Caderno", Category: "A", Subcategory: "A1"})
	require.NoError(t, err)

	require.NoError(t, f.taxonomy.RenameCategory(ctx, "u1", "A", "B"))

	tax, err := f.taxonomy.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotContains(t, tax.Categories, "A")
	require.Contains(t, tax.Categories, "B")
	require.Equal(t, []string{"A1"}, tax.Subcategories["B"])
	require.NotContains(t, tax.Subcategories, "A")

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, "B", got.Category)
}

func TestRenameCategoryConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "A"))
	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "B"))
	require.ErrorIs(t, f.taxonomy.RenameCategory(ctx, "u1", "A", "B"), shared.ErrConflict)
	require.NoError(t, f.taxonomy.RenameCategory(ctx, "u1", "A", "A"))
	require.ErrorIs(t, f.taxonomy.RenameCategory(ctx, "u1", "missing", "C"), shared.ErrNotFound)
}

func TestRenameSubcategoryCascadesIntoProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "A"))
	require.NoError(t, f.taxonomy.AddSubcategory(ctx, "u1", "A", "velho"))
	p, err := f.products.Add(ctx, "u1", products.CreateProductRequest{Name: "Lápis", Category: "A", Subcategory: "velho"})
	require.NoError(t, err)

	require.NoError(t, f.taxonomy.RenameSubcategory(ctx, "u1", "A", "velho", "novo"))

	tax, err := f.taxonomy.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"novo"}, tax.Subcategories["A"])

	got, err := f.products.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Equal(t, "novo", got.Subcategory)
}

func TestGetSortsCategoriesWithCollation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Çelular"))
	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Acessórios"))
	require.NoError(t, f.taxonomy.AddCategory(ctx, "u1", "Brinquedos"))

	tax, err := f.taxonomy.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"Acessórios", "Brinquedos", "Çelular"}, tax.Categories)
}
