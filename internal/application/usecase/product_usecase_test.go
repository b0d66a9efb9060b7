package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

type hookCounter struct{ products []*entity.Product }

func (h *hookCounter) AfterProductChange(_ context.Context, products ...*entity.Product) {
	h.products = append(h.products, products...)
}

func newProductUC(store *memory.Store, hook inventory.ProductHook) *usecase.ProductUseCase {
	ledger := inventory.NewLedgerUseCase(store, store.History(), nil)
	return usecase.NewProductUseCase(store.Products(), store.Categories(), store, ledger, hook)
}

func intPtr(v int) *int { return &v }

func productHistory(t *testing.T, store *memory.Store, id string) []*entity.InventoryHistory {
	t.Helper()
	list, err := store.History().List(context.Background(), repository.HistoryFilter{ProductID: id})
	require.NoError(t, err)
	return list
}

func TestProductCreate_StockInicialQuedaEnHistorial(t *testing.T) {
	store := memory.NewStore()
	hook := &hookCounter{}
	uc := newProductUC(store, hook)

	out, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name: "  Tornillo ", Price: decimal.RequireFromString("0.75"), StockQuantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", out.Name)
	assert.Equal(t, 20, out.StockQuantity)
	assert.Equal(t, entity.DefaultThreshold, out.Threshold)
	assert.False(t, out.IsBelowThreshold)

	hist := productHistory(t, store, out.ID)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryActionAdd, hist[0].Action)
	assert.Equal(t, 20, hist[0].QuantityChanged)
	require.Len(t, hook.products, 1)
}

func TestProductCreate_SinStockNoGeneraHistorial(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)

	out, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.True(t, out.IsBelowThreshold)
	assert.Empty(t, productHistory(t, store, out.ID))
}

func TestProductCreate_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)
	missing := "no-existe"

	tests := []struct {
		name  string
		in    dto.CreateProductRequest
		field string
	}{
		{"nombre vacío", dto.CreateProductRequest{Name: " ", Price: decimal.NewFromInt(1)}, "name"},
		{"precio negativo", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(-1)}, "price"},
		{"stock negativo", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: -1}, "stock_quantity"},
		{"umbral negativo", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), Threshold: intPtr(-1)}, "threshold"},
		{"precio con tres decimales", dto.CreateProductRequest{Name: "A", Price: decimal.RequireFromString("0.005")}, "price"},
		{"precio fuera de rango", dto.CreateProductRequest{Name: "A", Price: decimal.New(1, 8)}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "u1", tt.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	_, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), CategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound, "categoría inexistente")

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductUpdate_RegistraDeltaDeStock(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)
	created, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: 10})
	require.NoError(t, err)

	out, err := uc.Update(context.Background(), "u2", created.ID, dto.UpdateProductRequest{StockQuantity: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, out.StockQuantity)

	name := "B"
	out, err = uc.Update(context.Background(), "u2", created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "B", out.Name)

	hist := productHistory(t, store, created.ID)
	require.Len(t, hist, 3)
	assert.Equal(t, entity.HistoryActionUpdate, hist[0].Action)
	assert.Equal(t, 0, hist[0].QuantityChanged)
	assert.Equal(t, entity.HistoryActionRemove, hist[1].Action)
	assert.Equal(t, -6, hist[1].QuantityChanged)
	require.NotNil(t, hist[1].UserID)
	assert.Equal(t, "u2", *hist[1].UserID)
}

func TestProductUpdate_InvalidoNoModifica(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)
	created, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: 3})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), "u1", created.ID, dto.UpdateProductRequest{StockQuantity: intPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockQuantity)
	assert.Len(t, productHistory(t, store, created.ID), 1)

	_, err = uc.Update(context.Background(), "u1", "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCategoria_AsignarYLimpiar(t *testing.T) {
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	uc := newProductUC(store, nil)

	cat, err := categories.Create(context.Background(), dto.CategoryRequest{Name: "Ferretería"})
	require.NoError(t, err)
	p, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NotNil(t, p.CategoryID)

	out, err := uc.Update(context.Background(), "u1", p.ID, dto.UpdateProductRequest{ClearCategory: true})
	require.NoError(t, err)
	assert.Nil(t, out.CategoryID)

	_, err = uc.Update(context.Background(), "u1", p.ID, dto.UpdateProductRequest{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NoError(t, categories.Delete(context.Background(), cat.ID))
	got, err := uc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "eliminar la categoría deja el producto sin categoría")
}

func TestProductDelete_EliminaHistorial(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)
	p, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: 2})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), p.ID))
	assert.Empty(t, productHistory(t, store, p.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), p.ID), domain.ErrNotFound)
}

func TestProductList_MasRecientePrimero(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store, nil)
	for _, name := range []string{"A", "B", "C"} {
		_, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{Name: name, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[2].Name)
}
