package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

func TestCategory_CRUD(t *testing.T) {
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories())
	ctx := context.Background()

	tools, err := uc.Create(ctx, dto.CategoryRequest{Name: "Herramientas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "Pinturas"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "herramientas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, tools.ID, dto.CategoryRequest{Name: "Pinturas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := uc.Update(ctx, tools.ID, dto.CategoryRequest{Name: "Herramientas manuales"})
	require.NoError(t, err)
	assert.Equal(t, "Herramientas manuales", out.Name)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, uc.Delete(ctx, tools.ID))
	_, err = uc.GetByID(ctx, tools.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategory_NombreInvalido(t *testing.T) {
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories())
	for _, name := range []string{"", "   ", strings.Repeat("x", 256)} {
		_, err := uc.Create(context.Background(), dto.CategoryRequest{Name: name})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSupplier_EmailPorDefectoYValidaciones(t *testing.T) {
	uc := usecase.NewSupplierUseCase(memory.NewStore().Suppliers())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.SupplierRequest{Name: "ACME", PhoneNumber: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSupplierEmail, out.Email)

	tests := []struct {
		name  string
		in    dto.SupplierRequest
		field string
	}{
		{"sin nombre", dto.SupplierRequest{}, "name"},
		{"teléfono largo", dto.SupplierRequest{Name: "A", PhoneNumber: "1234567890123456"}, "phone_number"},
		{"email inválido", dto.SupplierRequest{Name: "A", Email: "acme"}, "email"},
		{"dirección larga", dto.SupplierRequest{Name: "A", Address: strings.Repeat("x", 256)}, "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tt.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	updated, err := uc.Update(ctx, out.ID, dto.SupplierRequest{Name: "ACME SA", Email: "ventas@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "ventas@acme.test", updated.Email)

	require.NoError(t, uc.Delete(ctx, out.ID))
	assert.ErrorIs(t, uc.Delete(ctx, out.ID), domain.ErrNotFound)
}
