package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "pg " + code})
}

func TestMapWriteError(t *testing.T) {
	driverErr := errors.New("conexión cerrada")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"único", pgErr(codeUniqueViolation), domain.ErrDuplicate},
		{"clave foránea", pgErr(codeForeignKeyViolation), domain.ErrNotFound},
		{"check", pgErr(codeCheckViolation), domain.ErrInvalidInput},
		{"fuera de rango numérico", pgErr(codeNumericOutOfRange), domain.ErrInvalidInput},
		{"error del driver", driverErr, driverErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError("insert product", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NotErrorIs(t, mapWriteError("x", driverErr), domain.ErrInvalidInput)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, isNoRows(pgErr(codeInvalidTextRepr)), "un id que no es UUID no existe")
	assert.False(t, isNoRows(pgErr(codeUniqueViolation)))
	assert.False(t, isNoRows(errors.New("timeout")))
}

// fakeQuerier registra las sentencias y devuelve errores configurados.
type fakeQuerier struct {
	sql     []string
	rowErr  error
	execErr error
	tag     pgconn.CommandTag
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (f *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	return f.tag, f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.sql = append(f.sql, sql)
	return nil, errors.New("no soportado")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	return errRow{err: f.rowErr}
}

func TestProductRepo_GetForUpdateBloqueaLaFila(t *testing.T) {
	q := &fakeQuerier{rowErr: pgx.ErrNoRows}
	repo := NewProductRepository(q)

	p, err := repo.GetForUpdate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
	require.Len(t, q.sql, 1)
	assert.Contains(t, q.sql[0], "FOR UPDATE")

	_, err = repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotContains(t, q.sql[1], "FOR UPDATE")
}

func TestProductRepo_GetByIDConIDMalformado(t *testing.T) {
	repo := NewProductRepository(&fakeQuerier{rowErr: pgErr(codeInvalidTextRepr)})
	p, err := repo.GetByID(context.Background(), "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, p)

	repo = NewProductRepository(&fakeQuerier{rowErr: errors.New("timeout")})
	_, err = repo.GetByID(context.Background(), "p1")
	assert.Error(t, err)
}

func TestProductRepo_UpdateErrores(t *testing.T) {
	p := &entity.Product{ID: "p1", Name: "Tornillo", Price: decimal.NewFromInt(1)}

	repo := NewProductRepository(&fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")})
	assert.ErrorIs(t, repo.Update(context.Background(), p), domain.ErrNotFound)

	repo = NewProductRepository(&fakeQuerier{execErr: pgErr(codeNumericOutOfRange)})
	assert.ErrorIs(t, repo.Update(context.Background(), p), domain.ErrInvalidInput)

	repo = NewProductRepository(&fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")})
	assert.NoError(t, repo.Update(context.Background(), p))
}

func TestOrderRepo_AddItemFueraDeRango(t *testing.T) {
	repo := NewOrderRepository(&fakeQuerier{execErr: pgErr(codeNumericOutOfRange)})
	err := repo.AddItem(context.Background(), &entity.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
