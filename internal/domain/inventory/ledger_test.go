package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

func TestApplyDelta_ClasificaPorSigno(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		delta  int
		action entity.HistoryAction
		stock  int
	}{
		{7, entity.HistoryActionAdd, 17},
		{-4, entity.HistoryActionRemove, 6},
		{0, entity.HistoryActionUpdate, 10},
	}
	for _, c := range cases {
		p := &entity.Product{ID: "p1", StockQuantity: 10}
		h, err := inventory.ApplyDelta(p, c.delta, "u1", now)
		require.NoError(t, err)

		assert.Equal(t, c.stock, p.StockQuantity)
		assert.Equal(t, c.action, h.Action)
		assert.Equal(t, c.delta, h.QuantityChanged)
		assert.Equal(t, "p1", h.ProductID)
		require.NotNil(t, h.UserID)
		assert.Equal(t, "u1", *h.UserID)
		assert.Equal(t, now, h.Timestamp)
		assert.NotEmpty(t, h.ID)
	}
}

func TestApplyDelta_NoPermiteStockNegativo(t *testing.T) {
	p := &entity.Product{ID: "p1", StockQuantity: 3}
	h, err := inventory.ApplyDelta(p, -4, "", time.Now())

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, h)
	assert.Equal(t, 3, p.StockQuantity, "el producto no debe mutar")
}

func TestDeduct(t *testing.T) {
	p := &entity.Product{ID: "p1", StockQuantity: 20, Threshold: 10}
	h, err := inventory.Deduct(p, 5, "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 15, p.StockQuantity)
	assert.Equal(t, entity.HistoryActionRemove, h.Action)
	assert.Equal(t, -5, h.QuantityChanged)
	assert.Nil(t, h.UserID, "sin usuario el actor es el sistema")
	assert.False(t, p.IsBelowThreshold())

	_, err = inventory.Deduct(p, 16, "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 15, p.StockQuantity)

	_, err = inventory.Deduct(p, 0, "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
