package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestRenderInventoryReport_ProducesPDF(t *testing.T) {
	products := []*entity.Product{
		{ID: "p1", Name: "Tornillo", Price: decimal.NewFromInt(10), StockQuantity: 3, Threshold: 10},
		{ID: "p2", Name: "Tuerca", Price: decimal.NewFromInt(5), StockQuantity: 2, Threshold: 1},
	}
	report := &dto.InventoryReportResponse{
		GeneratedAt:         time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		Period:              dto.PeriodDTO{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		TotalInventoryValue: decimal.NewFromInt(40),
		TotalStock:          5,
		ProductCount:        2,
		LowStockCount:       1,
		History: []dto.HistoryResponse{
			{ID: "h1", ProductID: "p1", Action: "remove", QuantityChanged: -5, Timestamp: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
	}

	out, err := NewReportGenerator().RenderInventoryReport(context.Background(), report, products)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "todo el historial", periodLabel(dto.PeriodDTO{}))
	assert.Equal(t, "desde 2024-01-01", periodLabel(dto.PeriodDTO{StartDate: "2024-01-01"}))
	assert.Equal(t, "hasta 2024-01-31", periodLabel(dto.PeriodDTO{EndDate: "2024-01-31"}))
	assert.Equal(t, "2024-01-01 a 2024-01-31", periodLabel(dto.PeriodDTO{StartDate: "2024-01-01", EndDate: "2024-01-31"}))
}
