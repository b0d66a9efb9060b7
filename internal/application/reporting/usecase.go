// Package reporting genera resúmenes de inventario: valor, niveles de stock, stock bajo e historial.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/ports"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Notifier envía una alerta agrupada; devuelve true si se entregó (lo implementa LowStockAlerter).
type Notifier interface {
	Notify(ctx context.Context, products []*entity.Product) bool
}

// ReportUseCase consultas de solo lectura sobre catálogo e historial.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	historyRepo repository.InventoryHistoryRepository
	reportRepo  repository.ReportRepository
	notifier    Notifier
	renderer    ports.ReportRenderer
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. notifier y renderer pueden ser nil.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
	reportRepo repository.ReportRepository,
	notifier Notifier,
	renderer ports.ReportRenderer,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo: productRepo,
		historyRepo: historyRepo,
		reportRepo:  reportRepo,
		notifier:    notifier,
		renderer:    renderer,
		now:         time.Now,
	}
}

// LowStock devuelve los productos con stock_quantity < threshold y, si hay alguno,
// envía una sola notificación con todos ellos.
func (uc *ReportUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	list, err := uc.productRepo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock bajo: %w", err)
	}
	notified := false
	if len(list) > 0 && uc.notifier != nil {
		notified = uc.notifier.Notify(ctx, list)
	}
	return &dto.LowStockResponse{
		Total:    len(list),
		Notified: notified,
		Products: usecase.ToProductResponses(list),
	}, nil
}

// InventoryValue suma price × stock_quantity sobre todos los productos (0 si no hay productos).
func (uc *ReportUseCase) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	totals, err := uc.reportRepo.InventoryTotals(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.TotalValue, nil
}

// StockLevel suma stock_quantity sobre todos los productos (0 si no hay productos).
func (uc *ReportUseCase) StockLevel(ctx context.Context) (int64, error) {
	totals, err := uc.reportRepo.InventoryTotals(ctx)
	if err != nil {
		return 0, err
	}
	return totals.TotalStock, nil
}

// History devuelve el historial en el rango inclusivo [start, end], del más reciente al más antiguo.
// Cualquiera de los dos extremos puede omitirse.
func (uc *ReportUseCase) History(ctx context.Context, startStr, endStr string) ([]dto.HistoryResponse, error) {
	from, to, err := ParsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}
	list, err := uc.historyRepo.List(ctx, repository.HistoryFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	return inventory.ToHistoryResponses(list), nil
}

// InventoryReport combina los agregados actuales con el historial del período.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, in dto.ReportRequest) (*dto.InventoryReportResponse, error) {
	history, err := uc.History(ctx, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	totals, err := uc.reportRepo.InventoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("totales de inventario: %w", err)
	}
	return &dto.InventoryReportResponse{
		GeneratedAt:         uc.now(),
		Period:              dto.PeriodDTO{StartDate: in.StartDate, EndDate: in.EndDate},
		TotalInventoryValue: totals.TotalValue.Round(2),
		TotalStock:          totals.TotalStock,
		ProductCount:        totals.ProductCount,
		LowStockCount:       totals.LowStockCount,
		History:             history,
	}, nil
}

// InventoryReportPDF genera el reporte y lo renderiza como PDF junto con el listado de productos.
func (uc *ReportUseCase) InventoryReportPDF(ctx context.Context, in dto.ReportRequest) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	report, err := uc.InventoryReport(ctx, in)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderInventoryReport(ctx, report, products)
}

// ParsePeriod interpreta start_date/end_date (YYYY-MM-DD). end_date incluye todo el día.
// Un extremo vacío queda en nil (rango abierto).
func ParsePeriod(startStr, endStr string) (from, to *time.Time, err error) {
	if startStr != "" {
		start, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
		if err != nil {
			return nil, nil, domain.NewValidationError("start_date", "formato inválido, se espera YYYY-MM-DD")
		}
		from = &start
	}
	if endStr != "" {
		end, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
		if err != nil {
			return nil, nil, domain.NewValidationError("end_date", "formato inválido, se espera YYYY-MM-DD")
		}
		end = end.Add(24*time.Hour - time.Nanosecond) // inclusive hasta el final del día
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, domain.NewValidationError("start_date", "no puede ser posterior a end_date")
	}
	return from, to, nil
}
