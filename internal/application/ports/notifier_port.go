package ports

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// LowStockNotifier envía una alerta de stock bajo (un mensaje por invocación, con todos los productos).
// Las implementaciones no reintentan; el caller registra el error y continúa.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, products []*entity.Product) error
}

// ReportRenderer genera la representación PDF del reporte de inventario.
// products es el catálogo vigente (tabla de existencias y nombres para el historial).
type ReportRenderer interface {
	RenderInventoryReport(ctx context.Context, report *dto.InventoryReportResponse, products []*entity.Product) ([]byte, error)
}
