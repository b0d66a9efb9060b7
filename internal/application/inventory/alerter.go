package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/ports"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ ProductHook = (*LowStockAlerter)(nil)

// LowStockAlerter hook posterior a mutaciones de producto: si alguno quedó bajo su umbral
// envía una sola notificación. Los fallos de entrega solo se registran.
type LowStockAlerter struct {
	notifier ports.LowStockNotifier
	log      *logger.Logger
}

// NewLowStockAlerter construye el hook. notifier nil desactiva las notificaciones.
func NewLowStockAlerter(notifier ports.LowStockNotifier, log *logger.Logger) *LowStockAlerter {
	if log == nil {
		log = logger.Nop()
	}
	return &LowStockAlerter{notifier: notifier, log: log.Component("low_stock_alerter")}
}

// AfterProductChange notifica los productos que quedaron por debajo de su umbral.
func (a *LowStockAlerter) AfterProductChange(ctx context.Context, products ...*entity.Product) {
	var low []*entity.Product
	for _, p := range products {
		if p != nil && p.IsBelowThreshold() {
			low = append(low, p)
		}
	}
	a.Notify(ctx, low)
}

// Notify envía una notificación con todos los productos. Devuelve true si se entregó.
func (a *LowStockAlerter) Notify(ctx context.Context, products []*entity.Product) bool {
	if len(products) == 0 || a.notifier == nil {
		return false
	}
	if err := a.notifier.NotifyLowStock(ctx, products); err != nil {
		a.log.Error().Err(err).Int("products", len(products)).Msg("no se pudo enviar alerta de stock bajo")
		return false
	}
	a.log.Info().Int("products", len(products)).Msg("alerta de stock bajo enviada")
	return true
}
