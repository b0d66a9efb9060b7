package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// DefaultThreshold punto de reorden cuando no se especifica uno.
const DefaultThreshold = 10

// Product representa un producto del catálogo.
// StockQuantity solo cambia vía el libro de stock (ledger), que deja rastro en InventoryHistory.
type Product struct {
	ID            string
	Name          string
	Description   string
	CategoryID    *string // nil si no tiene categoría (o la categoría fue eliminada)
	Price         decimal.Decimal
	StockQuantity int
	Threshold     int // nivel de reorden
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBelowThreshold indica si el stock está por debajo del nivel de reorden.
func (p *Product) IsBelowThreshold() bool {
	return p.StockQuantity < p.Threshold
}

// Validate verifica los invariantes de campo antes de persistir.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "es requerido")
	}
	if len(p.Name) > 255 {
		return domain.NewValidationError("name", "máximo 255 caracteres")
	}
	if p.Threshold < 0 {
		return domain.NewValidationError("threshold", "debe ser un valor no negativo")
	}
	if err := ValidatePrice("price", p.Price); err != nil {
		return err
	}
	if p.StockQuantity < 0 {
		return domain.NewValidationError("stock_quantity", "debe ser un valor no negativo")
	}
	return nil
}

// StockValue devuelve price × stock_quantity.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}
