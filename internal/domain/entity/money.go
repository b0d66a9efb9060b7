package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// MoneyScale decimales que admiten precios y totales (columnas NUMERIC(p,2)).
const MoneyScale = 2

var (
	// MaxPrice cota exclusiva de un precio: NUMERIC(10,2) llega a 99999999.99.
	MaxPrice = decimal.New(1, 8)
	// MaxOrderTotal cota exclusiva de total_amount: NUMERIC(12,2).
	MaxOrderTotal = decimal.New(1, 10)
)

// ValidatePrice exige un valor no negativo, con a lo sumo dos decimales y menor que MaxPrice.
// field es el nombre que se reporta en el ValidationError.
func ValidatePrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.NewValidationError(field, "debe ser un valor no negativo")
	}
	if !v.Equal(v.Round(MoneyScale)) {
		return domain.NewValidationError(field, "admite como máximo 2 decimales")
	}
	if v.GreaterThanOrEqual(MaxPrice) {
		return domain.NewValidationError(field, "debe ser menor que 100000000")
	}
	return nil
}
