package entity

import "time"

// HistoryAction acción registrada en el historial de inventario.
type HistoryAction string

const (
	HistoryActionAdd    HistoryAction = "add"    // entrada de stock
	HistoryActionRemove HistoryAction = "remove" // salida de stock
	HistoryActionUpdate HistoryAction = "update" // cambio sin efecto en cantidad
)

// ClassifyDelta clasifica un delta de stock solo por su signo.
func ClassifyDelta(delta int) HistoryAction {
	switch {
	case delta > 0:
		return HistoryActionAdd
	case delta < 0:
		return HistoryActionRemove
	default:
		return HistoryActionUpdate
	}
}

// InventoryHistory registro inmutable de un cambio de stock.
type InventoryHistory struct {
	ID              string
	ProductID       string
	UserID          *string // nil = sistema (o usuario eliminado)
	Action          HistoryAction
	QuantityChanged int
	Timestamp       time.Time
}
