package entity

import "time"

// DefaultSupplierEmail se usa cuando el proveedor se registra sin email.
const DefaultSupplierEmail = "zakariamahamasaani@gmail.com"

// Supplier representa un proveedor. No se relaciona con Product.
type Supplier struct {
	ID          string
	Name        string
	PhoneNumber string
	Email       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
