package entity

import "time"

// Role rol de un usuario.
type Role string

// Roles válidos para User.
const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid indica si r es un rol conocido.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User principal autenticado; dueño de órdenes y actor en el historial.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserToken token activo de un usuario (uno por usuario; el login lo sobrescribe).
type UserToken struct {
	UserID    string
	Token     string
	CreatedAt time.Time
}
