package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// UserTokenRepository guarda el token activo por usuario.
type UserTokenRepository interface {
	// Save crea o reemplaza el token del usuario.
	Save(ctx context.Context, token *entity.UserToken) error
	GetByUserID(ctx context.Context, userID string) (*entity.UserToken, error)
	Delete(ctx context.Context, userID string) error
}
