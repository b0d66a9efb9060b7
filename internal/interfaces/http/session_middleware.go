package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// sessionChecker contrato mínimo para verificar que el token sigue activo.
// Lo implementa *auth.AuthUseCase; el uso de interfaz evita acoplar el middleware al caso de uso.
type sessionChecker interface {
	ValidateToken(ctx context.Context, userID, token string) (bool, error)
}

// RequireActiveSession rechaza tokens revocados (logout) o reemplazados por un login posterior.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID y LocalToken).
//   - 401 SESSION_REVOKED → el token ya no es el activo del usuario.
//   - 503 Service Unavailable → fallo de infraestructura al consultar el almacén.
func RequireActiveSession(checker sessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		active, err := checker.ValidateToken(c.UserContext(), userID, GetToken(c))
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("verificar sesión")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_CHECK_FAILED",
				Message: "no se pudo verificar la sesión, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "SESSION_REVOKED",
				Message: "la sesión fue cerrada o reemplazada por un nuevo login",
			})
		}
		return c.Next()
	}
}
