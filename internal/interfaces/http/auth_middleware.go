package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/dto"
)

// LocalCUIT key en c.Locals del CUIT autenticado por WSAA.
const LocalCUIT = "wsaa_cuit"

// TokenAuthenticator valida un token WSAA y devuelve el CUIT.
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
	AuthRequired() bool
}

// AuthMiddleware lee el Bearer token WSAA y deja el CUIT en c.Locals.
// Si la autenticación no es obligatoria, un token ausente o inválido se ignora.
func AuthMiddleware(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		required := auth.AuthRequired()
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeMissingToken, Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeInvalidToken, Message: "formato: Bearer <token>"})
		}
		cuit, err := auth.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeInvalidToken, Message: "token inválido o expirado"})
		}
		c.Locals(LocalCUIT, cuit)
		return c.Next()
	}
}

// GetCUIT devuelve el CUIT autenticado (después del middleware de auth) o "".
func GetCUIT(c *fiber.Ctx) string {
	v := c.Locals(LocalCUIT)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
