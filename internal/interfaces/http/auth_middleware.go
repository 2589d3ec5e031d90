package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// LocalUserEmail clave en c.Locals del correo autenticado.
const LocalUserEmail = "user_email"

// AuthMiddleware valida el Bearer Token JWT y deja el correo del usuario en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized("header Authorization requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized("formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized("token vacío")
		}
		email, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized("token inválido o expirado")
		}
		c.Locals(LocalUserEmail, email)
		return c.Next()
	}
}

func unauthorized(msg string) error {
	return domain.NewError(fiber.StatusUnauthorized, domain.ErrUnauthorized, domain.Violation{
		Type: "auth", Msg: msg, Path: fiber.HeaderAuthorization, Location: "headers",
	})
}

// GetUserEmail devuelve el correo autenticado (vacío si la ruta no exige token).
func GetUserEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserEmail).(string)
	return s
}

// requireAuthor exige que el correo del cuerpo sea el del token. Sin autenticación no se compara.
func requireAuthor(c *fiber.Ctx, email string) error {
	authed := GetUserEmail(c)
	if authed == "" || strings.EqualFold(authed, strings.TrimSpace(email)) {
		return nil
	}
	return domain.NewError(fiber.StatusForbidden, domain.ErrUnauthorized, domain.Violation{
		Type: "field", Msg: "correo_usuario debe ser el del usuario autenticado", Value: email,
		Path: "correo_usuario", Location: domain.LocationBody,
	})
}
