package http

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// ErrorHandler centraliza las respuestas de error con el formato {"errors": [...]}.
// Los errores no clasificados se registran y se responden como 500 sin detalle interno.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if de, ok := domain.AsError(err); ok {
			return c.Status(de.Code).JSON(dto.ErrorsResponse{Errors: de.Violations})
		}

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make([]domain.Violation, 0, len(ve))
			for _, fe := range ve {
				out = append(out, domain.Violation{
					Type:     "field",
					Msg:      validationMessage(fe),
					Value:    fe.Value(),
					Path:     violationPath(fe.Namespace()),
					Location: domain.LocationBody,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: out})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorsResponse{Errors: []domain.Violation{{Type: "request", Msg: fe.Message}}})
		}

		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(errorBody("referencia no encontrada"))
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(errorBody("conflicto con el estado actual"))
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(errorBody("no autorizado"))
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody("error interno del servidor"))
	}
}

func errorBody(msg string) dto.ErrorsResponse {
	return dto.ErrorsResponse{Errors: []domain.Violation{{Type: "server", Msg: msg}}}
}

// violationPath quita el nombre del struct raíz y de los structs embebidos:
// "UpdateInvoiceRequest.CreateInvoiceRequest.precio_por_servicio[0].precio_neto" → "precio_por_servicio[0].precio_neto".
func violationPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "min":
		return "debe tener al menos " + fe.Param() + " elemento(s)"
	case "max":
		return "largo máximo " + fe.Param()
	case "email":
		return "correo inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	default:
		return fmt.Sprintf("valor inválido (%s)", fe.Tag())
	}
}
