package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID cabecera con el id de la petición (se respeta si el cliente la envía).
const HeaderRequestID = "X-Request-ID"

// UseMiddleware registra el log de peticiones y, dentro de él, la recuperación de panics,
// de modo que un panic también queda registrado con su 500.
func UseMiddleware(app *fiber.App, log zerolog.Logger) {
	app.Use(RequestLogger(log))
	app.Use(recover.New())
}

// RequestLogger registra cada petición con su id, status y duración.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(HeaderRequestID, reqID)
		c.Locals("request_id", reqID)

		err := c.Next()
		if err != nil {
			// Se responde aquí para registrar el status real.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
