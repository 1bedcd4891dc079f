package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/pkg/logger"
)

// RequestLogger registra una línea por petición con método, ruta, estado y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError || err != nil {
			ev = log.Error().Err(err)
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", rid)
		}
		if op := GetOperatorID(c); op != "" {
			ev = ev.Str("operator_id", op)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
