package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// RequestLogger registra cada petición con zerolog: método, ruta, status, duración y actor.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = statusFor(err)
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		actor := GetActor(c)
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("actor_role", actor.Role).
			Str("actor_name", actor.Name).
			Msg("request")
		return err
	}
}
