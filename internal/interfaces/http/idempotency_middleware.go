package http

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// HeaderIdempotencyKey header opcional para reintentos seguros.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// Idempotency procesa Idempotency-Key en métodos que modifican estado.
// La primera respuesta completada (status < 500) se guarda y se repite tal cual;
// reutilizar la clave con otra petición responde 409.
func Idempotency(repo repository.IdempotencyRepository, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}
		key := utils.CopyString(strings.TrimSpace(c.Get(HeaderIdempotencyKey)))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}

		path := utils.CopyString(c.OriginalURL())
		reqHash := requestHash(method, path, c.Body())
		ctx := c.Context()

		rec := &entity.IdempotencyKey{
			Key:         key,
			RequestHash: reqHash,
			Method:      method,
			Path:        path,
			CreatedAt:   time.Now().UTC(),
		}
		err := repo.CreatePending(ctx, rec)
		if err != nil {
			if !errors.Is(err, domain.ErrConstraintViolation) {
				return writeError(c, err)
			}
			existing, gerr := repo.Get(ctx, key)
			if gerr != nil {
				return writeError(c, gerr)
			}
			if existing == nil {
				return writeError(c, err)
			}
			if existing.RequestHash != reqHash {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_CONFLICT", Message: "Idempotency-Key reutilizada con otra petición"})
			}
			if !existing.Completed() {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la petición con esta Idempotency-Key sigue en curso"})
			}
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		if err := c.Next(); err != nil {
			if rerr := repo.Release(ctx, key); rerr != nil {
				log.Warn().Err(rerr).Str("key", key).Msg("no se pudo liberar Idempotency-Key")
			}
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if rerr := repo.Release(ctx, key); rerr != nil {
				log.Warn().Err(rerr).Str("key", key).Msg("no se pudo liberar Idempotency-Key")
			}
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		if cerr := repo.Complete(ctx, key, status, body); cerr != nil {
			log.Warn().Err(cerr).Str("key", key).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

// requestHash sha256 determinista de method|path|body.
func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
