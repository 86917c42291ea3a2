package http

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
)

var validate = validator.New()

// bindAndValidate parsea el cuerpo en dst y aplica las etiquetas validate.
// Cualquier falla se reporta como domain.ErrInvalidInput.
func bindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return nil
}

// pageFromQuery lee limit/offset con valores por defecto.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	if err := validate.Struct(page); err != nil {
		return page, fmt.Errorf("%w: paginación inválida", domain.ErrInvalidInput)
	}
	page.DefaultPage()
	return page, nil
}

// timeRangeFromQuery lee from/to como RFC3339 o YYYY-MM-DD. "to" en formato fecha incluye el día completo.
func timeRangeFromQuery(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseQueryTime(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseQueryTime(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseQueryTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q inválida", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
