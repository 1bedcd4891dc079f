package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/domain"
)

// paramOverrides lee lead_time_days, window y z de la query. Ausentes = valor por defecto.
func paramOverrides(c *fiber.Ctx) (inventory.ParamOverrides, error) {
	var o inventory.ParamOverrides
	var err error
	if o.LeadTimeDays, err = queryInt(c, "lead_time_days"); err != nil {
		return o, err
	}
	if o.Window, err = queryInt(c, "window"); err != nil {
		return o, err
	}
	if raw := c.Query("z"); raw != "" {
		z, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return o, fmt.Errorf("%w: z debe ser numérico (recibido %q)", domain.ErrInvalidInput, raw)
		}
		o.Z = &z
	}
	return o, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser entero (recibido %q)", domain.ErrInvalidInput, key, raw)
	}
	return &n, nil
}

// bindRequest llena in desde la query y luego desde el cuerpo JSON si lo hay;
// el cuerpo tiene precedencia.
func bindRequest(c *fiber.Ctx, in any) error {
	if err := c.QueryParser(in); err != nil {
		return err
	}
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(in)
}
