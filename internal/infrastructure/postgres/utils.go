package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/restock-api/internal/domain"
)

// isCheckViolation verifica si un error es una violación de constraint CHECK (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514" // check_violation
	}
	return false
}

// mapWriteError traduce los rechazos del esquema a errores de dominio.
func mapWriteError(op string, err error) error {
	if isCheckViolation(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
