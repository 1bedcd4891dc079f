package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrLedgerRead es recuperable: quien lee sustituye la cantidad por cero para ese producto.
	ErrLedgerRead = errors.New("lectura del ledger fallida")
	// ErrLedgerWrite no se recupera localmente: se devuelve al llamador como operación fallida.
	ErrLedgerWrite = errors.New("escritura en el ledger fallida")
	// ErrLedgerUnavailable indica que no hay ledger configurado o el nodo no responde.
	ErrLedgerUnavailable = errors.New("ledger no disponible")
)
