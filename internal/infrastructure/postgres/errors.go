package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
)

// mapError traduce errores de pgx/pgconn a errores de dominio, conservando el original en el mensaje.
// Los errores de contexto pasan tal cual.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514", "22P02", "23502", "22003": // unique, check, invalid_text_representation, not_null, numeric_value_out_of_range
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// Sin PgError: el servidor no respondió (conexión, pool cerrado, red).
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUUID evita enviar a PostgreSQL identificadores que la columna uuid rechazaría.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
