package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
)

// DiagnosticsDB pool con Ping, para poder sustituirlo en pruebas.
type DiagnosticsDB interface {
	Querier
	Ping(ctx context.Context) error
}

// Inspector reporta el estado de la base para /api/health/db.
type Inspector struct {
	db DiagnosticsDB
}

// NewInspector construye el inspector.
func NewInspector(db DiagnosticsDB) *Inspector {
	return &Inspector{db: db}
}

// Status hace ping y revisa versión del servidor, tablas y versión del esquema.
// Un ping fallido no es error: se reporta con Status "error".
func (i *Inspector) Status(ctx context.Context) (*dto.DatabaseStatusResponse, error) {
	out := &dto.DatabaseStatusResponse{Database: "postgres", Status: "error"}

	start := time.Now()
	if err := i.db.Ping(ctx); err != nil {
		return out, nil
	}
	out.LatencyMs = time.Since(start).Milliseconds()
	out.Status = "connected"

	if err := i.db.QueryRow(ctx, `SHOW server_version`).Scan(&out.ServerVersion); err != nil {
		return nil, mapError(err, "server version")
	}

	var gooseTable bool
	err := i.db.QueryRow(ctx, `
		SELECT to_regclass('public.stock_items') IS NOT NULL,
		       to_regclass('public.stock_history') IS NOT NULL,
		       to_regclass('public.goose_db_version') IS NOT NULL`,
	).Scan(&out.StockTableExists, &out.HistoryTableExists, &gooseTable)
	if err != nil {
		return nil, mapError(err, "check tables")
	}

	if gooseTable {
		err := i.db.QueryRow(ctx,
			`SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied`,
		).Scan(&out.SchemaVersion)
		if err != nil {
			return nil, mapError(err, "schema version")
		}
	}
	return out, nil
}
