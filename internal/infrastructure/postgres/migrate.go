package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator aplica las migraciones embebidas con goose.
type Migrator struct {
	pool *pgxpool.Pool
}

// NewMigrator construye el migrador sobre el pool.
func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

// Migrate aplica las migraciones pendientes. Es idempotente: sin pendientes devuelve up_to_date.
func (m *Migrator) Migrate(ctx context.Context) (*dto.SetupResponse, error) {
	provider, closeDB, err := m.provider()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, mapError(err, "goose up")
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, mapError(err, "goose version")
	}
	status := "up_to_date"
	if len(results) > 0 {
		status = "migrated"
	}
	return &dto.SetupResponse{Status: status, SchemaVersion: version, Applied: len(results)}, nil
}

func (m *Migrator) provider() (*goose.Provider, func(), error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("migrations fs: %w", err)
	}
	db := stdlib.OpenDBFromPool(m.pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, func() { _ = db.Close() }, nil
}
