package memory

import (
	"context"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
)

// Status reporta el almacenamiento en memoria como conectado, con las "tablas" siempre presentes.
func (s *Store) Status(ctx context.Context) (*dto.DatabaseStatusResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &dto.DatabaseStatusResponse{
		Status:             "connected",
		Database:           "memory",
		StockTableExists:   true,
		HistoryTableExists: true,
	}, nil
}

// Migrate no tiene nada que aplicar en memoria.
func (s *Store) Migrate(ctx context.Context) (*dto.SetupResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &dto.SetupResponse{Status: "up_to_date"}, nil
}
