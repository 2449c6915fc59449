package postgres

import (
	"context"

	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit.
// Cualquier error de fn (o del commit) deja la base como estaba.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	history repository.HistoryRepository,
) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}
