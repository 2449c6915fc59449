package stock

import (
	"context"

	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que la mutación del producto y su entrada de historial se confirmen juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.StockItemRepository,
		history repository.HistoryRepository,
	) error) error
}
