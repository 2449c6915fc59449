package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

// HistoryFilter criterios de búsqueda sobre el historial.
// Campos vacíos no filtran. Limit <= 0 significa sin límite.
type HistoryFilter struct {
	Actions     []entity.HistoryAction
	StartDate   *time.Time // inclusive sobre created_at
	EndDate     *time.Time // inclusive sobre created_at
	StockItemID string
	Limit       int
}

// HistoryRepository puerto de persistencia del historial. Solo permite agregar y leer:
// las entradas no se modifican ni se eliminan.
type HistoryRepository interface {
	// Append persiste la entrada y asigna ID y CreatedAt.
	Append(ctx context.Context, entry *entity.HistoryEntry) error
	// List devuelve las entradas más recientes primero, con StockItem adjunto si el producto existe.
	List(ctx context.Context, filter HistoryFilter) ([]*entity.HistoryEntry, error)
}
