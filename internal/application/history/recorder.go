// Package history implementa el registro (escritura) y las consultas del historial de productos.
package history

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	domhistory "github.com/jhoicas/stock-tracker-api/internal/domain/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

// Recorder agrega una entrada inmutable por cada mutación de un producto.
// Se construye sobre el repositorio de la transacción en curso para que el
// registro y la mutación se confirmen o reviertan juntos.
type Recorder struct {
	repo repository.HistoryRepository
}

// NewRecorder construye el registrador sobre un repositorio (pool o tx).
func NewRecorder(repo repository.HistoryRepository) *Recorder {
	return &Recorder{repo: repo}
}

// LogCreate registra la creación de item.
func (r *Recorder) LogCreate(ctx context.Context, item *entity.StockItem) (*entity.HistoryEntry, error) {
	return r.append(ctx, domhistory.NewCreateEntry(item))
}

// LogUpdate registra la edición oldItem -> newItem. oldItem debe leerse antes de aplicar la mutación.
func (r *Recorder) LogUpdate(ctx context.Context, oldItem, newItem *entity.StockItem) (*entity.HistoryEntry, error) {
	return r.append(ctx, domhistory.NewUpdateEntry(oldItem, newItem))
}

// LogDelete registra la eliminación de item. Debe llamarse antes de borrar la fila.
func (r *Recorder) LogDelete(ctx context.Context, item *entity.StockItem) (*entity.HistoryEntry, error) {
	return r.append(ctx, domhistory.NewDeleteEntry(item))
}

func (r *Recorder) append(ctx context.Context, entry *entity.HistoryEntry) (*entity.HistoryEntry, error) {
	if err := r.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("registrar historial %s de %s: %w", entry.Action, entry.StockItemID, err)
	}
	return entry, nil
}
