// Package history contiene las reglas puras del historial de productos:
// construcción de entradas a partir de snapshots y el resumen de cantidades.
package history

import (
	"fmt"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

// NewCreateEntry construye la entrada CREATE: solo valores nuevos y +cantidad.
func NewCreateEntry(item *entity.StockItem) *entity.HistoryEntry {
	snap := item.Snapshot()
	change := item.Quantity
	return &entity.HistoryEntry{
		StockItemID:    item.ID,
		Action:         entity.HistoryActionCreate,
		NewValues:      &snap,
		QuantityChange: &change,
		Reason:         fmt.Sprintf("Nuevo producto agregado: %s", item.Name),
	}
}

// NewUpdateEntry construye la entrada de una edición. La acción se deriva del delta:
// delta != 0 -> QUANTITY_CHANGE con el delta; delta == 0 -> UPDATE sin QuantityChange.
func NewUpdateEntry(oldItem, newItem *entity.StockItem) *entity.HistoryEntry {
	oldSnap := oldItem.Snapshot()
	newSnap := newItem.Snapshot()
	entry := &entity.HistoryEntry{
		StockItemID: newItem.ID,
		OldValues:   &oldSnap,
		NewValues:   &newSnap,
	}

	delta := newItem.Quantity - oldItem.Quantity
	if delta != 0 {
		entry.Action = entity.HistoryActionQuantityChange
		entry.QuantityChange = &delta
		entry.Reason = fmt.Sprintf("Cambio de cantidad: %+d", delta)
		return entry
	}
	entry.Action = entity.HistoryActionUpdate
	entry.Reason = fmt.Sprintf("Información del producto actualizada: %s", newItem.Name)
	return entry
}

// NewDeleteEntry construye la entrada DELETE: solo valores previos y -cantidad.
func NewDeleteEntry(item *entity.StockItem) *entity.HistoryEntry {
	snap := item.Snapshot()
	change := -item.Quantity
	return &entity.HistoryEntry{
		StockItemID:    item.ID,
		Action:         entity.HistoryActionDelete,
		OldValues:      &snap,
		QuantityChange: &change,
		Reason:         fmt.Sprintf("Producto eliminado: %s", item.Name),
	}
}
