package history

import "github.com/jhoicas/stock-tracker-api/internal/domain/entity"

// UnknownLocation ubicación asignada cuando el producto ya no existe.
const UnknownLocation = "Unknown"

// SummaryScope define qué acciones entran en el resumen de cantidades.
type SummaryScope int

const (
	// SummaryScopeAdjustments solo QUANTITY_CHANGE: los ajustes sobre productos existentes.
	// Los deltas de CREATE y DELETE quedan fuera aunque tengan QuantityChange.
	SummaryScopeAdjustments SummaryScope = iota
	// SummaryScopeAllMovements incluye además CREATE y DELETE.
	SummaryScopeAllMovements
)

// Actions devuelve las acciones que el alcance incluye.
func (s SummaryScope) Actions() []entity.HistoryAction {
	if s == SummaryScopeAllMovements {
		return []entity.HistoryAction{
			entity.HistoryActionCreate,
			entity.HistoryActionQuantityChange,
			entity.HistoryActionDelete,
		}
	}
	return []entity.HistoryAction{entity.HistoryActionQuantityChange}
}

// Summary movimiento neto de unidades en un rango.
// Invariantes: NetChange == TotalAdded - TotalRemoved == suma(ChangesByLocation).
type Summary struct {
	TotalAdded        int
	TotalRemoved      int
	NetChange         int
	ChangesByLocation map[string]int
}

// Summarize acumula las entradas ya filtradas. Con cero entradas devuelve totales en cero
// y un mapa vacío (no nil).
func Summarize(entries []*entity.HistoryEntry) Summary {
	s := Summary{ChangesByLocation: make(map[string]int)}
	for _, e := range entries {
		change := e.Delta()
		location := UnknownLocation
		if e.StockItem != nil && e.StockItem.Location != "" {
			location = e.StockItem.Location
		}

		if change > 0 {
			s.TotalAdded += change
		} else {
			s.TotalRemoved += -change
		}
		s.ChangesByLocation[location] += change
	}
	s.NetChange = s.TotalAdded - s.TotalRemoved
	return s
}
