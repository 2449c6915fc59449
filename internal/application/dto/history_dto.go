package dto

import (
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

// StockItemRefDTO datos del producto vigente adjuntados a cada entrada.
type StockItemRefDTO struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	SerialNumber string `json:"serialNumber"`
}

// HistoryEntryResponse salida de una entrada del historial.
type HistoryEntryResponse struct {
	ID             string               `json:"id"`
	StockItemID    string               `json:"stockItemId"`
	Action         entity.HistoryAction `json:"action"`
	OldValues      *entity.ItemSnapshot `json:"oldValues,omitempty"`
	NewValues      *entity.ItemSnapshot `json:"newValues,omitempty"`
	QuantityChange *int                 `json:"quantityChange,omitempty"`
	Reason         string               `json:"reason"`
	CreatedAt      time.Time            `json:"createdAt"`
	StockItem      *StockItemRefDTO     `json:"stockItem"`
}

// QuantitySummaryResponse respuesta de GET /api/history/summary.
type QuantitySummaryResponse struct {
	TotalAdded        int            `json:"totalAdded"`
	TotalRemoved      int            `json:"totalRemoved"`
	NetChange         int            `json:"netChange"`
	ChangesByLocation map[string]int `json:"changesByLocation"`
}

// ToHistoryEntryResponse convierte la entidad en su representación JSON.
func ToHistoryEntryResponse(e *entity.HistoryEntry) HistoryEntryResponse {
	out := HistoryEntryResponse{
		ID:             e.ID,
		StockItemID:    e.StockItemID,
		Action:         e.Action,
		OldValues:      e.OldValues,
		NewValues:      e.NewValues,
		QuantityChange: e.QuantityChange,
		Reason:         e.Reason,
		CreatedAt:      e.CreatedAt,
	}
	if e.StockItem != nil {
		out.StockItem = &StockItemRefDTO{
			Name:         e.StockItem.Name,
			Location:     e.StockItem.Location,
			SerialNumber: e.StockItem.SerialNumber,
		}
	}
	return out
}

// ToHistoryEntryResponses convierte una lista; nunca devuelve nil.
func ToHistoryEntryResponses(entries []*entity.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToHistoryEntryResponse(e))
	}
	return out
}
