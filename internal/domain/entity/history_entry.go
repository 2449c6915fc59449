package entity

import (
	"fmt"
	"time"
)

// HistoryAction tipo de transición registrada en el historial (conjunto cerrado).
type HistoryAction string

const (
	HistoryActionCreate         HistoryAction = "CREATE"
	HistoryActionUpdate         HistoryAction = "UPDATE"
	HistoryActionDelete         HistoryAction = "DELETE"
	HistoryActionQuantityChange HistoryAction = "QUANTITY_CHANGE"
)

// HistoryActions lista todas las acciones válidas.
var HistoryActions = []HistoryAction{
	HistoryActionCreate,
	HistoryActionUpdate,
	HistoryActionDelete,
	HistoryActionQuantityChange,
}

// IsValid indica si la acción pertenece al conjunto cerrado.
func (a HistoryAction) IsValid() bool {
	switch a {
	case HistoryActionCreate, HistoryActionUpdate, HistoryActionDelete, HistoryActionQuantityChange:
		return true
	}
	return false
}

// ParseHistoryAction convierte texto en HistoryAction.
func ParseHistoryAction(s string) (HistoryAction, error) {
	a := HistoryAction(s)
	if !a.IsValid() {
		return "", fmt.Errorf("acción de historial desconocida: %q", s)
	}
	return a, nil
}

// ItemSnapshot copia de los campos auditados de un StockItem en un instante.
// Mismo formato para CREATE, UPDATE, QUANTITY_CHANGE y DELETE.
type ItemSnapshot struct {
	Location      string `json:"location"`
	Name          string `json:"name"`
	SerialNumber  string `json:"serialNumber"`
	Quantity      int    `json:"quantity"`
	ProjectName   string `json:"projectName"`
	ProjectNumber string `json:"projectNumber"`
}

// StockItemRef campos de identificación del producto vigente, adjuntados al leer.
type StockItemRef struct {
	Name         string
	Location     string
	SerialNumber string
}

// HistoryEntry registro inmutable de una transición de un StockItem.
// StockItemID es una referencia débil: el producto puede haber sido eliminado.
type HistoryEntry struct {
	ID             string
	StockItemID    string
	Action         HistoryAction
	OldValues      *ItemSnapshot // nil en CREATE
	NewValues      *ItemSnapshot // nil en DELETE
	QuantityChange *int          // nil en UPDATE sin cambio de cantidad
	Reason         string
	CreatedAt      time.Time
	StockItem      *StockItemRef // nil si el producto ya no existe
}

// Delta devuelve QuantityChange o 0 si está ausente.
func (e *HistoryEntry) Delta() int {
	if e.QuantityChange == nil {
		return 0
	}
	return *e.QuantityChange
}
