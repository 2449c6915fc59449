package entity

import "time"

// StockItem representa un producto en el inventario con su estado actual.
// El historial de cambios vive aparte (HistoryEntry); aquí solo el estado vigente.
type StockItem struct {
	ID            string
	Location      string
	Name          string
	SerialNumber  string
	Quantity      int // >= 1 al crear, >= 0 después
	ProjectName   string
	ProjectNumber string
	DeliveryTime  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Image         *string // data URL o referencia; nil si no hay foto
}

// Snapshot congela los seis campos auditados del producto.
func (s *StockItem) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		Location:      s.Location,
		Name:          s.Name,
		SerialNumber:  s.SerialNumber,
		Quantity:      s.Quantity,
		ProjectName:   s.ProjectName,
		ProjectNumber: s.ProjectNumber,
	}
}

// StockStats agregados del inventario actual.
type StockStats struct {
	TotalItems    int
	TotalQuantity int
	ByLocation    []StockGroupStat
	ByProject     []StockGroupStat
}

// StockGroupStat cantidad de productos y unidades agrupadas por una clave (ubicación o proyecto).
type StockGroupStat struct {
	Key       string
	ItemCount int
	Quantity  int
}
