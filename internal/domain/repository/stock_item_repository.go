package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

// Columnas de ordenamiento para listados de productos.
const (
	StockSortCreatedAt = "createdAt"
	StockSortName      = "name"
	StockSortQuantity  = "quantity"
	StockSortLocation  = "location"
)

// StockItemFilter filtros y paginación para listar productos.
type StockItemFilter struct {
	Search      string // nombre, serial o proyecto (contiene, sin distinguir mayúsculas)
	Location    string
	ProjectName string
	SortBy      string // createdAt (defecto), name, quantity, location
	SortDesc    bool
	Limit       int // <= 0: sin límite
	Offset      int
}

// StockItemRepository puerto para el estado actual de los productos.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	Update(ctx context.Context, item *entity.StockItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StockItemFilter) ([]*entity.StockItem, int, error)
	Totals(ctx context.Context) (items, quantity int, err error)
	GroupByLocation(ctx context.Context) ([]entity.StockGroupStat, error)
	GroupByProject(ctx context.Context) ([]entity.StockGroupStat, error)
}
