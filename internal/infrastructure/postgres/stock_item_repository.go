package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

var stockItemColumns = []string{
	"id", "location", "name", "serial_number", "quantity", "project_name",
	"project_number", "delivery_time", "created_at", "updated_at", "image",
}

type stockItemRow struct {
	ID            string    `db:"id"`
	Location      string    `db:"location"`
	Name          string    `db:"name"`
	SerialNumber  string    `db:"serial_number"`
	Quantity      int       `db:"quantity"`
	ProjectName   string    `db:"project_name"`
	ProjectNumber string    `db:"project_number"`
	DeliveryTime  time.Time `db:"delivery_time"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Image         *string   `db:"image"`
}

func (row stockItemRow) toEntity() *entity.StockItem {
	return &entity.StockItem{
		ID:            row.ID,
		Location:      row.Location,
		Name:          row.Name,
		SerialNumber:  row.SerialNumber,
		Quantity:      row.Quantity,
		ProjectName:   row.ProjectName,
		ProjectNumber: row.ProjectNumber,
		DeliveryTime:  row.DeliveryTime,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Image:         row.Image,
	}
}

// Create inserta el producto con el ID y las fechas ya asignados.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, location, name, serial_number, quantity, project_name, project_number, delivery_time, created_at, updated_at, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Location, item.Name, item.SerialNumber, item.Quantity, item.ProjectName,
		item.ProjectNumber, item.DeliveryTime, item.CreatedAt, item.UpdatedAt, item.Image,
	)
	return mapError(err, "create stock item")
}

// GetByID obtiene un producto. Devuelve (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.get(ctx, id, true)
}

func (r *StockItemRepo) get(ctx context.Context, id string, lock bool) (*entity.StockItem, error) {
	if !isUUID(id) {
		return nil, nil
	}
	b := psql.Select(stockItemColumns...).From("stock_items").Where(sq.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stock item query: %w", err)
	}
	var row stockItemRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, mapError(err, "get stock item")
	}
	return row.toEntity(), nil
}

// Update reemplaza los campos editables. ErrNotFound si la fila no existe.
func (r *StockItemRepo) Update(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET location = $2, name = $3, serial_number = $4, quantity = $5, project_name = $6,
		    project_number = $7, delivery_time = $8, updated_at = $9, image = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Location, item.Name, item.SerialNumber, item.Quantity, item.ProjectName,
		item.ProjectNumber, item.DeliveryTime, item.UpdatedAt, item.Image,
	)
	if err != nil {
		return mapError(err, "update stock item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la fila. El historial no se toca.
func (r *StockItemRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete stock item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la página pedida y el total de filas que cumplen el filtro.
func (r *StockItemRepo) List(ctx context.Context, filter repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	where := stockItemWhere(filter)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("stock_items").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count stock items")
	}

	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	b := psql.Select(stockItemColumns...).From("stock_items").Where(where).
		OrderBy(sortColumn(filter.SortBy)+" "+dir, "id ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	var rows []stockItemRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, 0, mapError(err, "list stock items")
	}
	out := make([]*entity.StockItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, total, nil
}

// Totals cantidad de productos y suma de unidades.
func (r *StockItemRepo) Totals(ctx context.Context) (int, int, error) {
	var items, qty int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(quantity), 0) FROM stock_items`).Scan(&items, &qty)
	if err != nil {
		return 0, 0, mapError(err, "stock totals")
	}
	return items, qty, nil
}

func (r *StockItemRepo) GroupByLocation(ctx context.Context) ([]entity.StockGroupStat, error) {
	return r.groupBy(ctx, "location")
}

func (r *StockItemRepo) GroupByProject(ctx context.Context) ([]entity.StockGroupStat, error) {
	return r.groupBy(ctx, "project_name")
}

type groupRow struct {
	Key       string `db:"key"`
	ItemCount int    `db:"item_count"`
	Quantity  int    `db:"quantity"`
}

// groupBy column viene siempre de una constante interna, nunca del request.
func (r *StockItemRepo) groupBy(ctx context.Context, column string) ([]entity.StockGroupStat, error) {
	query, args, err := psql.
		Select(column+" AS key", "COUNT(*) AS item_count", "COALESCE(SUM(quantity), 0) AS quantity").
		From("stock_items").
		GroupBy(column).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}
	var rows []groupRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, mapError(err, "group stock items")
	}
	out := make([]entity.StockGroupStat, 0, len(rows))
	for _, g := range rows {
		out = append(out, entity.StockGroupStat{Key: g.Key, ItemCount: g.ItemCount, Quantity: g.Quantity})
	}
	return out, nil
}

func stockItemWhere(f repository.StockItemFilter) sq.And {
	where := sq.And{}
	if f.Location != "" {
		where = append(where, sq.Eq{"location": f.Location})
	}
	if f.ProjectName != "" {
		where = append(where, sq.Eq{"project_name": f.ProjectName})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"serial_number": pattern},
			sq.ILike{"project_name": pattern},
			sq.ILike{"project_number": pattern},
		})
	}
	return where
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case repository.StockSortName:
		return "lower(name)"
	case repository.StockSortQuantity:
		return "quantity"
	case repository.StockSortLocation:
		return "lower(location)"
	default:
		return "created_at"
	}
}
