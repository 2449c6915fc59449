package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// psql builder con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// HistoryRepo registro de historial sobre PostgreSQL (usable con pool o tx).
// Solo expone Append y List: no hay UPDATE ni DELETE sobre stock_history.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

const insertHistorySQL = `
	INSERT INTO stock_history (id, stock_item_id, action, old_values, new_values, quantity_change, reason)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at`

// Append inserta la entrada. created_at lo asigna la base (clock_timestamp()).
func (r *HistoryRepo) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	if entry == nil || entry.StockItemID == "" || !entry.Action.IsValid() {
		return fmt.Errorf("%w: entrada de historial incompleta", domain.ErrInvalidInput)
	}
	oldJSON, err := snapshotJSON(entry.OldValues)
	if err != nil {
		return err
	}
	newJSON, err := snapshotJSON(entry.NewValues)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	err = r.q.QueryRow(ctx, insertHistorySQL,
		id, entry.StockItemID, string(entry.Action), oldJSON, newJSON, entry.QuantityChange, entry.Reason,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return mapError(err, "append history")
	}
	entry.ID = id
	return nil
}

// List devuelve las entradas filtradas, created_at desc y, a igualdad, la insertada después primero.
// El producto se adjunta con LEFT JOIN: si ya no existe, StockItem queda en nil.
func (r *HistoryRepo) List(ctx context.Context, filter repository.HistoryFilter) ([]*entity.HistoryEntry, error) {
	if filter.StockItemID != "" && !isUUID(filter.StockItemID) {
		return []*entity.HistoryEntry{}, nil
	}

	query, args, err := buildHistoryQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list history")
	}
	defer rows.Close()

	out := make([]*entity.HistoryEntry, 0)
	for rows.Next() {
		var (
			e                      entity.HistoryEntry
			action                 string
			oldJSON, newJSON       []byte
			qtyChange              *int32
			name, location, serial *string
		)
		if err := rows.Scan(
			&e.ID, &e.StockItemID, &action, &oldJSON, &newJSON, &qtyChange, &e.Reason, &e.CreatedAt,
			&name, &location, &serial,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Action = entity.HistoryAction(action)
		if e.OldValues, err = parseSnapshot(oldJSON); err != nil {
			return nil, err
		}
		if e.NewValues, err = parseSnapshot(newJSON); err != nil {
			return nil, err
		}
		if qtyChange != nil {
			v := int(*qtyChange)
			e.QuantityChange = &v
		}
		if name != nil {
			e.StockItem = &entity.StockItemRef{Name: *name}
			if location != nil {
				e.StockItem.Location = *location
			}
			if serial != nil {
				e.StockItem.SerialNumber = *serial
			}
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list history")
	}
	return out, nil
}

func buildHistoryQuery(f repository.HistoryFilter) sq.SelectBuilder {
	q := psql.Select(
		"h.id", "h.stock_item_id", "h.action", "h.old_values", "h.new_values",
		"h.quantity_change", "h.reason", "h.created_at",
		"s.name", "s.location", "s.serial_number",
	).
		From("stock_history h").
		LeftJoin("stock_items s ON s.id = h.stock_item_id").
		OrderBy("h.created_at DESC", "h.seq DESC")

	if len(f.Actions) > 0 {
		actions := make([]string, 0, len(f.Actions))
		for _, a := range f.Actions {
			actions = append(actions, string(a))
		}
		q = q.Where(sq.Eq{"h.action": actions})
	}
	if f.StartDate != nil {
		q = q.Where(sq.GtOrEq{"h.created_at": *f.StartDate})
	}
	if f.EndDate != nil {
		q = q.Where(sq.LtOrEq{"h.created_at": *f.EndDate})
	}
	if f.StockItemID != "" {
		q = q.Where(sq.Eq{"h.stock_item_id": f.StockItemID})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return q
}

// snapshotJSON serializa el snapshot para la columna JSONB; nil se guarda como NULL.
func snapshotJSON(s *entity.ItemSnapshot) (any, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

func parseSnapshot(b []byte) (*entity.ItemSnapshot, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var s entity.ItemSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}
