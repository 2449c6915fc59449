package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*historyRepo)(nil)

type historyRepo struct {
	store *Store
	tx    *state
}

// Append guarda una copia de la entrada y asigna ID y CreatedAt.
// CreatedAt nunca retrocede respecto de la entrada anterior.
func (r *historyRepo) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	if entry == nil || entry.StockItemID == "" || !entry.Action.IsValid() {
		return fmt.Errorf("%w: entrada de historial incompleta", domain.ErrInvalidInput)
	}
	return r.store.view(ctx, r.tx, func(st *state) error {
		now := r.store.clock()
		if now.Before(st.lastAt) {
			now = st.lastAt
		}
		st.lastAt = now
		st.seq++

		entry.ID = uuid.New().String()
		entry.CreatedAt = now
		entry.StockItem = nil
		st.history = append(st.history, historyRecord{seq: st.seq, entry: copyEntry(entry)})
		return nil
	})
}

// List filtra, ordena (created_at desc, inserción desc) y adjunta el producto vigente.
func (r *historyRepo) List(ctx context.Context, filter repository.HistoryFilter) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	err := r.store.view(ctx, r.tx, func(st *state) error {
		matched := make([]historyRecord, 0, len(st.history))
		for _, rec := range st.history {
			if matches(rec.entry, filter) {
				matched = append(matched, rec)
			}
		}
		sort.Slice(matched, func(i, j int) bool {
			a, b := matched[i], matched[j]
			if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
				return a.entry.CreatedAt.After(b.entry.CreatedAt)
			}
			return a.seq > b.seq
		})
		if filter.Limit > 0 && len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}

		out = make([]*entity.HistoryEntry, 0, len(matched))
		for _, rec := range matched {
			e := copyEntry(&rec.entry)
			if item, ok := st.items[e.StockItemID]; ok {
				e.StockItem = &entity.StockItemRef{
					Name:         item.Name,
					Location:     item.Location,
					SerialNumber: item.SerialNumber,
				}
			}
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

func matches(e entity.HistoryEntry, f repository.HistoryFilter) bool {
	if len(f.Actions) > 0 {
		found := false
		for _, a := range f.Actions {
			if e.Action == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.StartDate != nil && e.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.StockItemID != "" && e.StockItemID != f.StockItemID {
		return false
	}
	return true
}

// copyEntry copia en profundidad los snapshots y el delta para que nadie comparta punteros con el log.
func copyEntry(e *entity.HistoryEntry) entity.HistoryEntry {
	c := *e
	if e.OldValues != nil {
		v := *e.OldValues
		c.OldValues = &v
	}
	if e.NewValues != nil {
		v := *e.NewValues
		c.NewValues = &v
	}
	if e.QuantityChange != nil {
		v := *e.QuantityChange
		c.QuantityChange = &v
	}
	if e.StockItem != nil {
		v := *e.StockItem
		c.StockItem = &v
	}
	return c
}
