package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*itemRepo)(nil)

type itemRepo struct {
	store *Store
	tx    *state
}

func (r *itemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	return r.store.view(ctx, r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("%w: producto %s ya existe", domain.ErrInvalidInput, item.ID)
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.store.view(ctx, r.tx, func(st *state) error {
		if item, ok := st.items[id]; ok {
			out = &item
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: las transacciones en memoria ya están serializadas.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Update(ctx context.Context, item *entity.StockItem) error {
	return r.store.view(ctx, r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	return r.store.view(ctx, r.tx, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

func (r *itemRepo) List(ctx context.Context, filter repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	var (
		out   []*entity.StockItem
		total int
	)
	err := r.store.view(ctx, r.tx, func(st *state) error {
		search := strings.ToLower(filter.Search)
		matched := make([]entity.StockItem, 0, len(st.items))
		for _, item := range st.items {
			if filter.Location != "" && item.Location != filter.Location {
				continue
			}
			if filter.ProjectName != "" && item.ProjectName != filter.ProjectName {
				continue
			}
			if search != "" && !containsAny(search, item.Name, item.SerialNumber, item.ProjectName, item.ProjectNumber) {
				continue
			}
			matched = append(matched, item)
		}
		sort.Slice(matched, func(i, j int) bool {
			less, equal := compareItems(matched[i], matched[j], filter.SortBy)
			if equal {
				return matched[i].ID < matched[j].ID
			}
			if filter.SortDesc {
				return !less
			}
			return less
		})

		total = len(matched)
		if filter.Offset > 0 {
			if filter.Offset >= len(matched) {
				matched = nil
			} else {
				matched = matched[filter.Offset:]
			}
		}
		if filter.Limit > 0 && len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
		out = make([]*entity.StockItem, 0, len(matched))
		for i := range matched {
			item := matched[i]
			out = append(out, &item)
		}
		return nil
	})
	return out, total, err
}

func (r *itemRepo) Totals(ctx context.Context) (int, int, error) {
	var items, qty int
	err := r.store.view(ctx, r.tx, func(st *state) error {
		for _, item := range st.items {
			items++
			qty += item.Quantity
		}
		return nil
	})
	return items, qty, err
}

func (r *itemRepo) GroupByLocation(ctx context.Context) ([]entity.StockGroupStat, error) {
	return r.groupBy(ctx, func(item entity.StockItem) string { return item.Location })
}

func (r *itemRepo) GroupByProject(ctx context.Context) ([]entity.StockGroupStat, error) {
	return r.groupBy(ctx, func(item entity.StockItem) string { return item.ProjectName })
}

func (r *itemRepo) groupBy(ctx context.Context, key func(entity.StockItem) string) ([]entity.StockGroupStat, error) {
	var out []entity.StockGroupStat
	err := r.store.view(ctx, r.tx, func(st *state) error {
		groups := make(map[string]*entity.StockGroupStat)
		for _, item := range st.items {
			k := key(item)
			g, ok := groups[k]
			if !ok {
				g = &entity.StockGroupStat{Key: k}
				groups[k] = g
			}
			g.ItemCount++
			g.Quantity += item.Quantity
		}
		out = make([]entity.StockGroupStat, 0, len(groups))
		for _, g := range groups {
			out = append(out, *g)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return nil
	})
	return out, err
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// compareItems devuelve (a < b, a == b) según la columna de orden.
func compareItems(a, b entity.StockItem, sortBy string) (bool, bool) {
	switch sortBy {
	case repository.StockSortName:
		x, y := strings.ToLower(a.Name), strings.ToLower(b.Name)
		return x < y, x == y
	case repository.StockSortQuantity:
		return a.Quantity < b.Quantity, a.Quantity == b.Quantity
	case repository.StockSortLocation:
		x, y := strings.ToLower(a.Location), strings.ToLower(b.Location)
		return x < y, x == y
	default:
		return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	}
}
