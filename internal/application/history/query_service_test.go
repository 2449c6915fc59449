package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	domhistory "github.com/jhoicas/stock-tracker-api/internal/domain/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
	"github.com/jhoicas/stock-tracker-api/internal/infrastructure/memory"
)

func item(id string, qty int) *entity.StockItem {
	return &entity.StockItem{ID: id, Name: "Cable", Location: "A", Quantity: qty}
}

// steppingClock avanza un segundo por llamada.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

// ──────────────────────────────────────────────
// Recorder
// ──────────────────────────────────────────────

func TestRecorder_EntriesPerMutation(t *testing.T) {
	store := memory.New()
	rec := apphistory.NewRecorder(store.History())
	ctx := context.Background()

	created, err := rec.LogCreate(ctx, item("a", 5))
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryActionCreate, created.Action)
	assert.Equal(t, 5, *created.QuantityChange)
	assert.Nil(t, created.OldValues)

	renamed := item("a", 5)
	renamed.Name = "Cable UTP"
	updated, err := rec.LogUpdate(ctx, item("a", 5), renamed)
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryActionUpdate, updated.Action)
	assert.Nil(t, updated.QuantityChange)

	changed, err := rec.LogUpdate(ctx, renamed, item("a", 8))
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryActionQuantityChange, changed.Action)
	assert.Equal(t, 3, *changed.QuantityChange)

	deleted, err := rec.LogDelete(ctx, item("a", 8))
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryActionDelete, deleted.Action)
	assert.Equal(t, -8, *deleted.QuantityChange)
	assert.Nil(t, deleted.NewValues)

	entries, err := store.History().List(ctx, repository.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

type failingHistory struct{ err error }

func (f failingHistory) Append(context.Context, *entity.HistoryEntry) error { return f.err }
func (f failingHistory) List(context.Context, repository.HistoryFilter) ([]*entity.HistoryEntry, error) {
	return nil, f.err
}

func TestRecorder_PropagatesAppendError(t *testing.T) {
	boom := errors.New("disk full")
	rec := apphistory.NewRecorder(failingHistory{err: boom})

	entry, err := rec.LogCreate(context.Background(), item("a", 1))
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, boom)
}

// ──────────────────────────────────────────────
// QueryService
// ──────────────────────────────────────────────

func TestGetHistory_DefaultLimit(t *testing.T) {
	store := memory.New(memory.WithClock(steppingClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))))
	rec := apphistory.NewRecorder(store.History())
	ctx := context.Background()
	for i := 0; i < 150; i++ {
		_, err := rec.LogUpdate(ctx, item("a", i), item("a", i+1))
		require.NoError(t, err)
	}

	svc := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})
	entries, err := svc.GetHistory(ctx, apphistory.Filters{})
	require.NoError(t, err)
	assert.Len(t, entries, apphistory.DefaultLimit)
	// Más recientes primero
	assert.Equal(t, 150, entries[0].NewValues.Quantity)

	entries, err = svc.GetHistory(ctx, apphistory.Filters{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestGetHistory_FilterByAction(t *testing.T) {
	store := memory.New()
	rec := apphistory.NewRecorder(store.History())
	ctx := context.Background()
	_, _ = rec.LogCreate(ctx, item("a", 5))
	_, _ = rec.LogUpdate(ctx, item("a", 5), item("a", 7))
	_, _ = rec.LogDelete(ctx, item("a", 7))

	svc := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})
	action := entity.HistoryActionDelete
	entries, err := svc.GetHistory(ctx, apphistory.Filters{Action: &action})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.HistoryActionDelete, entries[0].Action)
}

func TestGetHistory_EmptyIsNotNil(t *testing.T) {
	svc := apphistory.NewQueryService(memory.New().History(), apphistory.QueryConfig{})
	entries, err := svc.GetItemHistory(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestGetHistory_WrapsRepositoryError(t *testing.T) {
	boom := errors.New("db down")
	svc := apphistory.NewQueryService(failingHistory{err: boom}, apphistory.QueryConfig{})
	_, err := svc.GetHistory(context.Background(), apphistory.Filters{})
	assert.ErrorIs(t, err, boom)
}

func TestGetQuantityChangeSummary_Scopes(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(steppingClock(start)))
	rec := apphistory.NewRecorder(store.History())
	ctx := context.Background()

	_, _ = rec.LogCreate(ctx, item("a", 5))
	_, _ = rec.LogUpdate(ctx, item("a", 5), item("a", 8))
	_, _ = rec.LogUpdate(ctx, item("a", 8), item("a", 6))
	_, _ = rec.LogDelete(ctx, item("a", 6))
	end := start.Add(time.Hour)

	adjustments := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})
	s, err := adjustments.GetQuantityChangeSummary(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalAdded)
	assert.Equal(t, 2, s.TotalRemoved)
	assert.Equal(t, 1, s.NetChange)
	// El producto no existe en el store: la ubicación cae en Unknown.
	assert.Equal(t, map[string]int{domhistory.UnknownLocation: 1}, s.ChangesByLocation)

	all := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{SummaryScope: domhistory.SummaryScopeAllMovements})
	s, err = all.GetQuantityChangeSummary(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 8, s.TotalAdded)
	assert.Equal(t, 8, s.TotalRemoved)
	assert.Equal(t, 0, s.NetChange)
}

func TestGetQuantityChangeSummary_IgnoresDefaultLimit(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(steppingClock(start)))
	rec := apphistory.NewRecorder(store.History())
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		_, err := rec.LogUpdate(ctx, item("a", i), item("a", i+1))
		require.NoError(t, err)
	}

	svc := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})
	s, err := svc.GetQuantityChangeSummary(ctx, start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 120, s.TotalAdded)
}

func TestGetQuantityChangeSummary_InvertedRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(steppingClock(start)))
	_, err := apphistory.NewRecorder(store.History()).LogUpdate(context.Background(), item("a", 1), item("a", 4))
	require.NoError(t, err)

	svc := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})
	s, err := svc.GetQuantityChangeSummary(context.Background(), start.Add(time.Hour), start)
	require.NoError(t, err)
	assert.Zero(t, s.NetChange)
	assert.NotNil(t, s.ChangesByLocation)
	assert.Empty(t, s.ChangesByLocation)
}
