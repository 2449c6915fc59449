package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
	"github.com/jhoicas/stock-tracker-api/internal/infrastructure/postgres"
)

const itemID = "0b6f8c8e-6a1d-4c5e-9a57-3f1d2b7c9e01"

var historyColumns = []string{
	"id", "stock_item_id", "action", "old_values", "new_values",
	"quantity_change", "reason", "created_at", "name", "location", "serial_number",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }
func int32Ptr(v int32) *int32 { return &v }

// anyArgs acepta n parámetros cualesquiera; pgxmock exige declarar todos los argumentos.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// ──────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────

func TestHistoryRepo_Append(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	delta := 3
	entry := &entity.HistoryEntry{
		StockItemID:    itemID,
		Action:         entity.HistoryActionQuantityChange,
		OldValues:      &entity.ItemSnapshot{Name: "Cable", Location: "A", Quantity: 5},
		NewValues:      &entity.ItemSnapshot{Name: "Cable", Location: "A", Quantity: 8},
		QuantityChange: &delta,
		Reason:         "Cambio de cantidad: +3",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO stock_history")).
		WithArgs(pgxmock.AnyArg(), itemID, "QUANTITY_CHANGE", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "Cambio de cantidad: +3").
		WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(createdAt))

	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, createdAt, entry.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_Append_RejectsIncompleteEntry(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	err := repo.Append(context.Background(), &entity.HistoryEntry{Action: "MOVE", StockItemID: itemID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = repo.Append(context.Background(), &entity.HistoryEntry{Action: entity.HistoryActionCreate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_Append_DBError(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO stock_history")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Append(context.Background(), &entity.HistoryEntry{
		StockItemID: itemID,
		Action:      entity.HistoryActionDelete,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append history")
}

// ──────────────────────────────────────────────
// List
// ──────────────────────────────────────────────

func TestHistoryRepo_List_FiltersAndOrder(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	t1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM stock_history h LEFT JOIN stock_items s ON s.id = h.stock_item_id "+
			"WHERE h.action IN ($1) AND h.created_at >= $2 AND h.created_at <= $3 "+
			"ORDER BY h.created_at DESC, h.seq DESC LIMIT 100",
	)).
		WithArgs("QUANTITY_CHANGE", start, end).
		WillReturnRows(mock.NewRows(historyColumns).
			AddRow("h2", itemID, "QUANTITY_CHANGE",
				[]byte(`{"location":"A","name":"Cable","serialNumber":"","quantity":5,"projectName":"","projectNumber":""}`),
				[]byte(`{"location":"A","name":"Cable","serialNumber":"","quantity":8,"projectName":"","projectNumber":""}`),
				int32Ptr(3), "Cambio de cantidad: +3", t1, strPtr("Cable"), strPtr("A"), strPtr("SN-1")).
			AddRow("h1", "5d1c7a40-0000-4000-8000-000000000000", "QUANTITY_CHANGE",
				nil, nil, int32Ptr(-2), "Cambio de cantidad: -2", t2, nil, nil, nil))

	entries, err := repo.List(context.Background(), repository.HistoryFilter{
		Actions:   []entity.HistoryAction{entity.HistoryActionQuantityChange},
		StartDate: &start,
		EndDate:   &end,
		Limit:     100,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "h2", first.ID)
	assert.Equal(t, entity.HistoryActionQuantityChange, first.Action)
	require.NotNil(t, first.QuantityChange)
	assert.Equal(t, 3, *first.QuantityChange)
	require.NotNil(t, first.OldValues)
	assert.Equal(t, 5, first.OldValues.Quantity)
	assert.Equal(t, 8, first.NewValues.Quantity)
	require.NotNil(t, first.StockItem)
	assert.Equal(t, "Cable", first.StockItem.Name)
	assert.Equal(t, "SN-1", first.StockItem.SerialNumber)

	// Producto eliminado: la entrada sigue, sin referencia.
	second := entries[1]
	assert.Nil(t, second.StockItem)
	assert.Nil(t, second.OldValues)
	assert.Equal(t, -2, *second.QuantityChange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_List_ByItemWithoutLimit(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	mock.ExpectQuery(`WHERE h\.stock_item_id = \$1 ORDER BY h\.created_at DESC, h\.seq DESC$`).
		WithArgs(itemID).
		WillReturnRows(mock.NewRows(historyColumns))

	entries, err := repo.List(context.Background(), repository.HistoryFilter{StockItemID: itemID})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_List_MalformedItemID(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewHistoryRepository(mock)

	entries, err := repo.List(context.Background(), repository.HistoryFilter{StockItemID: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
