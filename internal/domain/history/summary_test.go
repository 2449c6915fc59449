package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/history"
)

func qtyEntry(action entity.HistoryAction, change *int, location string) *entity.HistoryEntry {
	e := &entity.HistoryEntry{Action: action, QuantityChange: change}
	if location != "" {
		e.StockItem = &entity.StockItemRef{Location: location}
	}
	return e
}

func TestSummarize_NoEntries(t *testing.T) {
	s := history.Summarize(nil)

	assert.Zero(t, s.TotalAdded)
	assert.Zero(t, s.TotalRemoved)
	assert.Zero(t, s.NetChange)
	assert.NotNil(t, s.ChangesByLocation)
	assert.Empty(t, s.ChangesByLocation)
}

func TestSummarize_AccumulatesByLocation(t *testing.T) {
	entries := []*entity.HistoryEntry{
		qtyEntry(entity.HistoryActionQuantityChange, intPtr(3), "A"),
		qtyEntry(entity.HistoryActionQuantityChange, intPtr(-5), "A"),
		qtyEntry(entity.HistoryActionQuantityChange, intPtr(10), "B"),
		qtyEntry(entity.HistoryActionQuantityChange, intPtr(-2), ""), // producto eliminado
		qtyEntry(entity.HistoryActionQuantityChange, nil, "C"),       // sin delta cuenta como 0
	}

	s := history.Summarize(entries)

	assert.Equal(t, 13, s.TotalAdded)
	assert.Equal(t, 7, s.TotalRemoved)
	assert.Equal(t, 6, s.NetChange)
	assert.Equal(t, map[string]int{"A": -2, "B": 10, history.UnknownLocation: -2, "C": 0}, s.ChangesByLocation)
}

// Invariante: TotalAdded - TotalRemoved == NetChange == suma(ChangesByLocation).
func TestSummarize_Reconciles(t *testing.T) {
	deltas := []int{7, -3, 0, 12, -12, 1, -40, 5}
	locations := []string{"A", "B", "", "A", "C", "B", "A", ""}
	var entries []*entity.HistoryEntry
	for i, d := range deltas {
		entries = append(entries, qtyEntry(entity.HistoryActionQuantityChange, intPtr(d), locations[i]))
	}

	s := history.Summarize(entries)

	sum := 0
	for _, v := range s.ChangesByLocation {
		sum += v
	}
	assert.Equal(t, s.TotalAdded-s.TotalRemoved, s.NetChange)
	assert.Equal(t, s.NetChange, sum)
}

func TestSummaryScope_Actions(t *testing.T) {
	assert.Equal(t, []entity.HistoryAction{entity.HistoryActionQuantityChange}, history.SummaryScopeAdjustments.Actions())
	assert.ElementsMatch(t, []entity.HistoryAction{
		entity.HistoryActionCreate, entity.HistoryActionQuantityChange, entity.HistoryActionDelete,
	}, history.SummaryScopeAllMovements.Actions())
}
