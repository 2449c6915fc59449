package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	domhistory "github.com/jhoicas/stock-tracker-api/internal/domain/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

// DefaultLimit máximo de entradas cuando la consulta no indica limit.
const DefaultLimit = 100

// Filters opciones de GetHistory. Los campos nil o vacíos no filtran.
type Filters struct {
	Action      *entity.HistoryAction
	StartDate   *time.Time
	EndDate     *time.Time
	StockItemID string
	Limit       int // <= 0 usa el límite por defecto
}

// QueryConfig ajustes de lectura.
type QueryConfig struct {
	DefaultLimit int
	SummaryScope domhistory.SummaryScope
}

// QueryService acceso de lectura al historial y resumen de cantidades.
type QueryService struct {
	repo repository.HistoryRepository
	cfg  QueryConfig
}

// NewQueryService construye el servicio. Un DefaultLimit <= 0 se reemplaza por DefaultLimit.
func NewQueryService(repo repository.HistoryRepository, cfg QueryConfig) *QueryService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	return &QueryService{repo: repo, cfg: cfg}
}

// GetHistory devuelve las entradas que cumplen los filtros, más recientes primero,
// truncadas a Limit. StartDate > EndDate produce una lista vacía.
func (s *QueryService) GetHistory(ctx context.Context, f Filters) ([]*entity.HistoryEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	filter := repository.HistoryFilter{
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		StockItemID: f.StockItemID,
		Limit:       limit,
	}
	if f.Action != nil {
		filter.Actions = []entity.HistoryAction{*f.Action}
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("consultar historial: %w", err)
	}
	if entries == nil {
		entries = []*entity.HistoryEntry{}
	}
	return entries, nil
}

// GetItemHistory historial de un producto. Un ID inexistente devuelve lista vacía.
func (s *QueryService) GetItemHistory(ctx context.Context, stockItemID string) ([]*entity.HistoryEntry, error) {
	return s.GetHistory(ctx, Filters{StockItemID: stockItemID})
}

// GetQuantityChangeSummary calcula el movimiento neto en [start, end] sobre todas las entradas
// del alcance configurado (sin truncar al límite por defecto).
func (s *QueryService) GetQuantityChangeSummary(ctx context.Context, start, end time.Time) (domhistory.Summary, error) {
	entries, err := s.repo.List(ctx, repository.HistoryFilter{
		Actions:   s.cfg.SummaryScope.Actions(),
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return domhistory.Summary{}, fmt.Errorf("resumen de cantidades: %w", err)
	}
	return domhistory.Summarize(entries), nil
}
