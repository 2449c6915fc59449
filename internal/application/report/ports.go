package report

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	domhistory "github.com/jhoicas/stock-tracker-api/internal/domain/history"
)

// HistoryReport datos que se vuelcan en el reporte de historial.
type HistoryReport struct {
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	GeneratedAt time.Time
	Summary     domhistory.Summary
	Entries     []*entity.HistoryEntry // más recientes primero
	Truncated   bool                   // true si el rango tenía más entradas que las incluidas
}

// HistoryPDFGenerator genera la representación PDF del reporte.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, report *HistoryReport) ([]byte, error)
}
