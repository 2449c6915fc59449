// Package report genera reportes descargables a partir del historial.
package report

import (
	"context"
	"fmt"
	"time"

	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain"
)

// MaxReportEntries tope de entradas listadas en el PDF; el resumen siempre cubre el rango completo.
const MaxReportEntries = 500

// HistoryReportUseCase arma el reporte de historial de un rango de fechas.
type HistoryReportUseCase struct {
	query     *apphistory.QueryService
	generator HistoryPDFGenerator
	now       func() time.Time
}

// NewHistoryReportUseCase construye el caso de uso.
func NewHistoryReportUseCase(query *apphistory.QueryService, generator HistoryPDFGenerator) *HistoryReportUseCase {
	return &HistoryReportUseCase{
		query:     query,
		generator: generator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *HistoryReportUseCase) Generate(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	if end.Before(start) {
		return nil, "", fmt.Errorf("%w: endDate anterior a startDate", domain.ErrInvalidInput)
	}

	summary, err := uc.query.GetQuantityChangeSummary(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	// Se pide una entrada extra para saber si el listado quedó truncado.
	entries, err := uc.query.GetHistory(ctx, apphistory.Filters{
		StartDate: &start,
		EndDate:   &end,
		Limit:     MaxReportEntries + 1,
	})
	if err != nil {
		return nil, "", err
	}
	truncated := len(entries) > MaxReportEntries
	if truncated {
		entries = entries[:MaxReportEntries]
	}

	pdf, err := uc.generator.GenerateHistoryPDF(ctx, &HistoryReport{
		Title:       "Historial de inventario",
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: uc.now(),
		Summary:     summary,
		Entries:     entries,
		Truncated:   truncated,
	})
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte: %w", err)
	}
	filename := fmt.Sprintf("historial_%s_%s.pdf", start.Format("20060102"), end.Format("20060102"))
	return pdf, filename, nil
}
