package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/application/report"
	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// HistoryHandler expone el historial de inventario (solo lectura).
type HistoryHandler struct {
	query  *apphistory.QueryService
	report *report.HistoryReportUseCase
	log    *logger.Logger
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(query *apphistory.QueryService, rep *report.HistoryReportUseCase, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{query: query, report: rep, log: log}
}

// List godoc
// @Summary      Consultar historial
// @Description  Entradas más recientes primero. Fechas RFC3339 o YYYY-MM-DD; endDate sin hora cubre el día completo.
// @Tags         history
// @Produce      json
// @Param        action       query  string  false  "CREATE | UPDATE | DELETE | QUANTITY_CHANGE"
// @Param        startDate    query  string  false  "Desde (inclusive)"
// @Param        endDate      query  string  false  "Hasta (inclusive)"
// @Param        stockItemId  query  string  false  "ID del producto"
// @Param        limit        query  int     false  "Límite"  default(100)
// @Success      200  {array}   dto.HistoryEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	filters, err := parseHistoryFilters(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	entries, err := h.query.GetHistory(c.UserContext(), filters)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ToHistoryEntryResponses(entries))
}

// ItemHistory godoc
// @Summary      Historial de un producto
// @Description  Incluye las entradas de productos ya eliminados (stockItem en null).
// @Tags         history
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.HistoryEntryResponse
// @Router       /api/stock/{id}/history [get]
func (h *HistoryHandler) ItemHistory(c *fiber.Ctx) error {
	entries, err := h.query.GetItemHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ToHistoryEntryResponses(entries))
}

// Summary godoc
// @Summary      Resumen de cambios de cantidad
// @Description  Suma los cambios de cantidad del rango. Por defecto solo cuenta entradas QUANTITY_CHANGE.
// @Tags         history
// @Produce      json
// @Param        startDate  query  string  true  "Desde (inclusive)"
// @Param        endDate    query  string  true  "Hasta (inclusive)"
// @Success      200  {object}  dto.QuantitySummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history/summary [get]
func (h *HistoryHandler) Summary(c *fiber.Ctx) error {
	start, end, err := requiredRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	s, err := h.query.GetQuantityChangeSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.QuantitySummaryResponse{
		TotalAdded:        s.TotalAdded,
		TotalRemoved:      s.TotalRemoved,
		NetChange:         s.NetChange,
		ChangesByLocation: s.ChangesByLocation,
	})
}

// Report godoc
// @Summary      Reporte PDF del historial
// @Tags         history
// @Produce      application/pdf
// @Param        startDate  query  string  true  "Desde (inclusive)"
// @Param        endDate    query  string  true  "Hasta (inclusive)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history/report [get]
func (h *HistoryHandler) Report(c *fiber.Ctx) error {
	start, end, err := requiredRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	pdf, filename, err := h.report.Generate(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

func parseHistoryFilters(c *fiber.Ctx) (apphistory.Filters, error) {
	var f apphistory.Filters

	if raw := strings.TrimSpace(c.Query("action")); raw != "" {
		action, err := entity.ParseHistoryAction(strings.ToUpper(raw))
		if err != nil {
			return f, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Action = &action
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := dto.ParseTimestamp(raw, false)
		if err != nil {
			return f, fmt.Errorf("%w: startDate: %v", domain.ErrInvalidInput, err)
		}
		f.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := dto.ParseTimestamp(raw, true)
		if err != nil {
			return f, fmt.Errorf("%w: endDate: %v", domain.ErrInvalidInput, err)
		}
		f.EndDate = &t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: limit debe ser un entero no negativo", domain.ErrInvalidInput)
		}
		f.Limit = n
	}
	f.StockItemID = strings.TrimSpace(c.Query("stockItemId"))
	return f, nil
}

// requiredRange lee startDate y endDate obligatorios.
func requiredRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	rawStart, rawEnd := c.Query("startDate"), c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate y endDate son requeridos", domain.ErrInvalidInput)
	}
	start, err := dto.ParseTimestamp(rawStart, false)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate: %v", domain.ErrInvalidInput, err)
	}
	end, err := dto.ParseTimestamp(rawEnd, true)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate: %v", domain.ErrInvalidInput, err)
	}
	return start, end, nil
}
