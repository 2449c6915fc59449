package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/application/report"
	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	"github.com/jhoicas/stock-tracker-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-tracker-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-tracker-api/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	log := logger.Nop()
	query := apphistory.NewQueryService(store.History(), apphistory.QueryConfig{})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "stock-tracker-test",
		Items:       stock.NewItemUseCase(store, store.Items()),
		History:     query,
		Report:      report.NewHistoryReportUseCase(query, infrapdf.NewMarotoHistoryGenerator()),
		Inspector:   store,
		Migrator:    store,
		Log:         log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createCable(t *testing.T, app *fiber.App, qty int) dto.StockItemResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/stock", dto.StockItemRequest{
		Name: "Cable", Location: "A", Quantity: qty, DeliveryTime: "2026-03-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.StockItemResponse](t, resp)
}

func today() string { return time.Now().UTC().Format("2006-01-02") }

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestHistoryEndpoints_Lifecycle(t *testing.T) {
	app := buildTestApp(t)
	item := createCable(t, app, 5)

	resp := doJSON(t, app, http.MethodPut, "/api/stock/"+item.ID, dto.StockItemRequest{
		Name: "Cable", Location: "A", Quantity: 8, DeliveryTime: "2026-03-01",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/history?action=QUANTITY_CHANGE", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries := decode[[]dto.HistoryEntryResponse](t, resp)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, *entries[0].QuantityChange)
	require.NotNil(t, entries[0].StockItem)
	assert.Equal(t, "A", entries[0].StockItem.Location)

	resp = doJSON(t, app, http.MethodDelete, "/api/stock/"+item.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// El historial sobrevive a la eliminación, sin referencia al producto.
	resp = doJSON(t, app, http.MethodGet, "/api/stock/"+item.ID+"/history", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries = decode[[]dto.HistoryEntryResponse](t, resp)
	require.Len(t, entries, 3)
	assert.Equal(t, "DELETE", string(entries[0].Action))
	for _, e := range entries {
		assert.Nil(t, e.StockItem)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/history/summary?startDate="+today()+"&endDate="+today(), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	summary := decode[dto.QuantitySummaryResponse](t, resp)
	assert.Equal(t, 3, summary.TotalAdded)
	assert.Equal(t, 0, summary.TotalRemoved)
	assert.Equal(t, 3, summary.NetChange)
	assert.Equal(t, map[string]int{"Unknown": 3}, summary.ChangesByLocation)
}

func TestHistoryEndpoints_RawStockItemIsNull(t *testing.T) {
	app := buildTestApp(t)
	item := createCable(t, app, 2)
	require.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodDelete, "/api/stock/"+item.ID, nil).StatusCode)

	resp := doJSON(t, app, http.MethodGet, "/api/history?stockItemId="+item.ID, nil)
	raw := decode[[]map[string]any](t, resp)
	require.Len(t, raw, 2)
	v, present := raw[0]["stockItem"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestHistoryEndpoints_BadRequests(t *testing.T) {
	app := buildTestApp(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "summary sin fechas", path: "/api/history/summary"},
		{name: "summary sin endDate", path: "/api/history/summary?startDate=2026-03-01"},
		{name: "report sin fechas", path: "/api/history/report"},
		{name: "acción desconocida", path: "/api/history?action=MOVE"},
		{name: "fecha inválida", path: "/api/history?startDate=ayer"},
		{name: "límite no numérico", path: "/api/history?limit=muchos"},
		{name: "límite negativo", path: "/api/history?limit=-1"},
		{name: "report con rango invertido", path: "/api/history/report?startDate=2026-03-02&endDate=2026-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, tt.path, nil)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", body.Code)
		})
	}
}

func TestHistoryEndpoints_EmptyResults(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/history", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))

	// startDate > endDate no es error: resumen vacío.
	resp = doJSON(t, app, http.MethodGet, "/api/history/summary?startDate=2026-03-02&endDate=2026-03-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalAdded":0,"totalRemoved":0,"netChange":0,"changesByLocation":{}}`, string(body))
}

func TestHistoryEndpoints_Report(t *testing.T) {
	app := buildTestApp(t)
	createCable(t, app, 4)

	resp := doJSON(t, app, http.MethodGet, "/api/history/report?startDate="+today()+"&endDate="+today(), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "historial_")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestStockEndpoints_CRUD(t *testing.T) {
	app := buildTestApp(t)
	item := createCable(t, app, 5)
	assert.NotEmpty(t, item.ID)

	resp := doJSON(t, app, http.MethodGet, "/api/stock/"+item.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.StockItemResponse](t, resp)
	assert.Equal(t, "Cable", got.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/stock?location=A", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.StockItemListResponse](t, resp)
	assert.Equal(t, 1, list.Page.Total)

	resp = doJSON(t, app, http.MethodDelete, "/api/stock/"+item.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/"+item.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, "/api/stock/"+item.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStockEndpoints_Validation(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock", dto.StockItemRequest{Name: "Cable", Location: "A", Quantity: 0, DeliveryTime: "2026-03-01"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Cantidad fuera del rango INTEGER: error de validación, no de almacenamiento.
	req := httptest.NewRequest(http.MethodPost, "/api/stock",
		strings.NewReader(`{"name":"Cable","location":"A","quantity":9223372036854775807,"deliveryTime":"2026-03-01"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	item := createCable(t, app, 3)
	resp = doJSON(t, app, http.MethodPut, "/api/stock/"+item.ID, dto.StockItemRequest{
		Name: "Cable", Location: "A", Quantity: math.MaxInt32 + 1, DeliveryTime: "2026-03-01",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader("{no json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestStockEndpoints_ImportExportStats(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/import", []dto.StockItemRequest{
		{Name: "Cable", Location: "A", Quantity: 2, DeliveryTime: "2026-03-01", ProjectName: "Norte"},
		{Name: "Switch", Location: "B", Quantity: 3, DeliveryTime: "2026-03-01T10:00:00Z", ProjectName: "Norte"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ImportResponse](t, resp).Imported)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.StockStatsResponse](t, resp)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 5, stats.TotalQuantity)
	assert.Equal(t, 2, stats.UniqueLocations)
	assert.Equal(t, 1, stats.UniqueProjects)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/export", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.StockItemResponse](t, resp), 2)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/export?format=csv", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,location,name"))

	resp = doJSON(t, app, http.MethodGet, "/api/stock/export?format=xml", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Un producto inválido cancela todo el lote.
	resp = doJSON(t, app, http.MethodPost, "/api/stock/import", []dto.StockItemRequest{
		{Name: "Router", Location: "C", Quantity: 1, DeliveryTime: "2026-03-01"},
		{Name: "", Location: "C", Quantity: 1, DeliveryTime: "2026-03-01"},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/history?action=CREATE", nil)
	assert.Len(t, decode[[]dto.HistoryEntryResponse](t, resp), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salud
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthEndpoints(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/health/db", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "connected", decode[dto.DatabaseStatusResponse](t, resp).Status)

	resp = doJSON(t, app, http.MethodPost, "/api/setup", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "up_to_date", decode[dto.SetupResponse](t, resp).Status)
}
