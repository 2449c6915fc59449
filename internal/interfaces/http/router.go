package http

import (
	"github.com/gofiber/fiber/v2"

	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/application/report"
	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Items       *stock.ItemUseCase
	History     *apphistory.QueryService
	Report      *report.HistoryReportUseCase
	Inspector   DatabaseInspector
	Migrator    SchemaMigrator
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.ServiceName, deps.Inspector, deps.Migrator, deps.Log)
	app.Get("/health", healthHandler.Liveness)

	api := app.Group("/api")
	api.Get("/health/db", healthHandler.Database)
	api.Post("/setup", healthHandler.Setup)

	// Historial (solo lectura)
	historyHandler := NewHistoryHandler(deps.History, deps.Report, deps.Log)
	history := api.Group("/history")
	history.Get("/", historyHandler.List)
	history.Get("/summary", historyHandler.Summary)
	history.Get("/report", historyHandler.Report)

	// Productos: rutas fijas antes de /:id
	stockHandler := NewStockHandler(deps.Items, deps.Log)
	items := api.Group("/stock")
	items.Get("/", stockHandler.List)
	items.Post("/", stockHandler.Create)
	items.Get("/stats", stockHandler.Stats)
	items.Get("/export", stockHandler.Export)
	items.Post("/import", stockHandler.Import)
	items.Get("/:id", stockHandler.GetByID)
	items.Put("/:id", stockHandler.Update)
	items.Delete("/:id", stockHandler.Delete)
	items.Get("/:id/history", historyHandler.ItemHistory)
}
