// @title        Stock Tracker API
// @version      1.0
// @description  Inventario de productos con historial de cambios solo de agregado.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stock-tracker-api/docs"
	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/application/report"
	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	domhistory "github.com/jhoicas/stock-tracker-api/internal/domain/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
	"github.com/jhoicas/stock-tracker-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-tracker-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-tracker-api/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker-api/pkg/config"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// storage adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	txRunner  stock.TxRunner
	items     repository.StockItemRepository
	history   repository.HistoryRepository
	inspector httpRouter.DatabaseInspector
	migrator  httpRouter.SchemaMigrator
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	}).With("app", cfg.App.Name)
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	scope := domhistory.SummaryScopeAdjustments
	if cfg.History.SummaryIncludeAll {
		scope = domhistory.SummaryScopeAllMovements
	}
	historyQuery := apphistory.NewQueryService(store.history, apphistory.QueryConfig{
		DefaultLimit: cfg.History.DefaultLimit,
		SummaryScope: scope,
	})
	itemUC := stock.NewItemUseCase(store.txRunner, store.items)
	reportUC := report.NewHistoryReportUseCase(historyQuery, infrapdf.NewMarotoHistoryGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // imágenes en base64
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Tracker API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		Items:       itemUC,
		History:     historyQuery,
		Report:      reportUC,
		Inspector:   store.inspector,
		Migrator:    store.migrator,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		mem := memory.New()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:  mem,
			items:     mem.Items(),
			history:   mem.History(),
			inspector: mem,
			migrator:  mem,
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	migrator := postgres.NewMigrator(pool)
	if cfg.DB.AutoMigrate {
		res, err := migrator.Migrate(ctx)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("status", res.Status).Int64("version", res.SchemaVersion).Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		items:     postgres.NewStockItemRepository(pool),
		history:   postgres.NewHistoryRepository(pool),
		inspector: postgres.NewInspector(pool),
		migrator:  migrator,
		close:     pool.Close,
	}, nil
}
