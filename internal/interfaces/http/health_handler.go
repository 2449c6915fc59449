package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// DatabaseInspector reporta el estado del almacenamiento.
type DatabaseInspector interface {
	Status(ctx context.Context) (*dto.DatabaseStatusResponse, error)
}

// SchemaMigrator aplica las migraciones pendientes.
type SchemaMigrator interface {
	Migrate(ctx context.Context) (*dto.SetupResponse, error)
}

// HealthHandler liveness, diagnóstico de base y setup del esquema.
type HealthHandler struct {
	service   string
	inspector DatabaseInspector
	migrator  SchemaMigrator
	log       *logger.Logger
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service string, inspector DatabaseInspector, migrator SchemaMigrator, log *logger.Logger) *HealthHandler {
	return &HealthHandler{service: service, inspector: inspector, migrator: migrator, log: log}
}

// Liveness godoc
// @Summary  Liveness
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// Database godoc
// @Summary      Diagnóstico de la base de datos
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.DatabaseStatusResponse
// @Failure      503  {object}  dto.DatabaseStatusResponse
// @Router       /api/health/db [get]
func (h *HealthHandler) Database(c *fiber.Ctx) error {
	status, err := h.inspector.Status(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	if status.Status != "connected" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

// Setup godoc
// @Summary      Crear o actualizar el esquema
// @Description  Aplica las migraciones pendientes; sin pendientes responde up_to_date.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.SetupResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/setup [post]
func (h *HealthHandler) Setup(c *fiber.Ctx) error {
	out, err := h.migrator.Migrate(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("status", out.Status).Int64("version", out.SchemaVersion).Int("applied", out.Applied).Msg("setup de esquema")
	return c.JSON(out)
}
