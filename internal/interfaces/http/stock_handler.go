package http

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	"github.com/jhoicas/stock-tracker-api/internal/application/stock"
	"github.com/jhoicas/stock-tracker-api/pkg/logger"
)

// StockHandler maneja las peticiones HTTP de productos.
type StockHandler struct {
	uc  *stock.ItemUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.ItemUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto y registra una entrada CREATE en el historial.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockItemRequest  true  "Datos del producto"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.StockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         stock
// @Produce      json
// @Param        search    query  string  false  "Texto en nombre, serie o proyecto"
// @Param        location  query  string  false  "Ubicación exacta"
// @Param        project   query  string  false  "Proyecto exacto"
// @Param        sortBy    query  string  false  "createdAt | name | quantity | location"
// @Param        order     query  string  false  "asc | desc"
// @Param        limit     query  int     false  "Límite"  default(50)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockItemListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.StockListQuery{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Project:  c.Query("project"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Registra UPDATE o QUANTITY_CHANGE según cambie la cantidad. Sin image se conserva la foto; image vacía la elimina.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.StockItemRequest  true  "Datos del producto"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.StockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Registra la entrada DELETE antes de borrar la fila; el historial se conserva.
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "producto eliminado"})
}

// Stats godoc
// @Summary      Estadísticas de inventario
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.StockStatsResponse
// @Router       /api/stock/stats [get]
func (h *StockHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar inventario
// @Tags         stock
// @Produce      json
// @Produce      text/csv
// @Param        format  query  string  false  "json | csv"  default(json)
// @Success      200  {array}   dto.StockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/export [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "json"))
	if format != "json" && format != "csv" {
		return badRequest(c, "VALIDATION", "format debe ser json o csv")
	}
	items, err := h.uc.Export(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}

	stamp := time.Now().UTC().Format("20060102")
	if format == "json" {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario_`+stamp+`.json"`)
		return c.JSON(items)
	}

	body, err := itemsCSV(items)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario_`+stamp+`.csv"`)
	return c.Send(body)
}

// Import godoc
// @Summary      Importar productos
// @Description  Crea todos los productos en una sola transacción o ninguno.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.StockItemRequest  true  "Productos"
// @Success      201   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	var in []dto.StockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "se espera un arreglo JSON de productos")
	}
	n, err := h.uc.Import(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ImportResponse{Imported: n})
}

var csvHeader = []string{
	"id", "location", "name", "serialNumber", "quantity", "projectName",
	"projectNumber", "deliveryTime", "createdAt", "updatedAt",
}

func itemsCSV(items []dto.StockItemResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		record := []string{
			it.ID, it.Location, it.Name, it.SerialNumber, strconv.Itoa(it.Quantity), it.ProjectName,
			it.ProjectNumber, it.DeliveryTime.Format(time.RFC3339), it.CreatedAt.Format(time.RFC3339),
			it.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
