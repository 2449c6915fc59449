package stock

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	apphistory "github.com/jhoicas/stock-tracker-api/internal/application/history"
	"github.com/jhoicas/stock-tracker-api/internal/domain"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
	"github.com/jhoicas/stock-tracker-api/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ItemUseCase casos de uso CRUD de productos. Cada mutación corre en una transacción
// que primero lee el estado previo, luego agrega la entrada de historial y por último muta la fila.
type ItemUseCase struct {
	txRunner TxRunner
	items    repository.StockItemRepository
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso. items se usa para lecturas fuera de transacción.
func NewItemUseCase(txRunner TxRunner, items repository.StockItemRepository) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		items:    items,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto y registra la entrada CREATE en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.StockItemRequest) (*dto.StockItemResponse, error) {
	item, err := uc.newItem(in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(items repository.StockItemRepository, history repository.HistoryRepository) error {
		return createWithHistory(ctx, items, history, item)
	})
	if err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// Update reemplaza los campos editables. El snapshot previo se lee con bloqueo de fila
// dentro de la transacción, antes de registrar el historial y aplicar la mutación.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.StockItemRequest) (*dto.StockItemResponse, error) {
	if err := validateRequest(in, false); err != nil {
		return nil, err
	}
	deliveryTime, err := dto.ParseTimestamp(in.DeliveryTime, false)
	if err != nil {
		return nil, fmt.Errorf("%w: deliveryTime: %v", domain.ErrInvalidInput, err)
	}

	var updated *entity.StockItem
	err = uc.txRunner.Run(ctx, func(items repository.StockItemRepository, history repository.HistoryRepository) error {
		old, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}

		next := *old
		next.Location = strings.TrimSpace(in.Location)
		next.Name = strings.TrimSpace(in.Name)
		next.SerialNumber = strings.TrimSpace(in.SerialNumber)
		next.Quantity = in.Quantity
		next.ProjectName = strings.TrimSpace(in.ProjectName)
		next.ProjectNumber = strings.TrimSpace(in.ProjectNumber)
		next.DeliveryTime = deliveryTime
		next.UpdatedAt = uc.now()
		if in.Image != nil {
			next.Image = normalizeImage(in.Image)
		}

		if _, err := apphistory.NewRecorder(history).LogUpdate(ctx, old, &next); err != nil {
			return err
		}
		if err := items.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockItemResponse(updated), nil
}

// Delete registra la entrada DELETE y luego elimina la fila, ambas en la misma transacción.
// El historial del producto sobrevive a la eliminación.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(items repository.StockItemRepository, history repository.HistoryRepository) error {
		old, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		if _, err := apphistory.NewRecorder(history).LogDelete(ctx, old); err != nil {
			return err
		}
		return items.Delete(ctx, id)
	})
}

// GetByID obtiene un producto. Devuelve (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toStockItemResponse(item), nil
}

// List lista productos con filtros, orden y paginación.
func (uc *ItemUseCase) List(ctx context.Context, q dto.StockListQuery) (*dto.StockItemListResponse, error) {
	filter := toFilter(q)
	list, total, err := uc.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StockItemListResponse{
		Items: make([]dto.StockItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, item := range list {
		out.Items = append(out.Items, *toStockItemResponse(item))
		out.TotalQuantity += item.Quantity
	}
	return out, nil
}

// Export devuelve todos los productos, más recientes primero.
func (uc *ItemUseCase) Export(ctx context.Context) ([]dto.StockItemResponse, error) {
	list, _, err := uc.items.List(ctx, repository.StockItemFilter{SortBy: repository.StockSortCreatedAt, SortDesc: true})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, *toStockItemResponse(item))
	}
	return out, nil
}

// Import crea todos los productos en una sola transacción, con una entrada CREATE por producto.
// Si alguno es inválido o falla, no se importa ninguno.
func (uc *ItemUseCase) Import(ctx context.Context, in []dto.StockItemRequest) (int, error) {
	if len(in) == 0 {
		return 0, fmt.Errorf("%w: no hay productos para importar", domain.ErrInvalidInput)
	}
	batch := make([]*entity.StockItem, 0, len(in))
	for i, req := range in {
		item, err := uc.newItem(req)
		if err != nil {
			return 0, fmt.Errorf("producto %d: %w", i+1, err)
		}
		batch = append(batch, item)
	}
	err := uc.txRunner.Run(ctx, func(items repository.StockItemRepository, history repository.HistoryRepository) error {
		for _, item := range batch {
			if err := createWithHistory(ctx, items, history, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

func createWithHistory(ctx context.Context, items repository.StockItemRepository, history repository.HistoryRepository, item *entity.StockItem) error {
	if err := items.Create(ctx, item); err != nil {
		return err
	}
	_, err := apphistory.NewRecorder(history).LogCreate(ctx, item)
	return err
}

func (uc *ItemUseCase) newItem(in dto.StockItemRequest) (*entity.StockItem, error) {
	if err := validateRequest(in, true); err != nil {
		return nil, err
	}
	deliveryTime, err := dto.ParseTimestamp(in.DeliveryTime, false)
	if err != nil {
		return nil, fmt.Errorf("%w: deliveryTime: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	return &entity.StockItem{
		ID:            uuid.New().String(),
		Location:      strings.TrimSpace(in.Location),
		Name:          strings.TrimSpace(in.Name),
		SerialNumber:  strings.TrimSpace(in.SerialNumber),
		Quantity:      in.Quantity,
		ProjectName:   strings.TrimSpace(in.ProjectName),
		ProjectNumber: strings.TrimSpace(in.ProjectNumber),
		DeliveryTime:  deliveryTime,
		CreatedAt:     now,
		UpdatedAt:     now,
		Image:         normalizeImage(in.Image),
	}, nil
}

// validateRequest: name y location obligatorios; cantidad >= 1 al crear y >= 0 al editar.
// La cantidad no puede superar el rango de la columna INTEGER.
func validateRequest(in dto.StockItemRequest, creating bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Location) == "" {
		return fmt.Errorf("%w: location es requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.DeliveryTime) == "" {
		return fmt.Errorf("%w: deliveryTime es requerido", domain.ErrInvalidInput)
	}
	if creating && in.Quantity < 1 {
		return fmt.Errorf("%w: quantity debe ser al menos 1", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Quantity > math.MaxInt32 {
		return fmt.Errorf("%w: quantity no puede superar %d", domain.ErrInvalidInput, math.MaxInt32)
	}
	return nil
}

// normalizeImage: cadena vacía elimina la foto.
func normalizeImage(img *string) *string {
	if img == nil || strings.TrimSpace(*img) == "" {
		return nil
	}
	v := *img
	return &v
}

func toFilter(q dto.StockListQuery) repository.StockItemFilter {
	f := repository.StockItemFilter{
		Search:      strings.TrimSpace(q.Search),
		Location:    strings.TrimSpace(q.Location),
		ProjectName: strings.TrimSpace(q.Project),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	switch q.SortBy {
	case repository.StockSortName, repository.StockSortQuantity, repository.StockSortLocation:
		f.SortBy = q.SortBy
	default:
		f.SortBy = repository.StockSortCreatedAt
	}
	switch strings.ToLower(q.Order) {
	case "asc":
		f.SortDesc = false
	case "desc":
		f.SortDesc = true
	default:
		f.SortDesc = f.SortBy == repository.StockSortCreatedAt
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func toStockItemResponse(item *entity.StockItem) *dto.StockItemResponse {
	return &dto.StockItemResponse{
		ID:            item.ID,
		Location:      item.Location,
		Name:          item.Name,
		SerialNumber:  item.SerialNumber,
		Quantity:      item.Quantity,
		ProjectName:   item.ProjectName,
		ProjectNumber: item.ProjectNumber,
		DeliveryTime:  item.DeliveryTime,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		Image:         item.Image,
	}
}
