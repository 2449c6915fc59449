package stock

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-tracker-api/internal/application/dto"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

// Stats agrega el inventario actual: totales y desglose por ubicación y por proyecto.
// Las tres consultas son independientes y corren en paralelo, cada una con su propia
// conexión. En postgres no comparten snapshot: con escrituras concurrentes TotalQuantity
// puede no coincidir con la suma de ByLocation. Es un tablero de consulta, no un cierre.
func (uc *ItemUseCase) Stats(ctx context.Context) (*dto.StockStatsResponse, error) {
	var (
		totalItems, totalQty int
		byLocation, byProject []entity.StockGroupStat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalItems, totalQty, err = uc.items.Totals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byLocation, err = uc.items.GroupByLocation(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byProject, err = uc.items.GroupByProject(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.StockStatsResponse{
		TotalItems:      totalItems,
		TotalQuantity:   totalQty,
		UniqueLocations: len(byLocation),
		UniqueProjects:  len(byProject),
		ByLocation:      toGroupDTOs(byLocation),
		ByProject:       toGroupDTOs(byProject),
	}, nil
}

func toGroupDTOs(groups []entity.StockGroupStat) []dto.StockGroupDTO {
	out := make([]dto.StockGroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.StockGroupDTO{Key: g.Key, ItemCount: g.ItemCount, Quantity: g.Quantity})
	}
	return out
}
