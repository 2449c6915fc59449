package dto

import "time"

// StockItemRequest body para POST /api/stock y PUT /api/stock/:id.
// DeliveryTime acepta RFC3339 o YYYY-MM-DD.
type StockItemRequest struct {
	Location      string  `json:"location"`
	Name          string  `json:"name"`
	SerialNumber  string  `json:"serialNumber"`
	Quantity      int     `json:"quantity"`
	ProjectName   string  `json:"projectName"`
	ProjectNumber string  `json:"projectNumber"`
	DeliveryTime  string  `json:"deliveryTime"`
	Image         *string `json:"image,omitempty"`
}

// StockItemResponse salida de un producto.
type StockItemResponse struct {
	ID            string    `json:"id"`
	Location      string    `json:"location"`
	Name          string    `json:"name"`
	SerialNumber  string    `json:"serialNumber"`
	Quantity      int       `json:"quantity"`
	ProjectName   string    `json:"projectName"`
	ProjectNumber string    `json:"projectNumber"`
	DeliveryTime  time.Time `json:"deliveryTime"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Image         *string   `json:"image"`
}

// StockListQuery parámetros de GET /api/stock.
type StockListQuery struct {
	Search   string
	Location string
	Project  string
	SortBy   string
	Order    string // asc | desc
	Limit    int
	Offset   int
}

// StockItemListResponse lista paginada de productos.
type StockItemListResponse struct {
	Items         []StockItemResponse `json:"items"`
	TotalQuantity int                 `json:"totalQuantity"` // unidades de la página
	Page          PageResponse        `json:"page"`
}

// StockGroupDTO agregado por ubicación o proyecto.
type StockGroupDTO struct {
	Key       string `json:"key"`
	ItemCount int    `json:"itemCount"`
	Quantity  int    `json:"quantity"`
}

// StockStatsResponse respuesta de GET /api/stock/stats.
type StockStatsResponse struct {
	TotalItems      int             `json:"totalItems"`
	TotalQuantity   int             `json:"totalQuantity"`
	UniqueLocations int             `json:"uniqueLocations"`
	UniqueProjects  int             `json:"uniqueProjects"`
	ByLocation      []StockGroupDTO `json:"byLocation"`
	ByProject       []StockGroupDTO `json:"byProject"`
}

// ImportResponse resultado de POST /api/stock/import.
type ImportResponse struct {
	Imported int `json:"imported"`
}
