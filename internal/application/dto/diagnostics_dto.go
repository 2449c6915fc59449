package dto

// DatabaseStatusResponse respuesta de GET /api/health/db.
type DatabaseStatusResponse struct {
	Status             string `json:"status"` // connected | error
	Database           string `json:"database"`
	ServerVersion      string `json:"serverVersion,omitempty"`
	LatencyMs          int64  `json:"latencyMs"`
	StockTableExists   bool   `json:"stockTableExists"`
	HistoryTableExists bool   `json:"historyTableExists"`
	SchemaVersion      int64  `json:"schemaVersion"`
}

// SetupResponse respuesta de POST /api/setup.
type SetupResponse struct {
	Status        string `json:"status"` // up_to_date | migrated
	SchemaVersion int64  `json:"schemaVersion"`
	Applied       int    `json:"applied"`
}
