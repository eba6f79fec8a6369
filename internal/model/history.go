package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// History operation types emitted by the core services.
const (
	OpTransferCreated   = "TRANSFER_CREATED"
	OpTransferConfirmed = "TRANSFER_CONFIRMED"
	OpTransferRejected  = "TRANSFER_REJECTED"
	OpTransferCancelled = "TRANSFER_CANCELLED"
	OpTransferDeleted   = "TRANSFER_DELETED"
	OpStockAdjusted     = "STOCK_ADJUSTED"
	OpStockReserved     = "STOCK_RESERVED"
	OpStockReleased     = "STOCK_RELEASED"
)

// JSONMap stores an arbitrary JSON object in a single column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

// HistoryEntry is the append-only audit record written alongside every
// state-changing operation, in the same database transaction. The core only
// writes these; search and revert live elsewhere.
type HistoryEntry struct {
	BaseModel
	OperationType string    `gorm:"type:varchar(50);not null;index" json:"operation_type"`
	EntityType    string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID      uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	OldValues     JSONMap   `gorm:"type:jsonb" json:"old_values,omitempty"`
	NewValues     JSONMap   `gorm:"type:jsonb" json:"new_values,omitempty"`
	Reason        string    `gorm:"type:varchar(500)" json:"reason"`
	Revertible    bool      `gorm:"default:false" json:"revertible"`
}
