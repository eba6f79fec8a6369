package model

type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationStore     LocationType = "STORE"
)

// Location is a stock-holding site (warehouse or retail store). Transfers
// move quantities between two locations' ledgers.
type Location struct {
	BaseModel
	Code     string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name     string       `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Type     LocationType `gorm:"type:varchar(20);not null;default:'STORE'" json:"type" validate:"required,oneof=WAREHOUSE STORE"`
	Address  string       `gorm:"type:text" json:"address"`
	IsActive bool         `gorm:"default:true" json:"is_active"`
}
