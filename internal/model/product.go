package model

type ProductType string

const (
	ProductPhone     ProductType = "PHONE"
	ProductTablet    ProductType = "TABLET"
	ProductAccessory ProductType = "ACCESSORY"
	ProductSparePart ProductType = "SPARE_PART"
	ProductOther     ProductType = "OTHER"
)

// NormalizeProductType maps legacy aliases onto the canonical enum. Older
// clients still send OTHER_PRODUCT; the alias never reaches storage.
func NormalizeProductType(raw string) ProductType {
	switch raw {
	case "OTHER_PRODUCT":
		return ProductOther
	default:
		return ProductType(raw)
	}
}

// Product is catalog data only. Per-location quantities live in the stock
// ledger, never on the product row.
type Product struct {
	BaseModel
	SKU   string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name  string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Type  ProductType `gorm:"type:varchar(20);not null;default:'OTHER'" json:"type" validate:"required,product_type"`
	Brand string      `gorm:"type:varchar(100)" json:"brand"`
	Model string      `gorm:"type:varchar(100)" json:"model"`
	Price int64       `gorm:"default:0" json:"price"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}
