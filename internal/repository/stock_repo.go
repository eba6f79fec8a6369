package repository

import (
	"errors"

	"go-retail-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the only gateway to stock ledger rows. Mutating callers
// run inside a transaction and take the row lock via FindForUpdate; the
// arithmetic itself lives on model.StockLedgerEntry.
type StockRepository interface {
	// FindForUpdate loads the ledger row for a product×location pair with a
	// row lock, creating a zero row on first reference.
	FindForUpdate(tx *gorm.DB, productID, locationID uuid.UUID) (*model.StockLedgerEntry, error)
	Save(tx *gorm.DB, entry *model.StockLedgerEntry) error
	Find(productID, locationID uuid.UUID) (*model.StockLedgerEntry, error)
	FindByLocation(locationID uuid.UUID) ([]model.StockLedgerEntry, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) FindForUpdate(tx *gorm.DB, productID, locationID uuid.UUID) (*model.StockLedgerEntry, error) {
	var entry model.StockLedgerEntry
	err := forUpdate(tx).
		First(&entry, "product_id = ? AND location_id = ?", productID, locationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = model.StockLedgerEntry{ProductID: productID, LocationID: locationID}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepo) Save(tx *gorm.DB, entry *model.StockLedgerEntry) error {
	return tx.Model(&model.StockLedgerEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"quantity_on_hand":  entry.QuantityOnHand,
			"quantity_reserved": entry.QuantityReserved,
		}).Error
}

func (r *stockRepo) Find(productID, locationID uuid.UUID) (*model.StockLedgerEntry, error) {
	var entry model.StockLedgerEntry
	err := r.db.Preload("Product").Preload("Location").
		First(&entry, "product_id = ? AND location_id = ?", productID, locationID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepo) FindByLocation(locationID uuid.UUID) ([]model.StockLedgerEntry, error) {
	var entries []model.StockLedgerEntry
	err := r.db.Preload("Product").
		Where("location_id = ?", locationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
