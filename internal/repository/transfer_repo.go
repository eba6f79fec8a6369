package repository

import (
	"go-retail-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferRepository interface {
	Create(tx *gorm.DB, transfer *model.Transfer) error
	FindByID(id uuid.UUID) (*model.Transfer, error)
	// FindByIDForUpdate loads the transfer row with a row lock so concurrent
	// transitions on the same transfer serialize.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Transfer, error)
	Save(tx *gorm.DB, transfer *model.Transfer) error
	SaveItem(tx *gorm.DB, item *model.TransferItem) error
	Delete(tx *gorm.DB, transfer *model.Transfer) error
	HasChild(tx *gorm.DB, parentID uuid.UUID) (bool, error)
	FindIncoming(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error)
	FindOutgoing(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error)
}

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db}
}

func (r *transferRepo) Create(tx *gorm.DB, transfer *model.Transfer) error {
	return tx.Create(transfer).Error
}

func (r *transferRepo) FindByID(id uuid.UUID) (*model.Transfer, error) {
	var transfer model.Transfer
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("transfer_items.created_at ASC") }).
		Preload("Items.Product").
		Preload("FromLocation").Preload("ToLocation").
		Preload("InitiatedByUser").
		First(&transfer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Transfer, error) {
	var transfer model.Transfer
	if err := forUpdate(tx).First(&transfer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Items are loaded after the lock is held so the snapshot is stable.
	if err := tx.Order("created_at ASC").
		Find(&transfer.Items, "transfer_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepo) Save(tx *gorm.DB, transfer *model.Transfer) error {
	return tx.Omit("Items", "FromLocation", "ToLocation", "InitiatedByUser").Save(transfer).Error
}

func (r *transferRepo) SaveItem(tx *gorm.DB, item *model.TransferItem) error {
	return tx.Omit("Product").Save(item).Error
}

func (r *transferRepo) Delete(tx *gorm.DB, transfer *model.Transfer) error {
	if err := tx.Delete(&model.TransferItem{}, "transfer_id = ?", transfer.ID).Error; err != nil {
		return err
	}
	return tx.Delete(transfer).Error
}

func (r *transferRepo) HasChild(tx *gorm.DB, parentID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.Transfer{}).
		Where("parent_transfer_id = ?", parentID).
		Count(&count).Error
	return count > 0, err
}

func (r *transferRepo) findByLocation(column string, locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error) {
	var transfers []model.Transfer
	q := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("transfer_items.created_at ASC") }).
		Preload("Items.Product").
		Preload("FromLocation").Preload("ToLocation").
		Where(column+" = ?", locationID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&transfers).Error
	return transfers, err
}

func (r *transferRepo) FindIncoming(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error) {
	return r.findByLocation("to_location_id", locationID, status)
}

func (r *transferRepo) FindOutgoing(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error) {
	return r.findByLocation("from_location_id", locationID, status)
}
