package repository

import (
	"go-retail-inventory/internal/model"

	"gorm.io/gorm"
)

// HistoryRepository is a write-sink: the core appends one entry per
// state-changing operation and never reads them back.
type HistoryRepository interface {
	Append(tx *gorm.DB, entry *model.HistoryEntry) error
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) Append(tx *gorm.DB, entry *model.HistoryEntry) error {
	return tx.Create(entry).Error
}
