package repository

import (
	"go-retail-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(location *model.Location) error
	FindAll() ([]model.Location, error)
	FindByID(id uuid.UUID) (*model.Location, error)
	FindByCode(code string) (*model.Location, error)
	Update(location *model.Location) error
	Delete(id uuid.UUID) error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepo) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("code ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) FindByID(id uuid.UUID) (*model.Location, error) {
	var location model.Location
	err := r.db.First(&location, "id = ?", id).Error
	return &location, err
}

func (r *locationRepo) FindByCode(code string) (*model.Location, error) {
	var location model.Location
	err := r.db.First(&location, "code = ?", code).Error
	return &location, err
}

func (r *locationRepo) Update(location *model.Location) error {
	return r.db.Save(location).Error
}

func (r *locationRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Location{}, "id = ?", id).Error
}
