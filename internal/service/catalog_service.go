package service

import (
	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/pkg/apperr"
	"go-retail-inventory/pkg/validator"

	"github.com/google/uuid"
)

// CatalogService covers the thin CRUD around products and locations. The
// transfer engine only needs both to exist; there is no business logic here
// beyond uniqueness checks.
type CatalogService interface {
	CreateProduct(req *ProductRequest, userID string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)

	CreateLocation(req *LocationRequest, userID string) (*model.Location, error)
	UpdateLocation(id uuid.UUID, req *LocationRequest, userID string) (*model.Location, error)
	DeleteLocation(id uuid.UUID, userID string) error
	GetAllLocations() ([]model.Location, error)
	GetLocationByID(id uuid.UUID) (*model.Location, error)
}

type ProductRequest struct {
	SKU   string `json:"sku" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Type  string `json:"type" validate:"required"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Price int64  `json:"price" validate:"gte=0"`
}

type LocationRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=WAREHOUSE STORE"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type catalogService struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

func NewCatalogService(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

func (s *catalogService) CreateProduct(req *ProductRequest, userID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	// Legacy clients still send alias names; normalize before validation.
	productType := model.NormalizeProductType(req.Type)
	if !validProductType(productType) {
		return nil, apperr.Validation("type", "unknown product type")
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, apperr.Validation("sku", "SKU already exists")
	}

	product := &model.Product{
		SKU:   req.SKU,
		Name:  req.Name,
		Type:  productType,
		Brand: req.Brand,
		Model: req.Model,
		Price: req.Price,
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID
	product.CreatedByUserID = &userID
	product.UpdatedByUserID = &userID

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	productType := model.NormalizeProductType(req.Type)
	if !validProductType(productType) {
		return nil, apperr.Validation("type", "unknown product type")
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}

	if req.SKU != product.SKU {
		existing, _ := s.productRepo.FindBySKU(req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return nil, apperr.Validation("sku", "SKU already exists")
		}
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Type = productType
	product.Brand = req.Brand
	product.Model = req.Model
	product.Price = req.Price
	product.UpdatedBy = userID
	product.UpdatedByUserID = &userID

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return apperr.NotFound("product")
	}
	return s.productRepo.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	return product, nil
}

func (s *catalogService) CreateLocation(req *LocationRequest, userID string) (*model.Location, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	existing, _ := s.locationRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, apperr.Validation("code", "location code already exists")
	}

	location := &model.Location{
		Code:     req.Code,
		Name:     req.Name,
		Type:     model.LocationType(req.Type),
		Address:  req.Address,
		IsActive: true,
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}
	location.CreatedBy = userID
	location.UpdatedBy = userID

	if err := s.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *catalogService) UpdateLocation(id uuid.UUID, req *LocationRequest, userID string) (*model.Location, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	location, err := s.locationRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("location")
	}

	if req.Code != location.Code {
		existing, _ := s.locationRepo.FindByCode(req.Code)
		if existing != nil && existing.ID != uuid.Nil {
			return nil, apperr.Validation("code", "location code already exists")
		}
	}

	location.Code = req.Code
	location.Name = req.Name
	location.Type = model.LocationType(req.Type)
	location.Address = req.Address
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}
	location.UpdatedBy = userID

	if err := s.locationRepo.Update(location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *catalogService) DeleteLocation(id uuid.UUID, userID string) error {
	if _, err := s.locationRepo.FindByID(id); err != nil {
		return apperr.NotFound("location")
	}
	return s.locationRepo.Delete(id)
}

func (s *catalogService) GetAllLocations() ([]model.Location, error) {
	return s.locationRepo.FindAll()
}

func (s *catalogService) GetLocationByID(id uuid.UUID) (*model.Location, error) {
	location, err := s.locationRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("location")
	}
	return location, nil
}

func validProductType(t model.ProductType) bool {
	switch t {
	case model.ProductPhone, model.ProductTablet, model.ProductAccessory, model.ProductSparePart, model.ProductOther:
		return true
	}
	return false
}
