package service

import (
	"errors"
	"fmt"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/internal/ws"
	"go-retail-inventory/pkg/apperr"
	"go-retail-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "ADD"
	AdjustmentRemove AdjustmentType = "REMOVE"
)

type StockService interface {
	Adjust(req *AdjustStockRequest, userID string) (*model.StockLedgerEntry, error)
	Reserve(req *ReservationRequest, userID string) (*model.StockLedgerEntry, error)
	Release(req *ReservationRequest, userID string) (*model.StockLedgerEntry, error)
	Get(productID, locationID uuid.UUID) (*model.StockLedgerEntry, error)
	GetByLocation(locationID uuid.UUID) ([]model.StockLedgerEntry, error)
}

type AdjustStockRequest struct {
	ProductID  uuid.UUID      `json:"product_id" validate:"uuid_required"`
	LocationID uuid.UUID      `json:"location_id" validate:"uuid_required"`
	Quantity   int            `json:"quantity" validate:"required,gt=0"`
	Type       AdjustmentType `json:"type" validate:"required,oneof=ADD REMOVE"`
	Reason     string         `json:"reason" validate:"required,min=3,max=500"`
}

type ReservationRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"uuid_required"`
	LocationID uuid.UUID `json:"location_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

type stockService struct {
	stockRepo   repository.StockRepository
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewStockService(stockRepo repository.StockRepository, historyRepo repository.HistoryRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		stockRepo:   stockRepo,
		historyRepo: historyRepo,
		db:          db,
		wsHub:       hub,
	}
}

// Adjust applies a manual on-hand correction outside any transfer. Removals
// that would drive on-hand below zero or below the reserved quantity fail
// with INSUFFICIENT_STOCK.
func (s *stockService) Adjust(req *AdjustStockRequest, userID string) (*model.StockLedgerEntry, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	delta := req.Quantity
	if req.Type == AdjustmentRemove {
		delta = -req.Quantity
	}

	return s.mutate(req.ProductID, req.LocationID, userID, model.OpStockAdjusted, req.Reason, true,
		func(entry *model.StockLedgerEntry) error {
			return entry.Adjust(delta)
		})
}

// Reserve places a manual hold on available stock.
func (s *stockService) Reserve(req *ReservationRequest, userID string) (*model.StockLedgerEntry, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}
	return s.mutate(req.ProductID, req.LocationID, userID, model.OpStockReserved, "Manual reservation", false,
		func(entry *model.StockLedgerEntry) error {
			return entry.Reserve(req.Quantity)
		})
}

// Release returns a manual hold to the available pool.
func (s *stockService) Release(req *ReservationRequest, userID string) (*model.StockLedgerEntry, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}
	return s.mutate(req.ProductID, req.LocationID, userID, model.OpStockReleased, "Manual release", false,
		func(entry *model.StockLedgerEntry) error {
			return entry.Release(req.Quantity)
		})
}

func (s *stockService) Get(productID, locationID uuid.UUID) (*model.StockLedgerEntry, error) {
	entry, err := s.stockRepo.Find(productID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("stock ledger entry")
		}
		return nil, err
	}
	return entry, nil
}

func (s *stockService) GetByLocation(locationID uuid.UUID) ([]model.StockLedgerEntry, error) {
	return s.stockRepo.FindByLocation(locationID)
}

// mutate runs one ledger operation under the row lock, records history, and
// broadcasts the updated entry.
func (s *stockService) mutate(productID, locationID uuid.UUID, userID, operation, reason string, revertible bool, op func(*model.StockLedgerEntry) error) (*model.StockLedgerEntry, error) {
	var updated *model.StockLedgerEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := productExists(tx, productID); err != nil {
			return err
		}
		if err := locationExists(tx, locationID); err != nil {
			return err
		}

		entry, err := s.stockRepo.FindForUpdate(tx, productID, locationID)
		if err != nil {
			return err
		}

		oldValues := model.JSONMap{
			"quantity_on_hand":  entry.QuantityOnHand,
			"quantity_reserved": entry.QuantityReserved,
		}
		if err := op(entry); err != nil {
			return err
		}
		if err := s.stockRepo.Save(tx, entry); err != nil {
			return err
		}
		updated = entry

		history := &model.HistoryEntry{
			OperationType: operation,
			EntityType:    "stock_ledger_entry",
			EntityID:      entry.ID,
			OldValues:     oldValues,
			NewValues: model.JSONMap{
				"quantity_on_hand":  entry.QuantityOnHand,
				"quantity_reserved": entry.QuantityReserved,
			},
			Reason:     reason,
			Revertible: revertible,
		}
		history.CreatedBy = userID
		return s.historyRepo.Append(tx, history)
	})
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.BroadcastEvent(ws.Event{
			Type:    "stock_update",
			Action:  operation,
			Payload: updated,
			Message: fmt.Sprintf("Stock updated for product %s", productID),
		})
	}
	return updated, nil
}

func productExists(tx *gorm.DB, id uuid.UUID) error {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product")
		}
		return err
	}
	return nil
}
