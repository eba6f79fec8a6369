package service

import (
	"errors"
	"fmt"
	"time"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/internal/ws"
	"go-retail-inventory/pkg/apperr"
	"go-retail-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferService interface {
	Create(req *CreateTransferRequest, userID string) (*model.Transfer, error)
	Confirm(id uuid.UUID, req *ConfirmTransferRequest, userID string) (*ConfirmResult, error)
	Reject(id uuid.UUID, reason, userID string) (*model.Transfer, error)
	Cancel(id uuid.UUID, reason, userID string) (*model.Transfer, error)
	Delete(id uuid.UUID, userID string) error
	GetByID(id uuid.UUID) (*model.Transfer, error)
	ListIncoming(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error)
	ListOutgoing(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error)
}

type CreateTransferRequest struct {
	FromLocationID uuid.UUID            `json:"from_location_id" validate:"uuid_required"`
	ToLocationID   uuid.UUID            `json:"to_location_id" validate:"uuid_required"`
	Reason         string               `json:"reason" validate:"required,min=3,max=500"`
	Notes          string               `json:"notes"`
	Items          []CreateTransferItem `json:"items" validate:"required,min=1,dive"`
}

type CreateTransferItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// ConfirmTransferRequest carries the destination's acceptance decision.
// Omitting AcceptedItems means full acceptance of every line.
type ConfirmTransferRequest struct {
	Notes         string         `json:"notes"`
	AcceptedItems []AcceptedItem `json:"accepted_items,omitempty"`
}

type AcceptedItem struct {
	TransferItemID   uuid.UUID `json:"transfer_item_id" validate:"uuid_required"`
	AcceptedQuantity int       `json:"accepted_quantity"`
}

// ConfirmResult reports the completed transfer and, when quantities were
// rejected, the id of the compensating return transfer.
type ConfirmResult struct {
	Transfer         *model.Transfer `json:"transfer"`
	ReturnTransferID *uuid.UUID      `json:"return_transfer_id,omitempty"`
}

type transferService struct {
	transferRepo repository.TransferRepository
	stockRepo    repository.StockRepository
	historyRepo  repository.HistoryRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewTransferService(
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
	historyRepo repository.HistoryRepository,
	db *gorm.DB,
	hub *ws.Hub,
) TransferService {
	return &transferService{
		transferRepo: transferRepo,
		stockRepo:    stockRepo,
		historyRepo:  historyRepo,
		db:           db,
		wsHub:        hub,
	}
}

// Create validates the request, reserves the requested quantity of every
// item at the source location, and persists a PENDING transfer. Reservations
// and the transfer row commit together; if any single reservation fails the
// whole create rolls back and no reservation is left behind.
func (s *transferService) Create(req *CreateTransferRequest, userID string) (*model.Transfer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, apperr.Validation("to_location_id", "source and destination locations must differ")
	}

	var transferID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := locationExists(tx, req.FromLocationID); err != nil {
			return err
		}
		if err := locationExists(tx, req.ToLocationID); err != nil {
			return err
		}

		transfer := &model.Transfer{
			FromLocationID:    req.FromLocationID,
			ToLocationID:      req.ToLocationID,
			Status:            model.TransferPending,
			Reason:            req.Reason,
			Notes:             req.Notes,
			InitiatedByUserID: &userID,
		}
		transfer.CreatedBy = userID
		transfer.UpdatedBy = userID

		for _, line := range req.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product")
				}
				return err
			}
			item := model.TransferItem{
				ProductID:         product.ID,
				ProductType:       product.Type,
				ProductBrand:      product.Brand,
				ProductModel:      product.Model,
				QuantityRequested: line.Quantity,
			}
			item.CreatedBy = userID
			item.UpdatedBy = userID
			transfer.Items = append(transfer.Items, item)
		}

		// Reserve in item order. A failure aborts the transaction, which
		// releases every reservation made so far.
		for _, line := range req.Items {
			entry, err := s.stockRepo.FindForUpdate(tx, line.ProductID, req.FromLocationID)
			if err != nil {
				return err
			}
			if err := entry.Reserve(line.Quantity); err != nil {
				return err
			}
			if err := s.stockRepo.Save(tx, entry); err != nil {
				return err
			}
		}

		if err := s.transferRepo.Create(tx, transfer); err != nil {
			return err
		}
		transferID = transfer.ID

		return s.appendTransferHistory(tx, model.OpTransferCreated, transfer, nil, model.JSONMap{
			"status":           string(transfer.Status),
			"from_location_id": transfer.FromLocationID.String(),
			"to_location_id":   transfer.ToLocationID.String(),
			"item_count":       len(transfer.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	created, err := s.transferRepo.FindByID(transferID)
	if err != nil {
		return nil, err
	}
	s.broadcast("transfer_created", created, fmt.Sprintf("Transfer %s created", created.ID))
	return created, nil
}

// Confirm applies the destination's acceptance decision to both ledgers,
// spawns a compensating return transfer when quantities were rejected, and
// marks the transfer COMPLETED. Ledger deltas are applied per item in
// ascending item order so identical inputs produce identical deltas.
func (s *transferService) Confirm(id uuid.UUID, req *ConfirmTransferRequest, userID string) (*ConfirmResult, error) {
	var accepted map[uuid.UUID]int
	notes := ""
	if req != nil {
		notes = req.Notes
		if len(req.AcceptedItems) > 0 {
			accepted = make(map[uuid.UUID]int, len(req.AcceptedItems))
			for _, a := range req.AcceptedItems {
				accepted[a.TransferItemID] = a.AcceptedQuantity
			}
		}
	}

	var returnID *uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transfer, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if transfer.IsTerminal() {
			return apperr.InvalidState(fmt.Sprintf(
				"cannot confirm transfer in status %s", transfer.Status))
		}

		splits, summary, err := ResolveAcceptance(transfer.Items, accepted)
		if err != nil {
			return err
		}

		// Accepted quantities move source → destination.
		for _, split := range splits {
			if split.Accepted == 0 {
				continue
			}
			src, err := s.stockRepo.FindForUpdate(tx, split.Item.ProductID, transfer.FromLocationID)
			if err != nil {
				return err
			}
			if err := src.CommitOut(split.Accepted); err != nil {
				return err
			}
			if err := s.stockRepo.Save(tx, src); err != nil {
				return err
			}

			dst, err := s.stockRepo.FindForUpdate(tx, split.Item.ProductID, transfer.ToLocationID)
			if err != nil {
				return err
			}
			if err := dst.CommitIn(split.Accepted); err != nil {
				return err
			}
			if err := s.stockRepo.Save(tx, dst); err != nil {
				return err
			}
		}

		// Rejected quantities stop being reserved at the source; the return
		// transfer created below takes over that stock's custody.
		for _, split := range splits {
			if split.Rejected == 0 {
				continue
			}
			src, err := s.stockRepo.FindForUpdate(tx, split.Item.ProductID, transfer.FromLocationID)
			if err != nil {
				return err
			}
			if err := src.Release(split.Rejected); err != nil {
				return err
			}
			if err := s.stockRepo.Save(tx, src); err != nil {
				return err
			}
		}

		if summary.TotalRejected > 0 {
			returnTransfer, err := s.createReturnTransfer(tx, transfer, splits, userID)
			if err != nil {
				return err
			}
			rid := returnTransfer.ID
			returnID = &rid
		}

		for _, split := range splits {
			qty := split.Accepted
			split.Item.QuantityAccepted = &qty
			split.Item.UpdatedBy = userID
			if err := s.transferRepo.SaveItem(tx, split.Item); err != nil {
				return err
			}
		}

		if err := transfer.MarkCompleted(time.Now()); err != nil {
			return err
		}
		if notes != "" {
			transfer.Notes = notes
		}
		transfer.UpdatedBy = userID
		if err := s.transferRepo.Save(tx, transfer); err != nil {
			return err
		}

		newValues := model.JSONMap{
			"status":          string(model.TransferCompleted),
			"total_requested": summary.TotalRequested,
			"total_accepted":  summary.TotalAccepted,
			"total_rejected":  summary.TotalRejected,
		}
		if returnID != nil {
			newValues["return_transfer_id"] = returnID.String()
		}
		return s.appendTransferHistory(tx, model.OpTransferConfirmed, transfer,
			model.JSONMap{"status": string(model.TransferPending)}, newValues)
	})
	if err != nil {
		return nil, err
	}

	confirmed, err := s.transferRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.broadcast("transfer_confirmed", confirmed, fmt.Sprintf("Transfer %s confirmed", confirmed.ID))
	return &ConfirmResult{Transfer: confirmed, ReturnTransferID: returnID}, nil
}

// Reject releases the full source reservation and marks the transfer
// REJECTED. A reason is required.
func (s *transferService) Reject(id uuid.UUID, reason, userID string) (*model.Transfer, error) {
	return s.terminate(id, userID, model.OpTransferRejected, func(t *model.Transfer) error {
		return t.MarkRejected(reason, time.Now())
	})
}

// Cancel is the initiator-side twin of Reject; the reason is optional.
func (s *transferService) Cancel(id uuid.UUID, reason, userID string) (*model.Transfer, error) {
	return s.terminate(id, userID, model.OpTransferCancelled, func(t *model.Transfer) error {
		return t.MarkCancelled(reason, time.Now())
	})
}

// terminate handles the shared reject/cancel path: transition the state
// machine, release every item's reservation at the source, record history.
func (s *transferService) terminate(id uuid.UUID, userID, operation string, mark func(*model.Transfer) error) (*model.Transfer, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transfer, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := mark(transfer); err != nil {
			return err
		}

		for i := range transfer.Items {
			item := &transfer.Items[i]
			entry, err := s.stockRepo.FindForUpdate(tx, item.ProductID, transfer.FromLocationID)
			if err != nil {
				return err
			}
			if err := entry.Release(item.QuantityRequested); err != nil {
				return err
			}
			if err := s.stockRepo.Save(tx, entry); err != nil {
				return err
			}
		}

		transfer.UpdatedBy = userID
		if err := s.transferRepo.Save(tx, transfer); err != nil {
			return err
		}

		reason := transfer.RejectionReason
		if operation == model.OpTransferCancelled {
			reason = transfer.CancellationReason
		}
		return s.appendTransferHistory(tx, operation, transfer,
			model.JSONMap{"status": string(model.TransferPending)},
			model.JSONMap{"status": string(transfer.Status), "reason": reason})
	})
	if err != nil {
		return nil, err
	}

	transfer, err := s.transferRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	action := "transfer_rejected"
	if operation == model.OpTransferCancelled {
		action = "transfer_cancelled"
	}
	s.broadcast(action, transfer, fmt.Sprintf("Transfer %s %s", transfer.ID, transfer.Status))
	return transfer, nil
}

// Delete removes a transfer record entirely. Only CANCELLED and REJECTED
// transfers qualify; they hold no stock.
func (s *transferService) Delete(id uuid.UUID, userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		transfer, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if !transfer.Deletable() {
			return apperr.InvalidState(fmt.Sprintf(
				"cannot delete transfer in status %s", transfer.Status))
		}
		if err := s.transferRepo.Delete(tx, transfer); err != nil {
			return err
		}
		return s.appendTransferHistory(tx, model.OpTransferDeleted, transfer,
			model.JSONMap{"status": string(transfer.Status)}, nil)
	})
}

func (s *transferService) GetByID(id uuid.UUID) (*model.Transfer, error) {
	transfer, err := s.transferRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transfer")
		}
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) ListIncoming(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error) {
	return s.transferRepo.FindIncoming(locationID, status)
}

func (s *transferService) ListOutgoing(locationID uuid.UUID, status model.TransferStatus) ([]model.Transfer, error) {
	return s.transferRepo.FindOutgoing(locationID, status)
}

func (s *transferService) loadForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Transfer, error) {
	transfer, err := s.transferRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transfer")
		}
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) appendTransferHistory(tx *gorm.DB, operation string, transfer *model.Transfer, oldValues, newValues model.JSONMap) error {
	entry := &model.HistoryEntry{
		OperationType: operation,
		EntityType:    "transfer",
		EntityID:      transfer.ID,
		OldValues:     oldValues,
		NewValues:     newValues,
		Reason:        transfer.Reason,
	}
	entry.CreatedBy = transfer.UpdatedBy
	return s.historyRepo.Append(tx, entry)
}

func (s *transferService) broadcast(action string, transfer *model.Transfer, message string) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastEvent(ws.Event{
		Type:    "transfer_update",
		Action:  action,
		Payload: transfer,
		Message: message,
	})
}

func locationExists(tx *gorm.DB, id uuid.UUID) error {
	var location model.Location
	if err := tx.First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("location")
		}
		return err
	}
	return nil
}
