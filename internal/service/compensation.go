package service

import (
	"fmt"

	"go-retail-inventory/internal/model"

	"go-retail-inventory/pkg/apperr"

	"gorm.io/gorm"
)

// createReturnTransfer builds the compensating transfer for the rejected
// portion of a partially accepted confirm: direction reversed, one item per
// rejected line, linked to the original through ParentTransferID. The
// rejected quantity is reserved at the new source (the original destination)
// inside the caller's transaction, exactly like any user-initiated transfer.
//
// A transfer can have at most one direct child. The state machine's
// single-confirm rule makes a second call unreachable; hitting the guard
// means a bug upstream.
func (s *transferService) createReturnTransfer(tx *gorm.DB, original *model.Transfer, splits []ItemSplit, userID string) (*model.Transfer, error) {
	compensated, err := s.transferRepo.HasChild(tx, original.ID)
	if err != nil {
		return nil, err
	}
	if compensated {
		return nil, apperr.AlreadyCompensated(original.ID.String())
	}

	parentID := original.ID
	returnTransfer := &model.Transfer{
		FromLocationID:    original.ToLocationID,
		ToLocationID:      original.FromLocationID,
		Status:            model.TransferPending,
		Reason:            fmt.Sprintf("Return of rejected quantities from transfer %s", original.ID),
		ParentTransferID:  &parentID,
		InitiatedByUserID: &userID,
	}
	returnTransfer.CreatedBy = userID
	returnTransfer.UpdatedBy = userID

	for _, split := range splits {
		if split.Rejected == 0 {
			continue
		}
		item := model.TransferItem{
			ProductID:         split.Item.ProductID,
			ProductType:       split.Item.ProductType,
			ProductBrand:      split.Item.ProductBrand,
			ProductModel:      split.Item.ProductModel,
			QuantityRequested: split.Rejected,
		}
		item.CreatedBy = userID
		item.UpdatedBy = userID
		returnTransfer.Items = append(returnTransfer.Items, item)

		entry, err := s.stockRepo.FindForUpdate(tx, split.Item.ProductID, returnTransfer.FromLocationID)
		if err != nil {
			return nil, err
		}
		if err := entry.Reserve(split.Rejected); err != nil {
			return nil, err
		}
		if err := s.stockRepo.Save(tx, entry); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Create(tx, returnTransfer); err != nil {
		return nil, err
	}

	if err := s.appendTransferHistory(tx, model.OpTransferCreated, returnTransfer, nil, model.JSONMap{
		"status":             string(returnTransfer.Status),
		"from_location_id":   returnTransfer.FromLocationID.String(),
		"to_location_id":     returnTransfer.ToLocationID.String(),
		"parent_transfer_id": original.ID.String(),
		"item_count":         len(returnTransfer.Items),
	}); err != nil {
		return nil, err
	}

	return returnTransfer, nil
}
