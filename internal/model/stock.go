package model

import (
	"fmt"

	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
)

// StockLedgerEntry tracks on-hand and reserved quantities for one
// product×location pair. Rows are created lazily on first use and never
// deleted. All mutation goes through the methods below; UI-facing code
// never writes the columns directly.
type StockLedgerEntry struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location,priority:1" json:"product_id"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location,priority:2" json:"location_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	QuantityOnHand   int `gorm:"not null;default:0" json:"quantity_on_hand"`
	QuantityReserved int `gorm:"not null;default:0" json:"quantity_reserved"`
}

// QuantityAvailable is on-hand minus reserved: the amount eligible for new
// reservations or sales.
func (e *StockLedgerEntry) QuantityAvailable() int {
	return e.QuantityOnHand - e.QuantityReserved
}

// Reserve places a hold on qty units. Availability drops, on-hand does not.
func (e *StockLedgerEntry) Reserve(qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity", "reserve quantity must be positive")
	}
	if e.QuantityAvailable() < qty {
		return apperr.InsufficientStock(fmt.Sprintf(
			"cannot reserve %d units: only %d available", qty, e.QuantityAvailable()))
	}
	e.QuantityReserved += qty
	return nil
}

// Release returns qty previously reserved units to the available pool.
// Releasing more than is reserved is a programming error, reported rather
// than clamped.
func (e *StockLedgerEntry) Release(qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity", "release quantity must be positive")
	}
	if qty > e.QuantityReserved {
		return apperr.InvalidState(fmt.Sprintf(
			"cannot release %d units: only %d reserved", qty, e.QuantityReserved))
	}
	e.QuantityReserved -= qty
	return nil
}

// CommitOut consumes a reservation: both reserved and on-hand drop by qty.
// Used at the source location when a transfer is confirmed.
func (e *StockLedgerEntry) CommitOut(qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity", "commit quantity must be positive")
	}
	if qty > e.QuantityReserved {
		return apperr.InvalidState(fmt.Sprintf(
			"cannot commit %d units out: only %d reserved", qty, e.QuantityReserved))
	}
	if qty > e.QuantityOnHand {
		return apperr.InvalidState(fmt.Sprintf(
			"cannot commit %d units out: only %d on hand", qty, e.QuantityOnHand))
	}
	e.QuantityReserved -= qty
	e.QuantityOnHand -= qty
	return nil
}

// CommitIn adds qty accepted units to on-hand at the destination location.
func (e *StockLedgerEntry) CommitIn(qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity", "commit quantity must be positive")
	}
	e.QuantityOnHand += qty
	return nil
}

// Adjust applies a manual correction, positive or negative, independent of
// any transfer. It may not drive on-hand below zero or below the currently
// reserved quantity.
func (e *StockLedgerEntry) Adjust(delta int) error {
	if delta == 0 {
		return apperr.Validation("quantity", "adjustment quantity must not be zero")
	}
	newOnHand := e.QuantityOnHand + delta
	if newOnHand < 0 {
		return apperr.InsufficientStock(fmt.Sprintf(
			"cannot remove %d units: only %d on hand", -delta, e.QuantityOnHand))
	}
	if newOnHand < e.QuantityReserved {
		return apperr.InsufficientStock(fmt.Sprintf(
			"cannot remove %d units: %d are reserved", -delta, e.QuantityReserved))
	}
	e.QuantityOnHand = newOnHand
	return nil
}
