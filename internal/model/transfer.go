package model

import (
	"fmt"
	"time"

	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Reason length bounds shared by create/reject/cancel validation.
const (
	ReasonMinLen = 3
	ReasonMaxLen = 500
)

// Transfer moves product quantities from one location's ledger to another's
// through a request/confirm lifecycle. PENDING is the only non-terminal
// state; the terminal timestamp matching the status is set exactly once.
type Transfer struct {
	BaseModel
	FromLocationID uuid.UUID `gorm:"type:uuid;not null;index" json:"from_location_id" validate:"uuid_required"`
	ToLocationID   uuid.UUID `gorm:"type:uuid;not null;index" json:"to_location_id" validate:"uuid_required"`
	FromLocation   *Location `gorm:"foreignKey:FromLocationID" json:"from_location,omitempty"`
	ToLocation     *Location `gorm:"foreignKey:ToLocationID" json:"to_location,omitempty"`

	Status TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Reason string         `gorm:"type:varchar(500);not null" json:"reason" validate:"required,min=3,max=500"`
	Notes  string         `gorm:"type:text" json:"notes"`

	// Set when this transfer compensates a partially accepted parent.
	ParentTransferID *uuid.UUID `gorm:"type:uuid;index" json:"parent_transfer_id,omitempty"`

	RejectionReason    string `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	CancellationReason string `gorm:"type:varchar(500)" json:"cancellation_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	InitiatedByUserID *string `gorm:"type:varchar(255)" json:"initiated_by_user_id,omitempty"`
	InitiatedByUser   *User   `gorm:"foreignKey:InitiatedByUserID;references:ID" json:"initiated_by_user,omitempty"`

	Items []TransferItem `gorm:"foreignKey:TransferID" json:"items" validate:"required,min=1,dive"`
}

// TransferItem is one product line of a transfer. QuantityAccepted stays nil
// until the transfer is confirmed.
type TransferItem struct {
	BaseModel
	TransferID uuid.UUID `gorm:"type:uuid;not null;index" json:"transfer_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	// Denormalized for display so transfer lists don't join the catalog.
	ProductType  ProductType `gorm:"type:varchar(20)" json:"product_type"`
	ProductBrand string      `gorm:"type:varchar(100)" json:"product_brand"`
	ProductModel string      `gorm:"type:varchar(100)" json:"product_model"`

	QuantityRequested int  `gorm:"not null" json:"quantity_requested" validate:"required,gt=0"`
	QuantityAccepted  *int `json:"quantity_accepted,omitempty"`
}

// QuantityRejected is derived; zero until the transfer is confirmed.
func (i *TransferItem) QuantityRejected() int {
	if i.QuantityAccepted == nil {
		return 0
	}
	return i.QuantityRequested - *i.QuantityAccepted
}

// IsTerminal reports whether the transfer has left PENDING.
func (t *Transfer) IsTerminal() bool {
	return t.Status != TransferPending
}

// Deletable reports whether the record may be removed entirely. Only
// terminal, non-stock-bearing states qualify.
func (t *Transfer) Deletable() bool {
	return t.Status == TransferCancelled || t.Status == TransferRejected
}

func (t *Transfer) requirePending(action string) error {
	if t.Status != TransferPending {
		return apperr.InvalidState(fmt.Sprintf(
			"cannot %s transfer in status %s", action, t.Status))
	}
	return nil
}

// MarkCompleted transitions PENDING → COMPLETED and stamps confirmedAt.
func (t *Transfer) MarkCompleted(at time.Time) error {
	if err := t.requirePending("confirm"); err != nil {
		return err
	}
	t.Status = TransferCompleted
	t.ConfirmedAt = &at
	return nil
}

// MarkRejected transitions PENDING → REJECTED. The reason is required and
// length-bounded.
func (t *Transfer) MarkRejected(reason string, at time.Time) error {
	if err := t.requirePending("reject"); err != nil {
		return err
	}
	if len(reason) < ReasonMinLen {
		return apperr.Validation("rejection_reason", fmt.Sprintf(
			"rejection reason must be at least %d characters", ReasonMinLen))
	}
	if len(reason) > ReasonMaxLen {
		return apperr.Validation("rejection_reason", fmt.Sprintf(
			"rejection reason must be at most %d characters", ReasonMaxLen))
	}
	t.Status = TransferRejected
	t.RejectionReason = reason
	t.RejectedAt = &at
	return nil
}

// MarkCancelled transitions PENDING → CANCELLED. Cancellation is the
// initiator-side twin of reject; the reason is optional.
func (t *Transfer) MarkCancelled(reason string, at time.Time) error {
	if err := t.requirePending("cancel"); err != nil {
		return err
	}
	if reason == "" {
		reason = "Cancelled by initiator"
	}
	if len(reason) > ReasonMaxLen {
		return apperr.Validation("cancellation_reason", fmt.Sprintf(
			"cancellation reason must be at most %d characters", ReasonMaxLen))
	}
	t.Status = TransferCancelled
	t.CancellationReason = reason
	t.CancelledAt = &at
	return nil
}
