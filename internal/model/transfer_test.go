package model

import (
	"strings"
	"testing"
	"time"

	"go-retail-inventory/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer_MarkCompleted(t *testing.T) {
	t.Run("transitions from pending and stamps confirmedAt", func(t *testing.T) {
		transfer := &Transfer{Status: TransferPending}
		now := time.Now()

		require.NoError(t, transfer.MarkCompleted(now))

		assert.Equal(t, TransferCompleted, transfer.Status)
		require.NotNil(t, transfer.ConfirmedAt)
		assert.Equal(t, now, *transfer.ConfirmedAt)
		assert.Nil(t, transfer.RejectedAt)
		assert.Nil(t, transfer.CancelledAt)
	})

	t.Run("fails from any terminal state", func(t *testing.T) {
		for _, status := range []TransferStatus{TransferCompleted, TransferRejected, TransferCancelled} {
			transfer := &Transfer{Status: status}
			assert.ErrorIs(t, transfer.MarkCompleted(time.Now()), apperr.InvalidState(""))
		}
	})
}

func TestTransfer_MarkRejected(t *testing.T) {
	t.Run("requires a bounded reason", func(t *testing.T) {
		transfer := &Transfer{Status: TransferPending}

		assert.ErrorIs(t, transfer.MarkRejected("no", time.Now()), apperr.Validation("", ""))
		assert.ErrorIs(t, transfer.MarkRejected(strings.Repeat("x", ReasonMaxLen+1), time.Now()), apperr.Validation("", ""))
		assert.Equal(t, TransferPending, transfer.Status)
	})

	t.Run("stamps rejectedAt and keeps the other timestamps empty", func(t *testing.T) {
		transfer := &Transfer{Status: TransferPending}

		require.NoError(t, transfer.MarkRejected("damaged in transit", time.Now()))

		assert.Equal(t, TransferRejected, transfer.Status)
		assert.Equal(t, "damaged in transit", transfer.RejectionReason)
		assert.NotNil(t, transfer.RejectedAt)
		assert.Nil(t, transfer.ConfirmedAt)
		assert.Nil(t, transfer.CancelledAt)
	})
}

func TestTransfer_MarkCancelled(t *testing.T) {
	t.Run("defaults the reason when omitted", func(t *testing.T) {
		transfer := &Transfer{Status: TransferPending}

		require.NoError(t, transfer.MarkCancelled("", time.Now()))

		assert.Equal(t, TransferCancelled, transfer.Status)
		assert.Equal(t, "Cancelled by initiator", transfer.CancellationReason)
		assert.NotNil(t, transfer.CancelledAt)
	})

	t.Run("fails once terminal", func(t *testing.T) {
		transfer := &Transfer{Status: TransferCompleted}
		assert.ErrorIs(t, transfer.MarkCancelled("too late", time.Now()), apperr.InvalidState(""))
	})
}

func TestTransfer_Deletable(t *testing.T) {
	cases := map[TransferStatus]bool{
		TransferPending:   false,
		TransferCompleted: false,
		TransferRejected:  true,
		TransferCancelled: true,
	}
	for status, want := range cases {
		transfer := &Transfer{Status: status}
		assert.Equal(t, want, transfer.Deletable(), "status %s", status)
	}
}

func TestTransferItem_QuantityRejected(t *testing.T) {
	item := &TransferItem{QuantityRequested: 10}
	assert.Equal(t, 0, item.QuantityRejected(), "unconfirmed item has nothing rejected")

	accepted := 6
	item.QuantityAccepted = &accepted
	assert.Equal(t, 4, item.QuantityRejected())
}
