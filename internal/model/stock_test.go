package model

import (
	"testing"

	"go-retail-inventory/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLedgerEntry_Reserve(t *testing.T) {
	t.Run("reduces availability without touching on-hand", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10}

		require.NoError(t, entry.Reserve(4))

		assert.Equal(t, 10, entry.QuantityOnHand)
		assert.Equal(t, 4, entry.QuantityReserved)
		assert.Equal(t, 6, entry.QuantityAvailable())
	})

	t.Run("fails when request exceeds availability", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 7}

		err := entry.Reserve(4)

		assert.ErrorIs(t, err, apperr.InsufficientStock(""))
		assert.Equal(t, 7, entry.QuantityReserved)
	})

	t.Run("counts existing reservations against availability", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 5}

		require.NoError(t, entry.Reserve(3))
		require.NoError(t, entry.Reserve(2))
		assert.ErrorIs(t, entry.Reserve(1), apperr.InsufficientStock(""))
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10}

		assert.ErrorIs(t, entry.Reserve(0), apperr.Validation("", ""))
		assert.ErrorIs(t, entry.Reserve(-3), apperr.Validation("", ""))
	})
}

func TestStockLedgerEntry_Release(t *testing.T) {
	t.Run("returns units to the available pool", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 6}

		require.NoError(t, entry.Release(4))

		assert.Equal(t, 10, entry.QuantityOnHand)
		assert.Equal(t, 2, entry.QuantityReserved)
	})

	t.Run("over-release is an invalid state, not a clamp", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 2}

		err := entry.Release(3)

		assert.ErrorIs(t, err, apperr.InvalidState(""))
		assert.Equal(t, 2, entry.QuantityReserved)
	})
}

func TestStockLedgerEntry_CommitOut(t *testing.T) {
	t.Run("consumes reservation and on-hand together", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 6}

		require.NoError(t, entry.CommitOut(6))

		assert.Equal(t, 4, entry.QuantityOnHand)
		assert.Equal(t, 0, entry.QuantityReserved)
	})

	t.Run("fails beyond the reserved quantity", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 2}

		assert.ErrorIs(t, entry.CommitOut(3), apperr.InvalidState(""))
	})
}

func TestStockLedgerEntry_CommitIn(t *testing.T) {
	entry := &StockLedgerEntry{QuantityOnHand: 1}

	require.NoError(t, entry.CommitIn(5))

	assert.Equal(t, 6, entry.QuantityOnHand)
	assert.ErrorIs(t, entry.CommitIn(0), apperr.Validation("", ""))
}

func TestStockLedgerEntry_Adjust(t *testing.T) {
	t.Run("applies positive and negative corrections", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10}

		require.NoError(t, entry.Adjust(5))
		assert.Equal(t, 15, entry.QuantityOnHand)

		require.NoError(t, entry.Adjust(-8))
		assert.Equal(t, 7, entry.QuantityOnHand)
	})

	t.Run("may not drive on-hand below zero", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 3}

		err := entry.Adjust(-4)

		assert.ErrorIs(t, err, apperr.InsufficientStock(""))
		assert.Equal(t, 3, entry.QuantityOnHand)
	})

	t.Run("may not drive on-hand below the reserved quantity", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10, QuantityReserved: 6}

		err := entry.Adjust(-5)

		assert.ErrorIs(t, err, apperr.InsufficientStock(""))
		assert.Equal(t, 10, entry.QuantityOnHand)
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		entry := &StockLedgerEntry{QuantityOnHand: 10}

		assert.ErrorIs(t, entry.Adjust(0), apperr.Validation("", ""))
	})
}
