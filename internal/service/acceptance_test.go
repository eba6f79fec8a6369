package service

import (
	"testing"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(quantities ...int) []model.TransferItem {
	items := make([]model.TransferItem, len(quantities))
	for i, qty := range quantities {
		items[i].ID = uuid.New()
		items[i].QuantityRequested = qty
	}
	return items
}

func TestResolveAcceptance_FullAcceptance(t *testing.T) {
	items := makeItems(5, 3)

	t.Run("nil map accepts every item in full", func(t *testing.T) {
		splits, summary, err := ResolveAcceptance(items, nil)
		require.NoError(t, err)

		require.Len(t, splits, 2)
		assert.Equal(t, 5, splits[0].Accepted)
		assert.Equal(t, 0, splits[0].Rejected)
		assert.Equal(t, 3, splits[1].Accepted)
		assert.Equal(t, AcceptanceSummary{TotalRequested: 8, TotalAccepted: 8}, summary)
		assert.False(t, summary.IsPartial())
	})

	t.Run("items missing from the map default to full acceptance", func(t *testing.T) {
		splits, summary, err := ResolveAcceptance(items, map[uuid.UUID]int{items[1].ID: 2})
		require.NoError(t, err)

		assert.Equal(t, 5, splits[0].Accepted)
		assert.Equal(t, 2, splits[1].Accepted)
		assert.Equal(t, 1, splits[1].Rejected)
		assert.Equal(t, 7, summary.TotalAccepted)
		assert.True(t, summary.IsPartial())
	})

	t.Run("explicit full quantities match the nil-map result", func(t *testing.T) {
		explicit := map[uuid.UUID]int{items[0].ID: 5, items[1].ID: 3}
		gotSplits, gotSummary, err := ResolveAcceptance(items, explicit)
		require.NoError(t, err)
		wantSplits, wantSummary, err := ResolveAcceptance(items, nil)
		require.NoError(t, err)

		assert.Equal(t, wantSummary, gotSummary)
		for i := range wantSplits {
			assert.Equal(t, wantSplits[i].Accepted, gotSplits[i].Accepted)
			assert.Equal(t, wantSplits[i].Rejected, gotSplits[i].Rejected)
		}
	})
}

func TestResolveAcceptance_PartialSplit(t *testing.T) {
	items := makeItems(10, 4)
	accepted := map[uuid.UUID]int{
		items[0].ID: 6,
		items[1].ID: 0,
	}

	splits, summary, err := ResolveAcceptance(items, accepted)
	require.NoError(t, err)

	assert.Equal(t, 6, splits[0].Accepted)
	assert.Equal(t, 4, splits[0].Rejected)
	assert.Equal(t, 0, splits[1].Accepted)
	assert.Equal(t, 4, splits[1].Rejected)
	assert.Equal(t, AcceptanceSummary{TotalRequested: 14, TotalAccepted: 6, TotalRejected: 8}, summary)
	assert.True(t, summary.IsPartial())
}

func TestResolveAcceptance_Errors(t *testing.T) {
	items := makeItems(10)

	t.Run("all-zero acceptance", func(t *testing.T) {
		_, _, err := ResolveAcceptance(items, map[uuid.UUID]int{items[0].ID: 0})
		assert.ErrorIs(t, err, apperr.NothingAccepted())
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, _, err := ResolveAcceptance(items, map[uuid.UUID]int{items[0].ID: -1})
		assert.ErrorIs(t, err, apperr.Validation("", ""))
	})

	t.Run("quantity above requested", func(t *testing.T) {
		_, _, err := ResolveAcceptance(items, map[uuid.UUID]int{items[0].ID: 11})
		assert.ErrorIs(t, err, apperr.Validation("", ""))
	})

	t.Run("unknown item id", func(t *testing.T) {
		_, _, err := ResolveAcceptance(items, map[uuid.UUID]int{uuid.New(): 1})
		assert.ErrorIs(t, err, apperr.Validation("", ""))
	})
}

func TestResolveAcceptance_DoesNotMutateItems(t *testing.T) {
	items := makeItems(10)

	_, _, err := ResolveAcceptance(items, map[uuid.UUID]int{items[0].ID: 4})
	require.NoError(t, err)

	assert.Equal(t, 10, items[0].QuantityRequested)
	assert.Nil(t, items[0].QuantityAccepted)
}
