package service

import (
	"testing"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stockEnv struct {
	db       *gorm.DB
	stock    StockService
	location *model.Location
	product  *model.Product
}

func newStockEnv(t *testing.T) *stockEnv {
	t.Helper()
	db := newTestDB(t)

	location := &model.Location{Code: "WH-01", Name: "Central Warehouse", Type: "WAREHOUSE", IsActive: true}
	require.NoError(t, db.Create(location).Error)

	product := &model.Product{SKU: "TAB-001", Name: "iPad Air", Type: model.ProductTablet, Brand: "Apple"}
	require.NoError(t, db.Create(product).Error)

	stock := NewStockService(repository.NewStockRepo(db), repository.NewHistoryRepo(db), db, nil)
	return &stockEnv{db: db, stock: stock, location: location, product: product}
}

func (e *stockEnv) adjust(t *testing.T, qty int, kind AdjustmentType) (*model.StockLedgerEntry, error) {
	t.Helper()
	return e.stock.Adjust(&AdjustStockRequest{
		ProductID:  e.product.ID,
		LocationID: e.location.ID,
		Quantity:   qty,
		Type:       kind,
		Reason:     "Cycle count correction",
	}, "tester")
}

func TestStockService_Adjust(t *testing.T) {
	t.Run("first add creates the ledger row lazily", func(t *testing.T) {
		env := newStockEnv(t)

		entry, err := env.adjust(t, 15, AdjustmentAdd)
		require.NoError(t, err)

		assert.Equal(t, 15, entry.QuantityOnHand)
		assert.Equal(t, 0, entry.QuantityReserved)

		var count int64
		require.NoError(t, env.db.Model(&model.HistoryEntry{}).
			Where("operation_type = ?", model.OpStockAdjusted).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("remove below zero fails and changes nothing", func(t *testing.T) {
		env := newStockEnv(t)
		_, err := env.adjust(t, 5, AdjustmentAdd)
		require.NoError(t, err)

		_, err = env.adjust(t, 6, AdjustmentRemove)
		assert.ErrorIs(t, err, apperr.InsufficientStock(""))

		entry, err := env.stock.Get(env.product.ID, env.location.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, entry.QuantityOnHand)
	})

	t.Run("remove below the reserved quantity fails", func(t *testing.T) {
		env := newStockEnv(t)
		_, err := env.adjust(t, 10, AdjustmentAdd)
		require.NoError(t, err)
		_, err = env.stock.Reserve(&ReservationRequest{
			ProductID: env.product.ID, LocationID: env.location.ID, Quantity: 6,
		}, "tester")
		require.NoError(t, err)

		_, err = env.adjust(t, 5, AdjustmentRemove)
		assert.ErrorIs(t, err, apperr.InsufficientStock(""))
	})

	t.Run("unknown product", func(t *testing.T) {
		env := newStockEnv(t)
		_, err := env.stock.Adjust(&AdjustStockRequest{
			ProductID:  uuid.New(),
			LocationID: env.location.ID,
			Quantity:   1,
			Type:       AdjustmentAdd,
			Reason:     "Cycle count correction",
		}, "tester")
		assert.ErrorIs(t, err, apperr.NotFound(""))
	})
}

func TestStockService_ReserveRelease(t *testing.T) {
	env := newStockEnv(t)
	_, err := env.adjust(t, 10, AdjustmentAdd)
	require.NoError(t, err)

	entry, err := env.stock.Reserve(&ReservationRequest{
		ProductID: env.product.ID, LocationID: env.location.ID, Quantity: 7,
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 7, entry.QuantityReserved)
	assert.Equal(t, 3, entry.QuantityAvailable())

	_, err = env.stock.Reserve(&ReservationRequest{
		ProductID: env.product.ID, LocationID: env.location.ID, Quantity: 4,
	}, "tester")
	assert.ErrorIs(t, err, apperr.InsufficientStock(""))

	entry, err = env.stock.Release(&ReservationRequest{
		ProductID: env.product.ID, LocationID: env.location.ID, Quantity: 7,
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.QuantityReserved)

	_, err = env.stock.Release(&ReservationRequest{
		ProductID: env.product.ID, LocationID: env.location.ID, Quantity: 1,
	}, "tester")
	assert.ErrorIs(t, err, apperr.InvalidState(""))
}

func TestStockService_Get(t *testing.T) {
	env := newStockEnv(t)

	_, err := env.stock.Get(env.product.ID, env.location.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""), "no row until first movement")

	_, err = env.adjust(t, 3, AdjustmentAdd)
	require.NoError(t, err)

	entries, err := env.stock.GetByLocation(env.location.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, env.product.ID, entries[0].ProductID)
}
