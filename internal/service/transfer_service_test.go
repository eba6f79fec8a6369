package service

import (
	"testing"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Location{},
		&model.StockLedgerEntry{},
		&model.Transfer{}, &model.TransferItem{},
		&model.HistoryEntry{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	))
	return db
}

type transferEnv struct {
	db        *gorm.DB
	transfers TransferService
	source    *model.Location
	dest      *model.Location
	product   *model.Product
}

func newTransferEnv(t *testing.T) *transferEnv {
	t.Helper()
	db := newTestDB(t)

	source := &model.Location{Code: "WH-01", Name: "Central Warehouse", Type: "WAREHOUSE", IsActive: true}
	dest := &model.Location{Code: "ST-01", Name: "Downtown Store", Type: "STORE", IsActive: true}
	require.NoError(t, db.Create(source).Error)
	require.NoError(t, db.Create(dest).Error)

	product := &model.Product{SKU: "PHN-001", Name: "Galaxy A15", Type: model.ProductPhone, Brand: "Samsung", Model: "A15"}
	require.NoError(t, db.Create(product).Error)

	transfers := NewTransferService(
		repository.NewTransferRepo(db),
		repository.NewStockRepo(db),
		repository.NewHistoryRepo(db),
		db,
		nil,
	)
	return &transferEnv{db: db, transfers: transfers, source: source, dest: dest, product: product}
}

func (e *transferEnv) seedStock(t *testing.T, productID, locationID uuid.UUID, onHand int) {
	t.Helper()
	entry := &model.StockLedgerEntry{ProductID: productID, LocationID: locationID, QuantityOnHand: onHand}
	require.NoError(t, e.db.Create(entry).Error)
}

func (e *transferEnv) stock(t *testing.T, productID, locationID uuid.UUID) *model.StockLedgerEntry {
	t.Helper()
	var entry model.StockLedgerEntry
	require.NoError(t, e.db.First(&entry, "product_id = ? AND location_id = ?", productID, locationID).Error)
	return &entry
}

func (e *transferEnv) createTransfer(t *testing.T, qty int) *model.Transfer {
	t.Helper()
	transfer, err := e.transfers.Create(&CreateTransferRequest{
		FromLocationID: e.source.ID,
		ToLocationID:   e.dest.ID,
		Reason:         "Store replenishment",
		Items:          []CreateTransferItem{{ProductID: e.product.ID, Quantity: qty}},
	}, "tester")
	require.NoError(t, err)
	return transfer
}

func (e *transferEnv) historyCount(t *testing.T, operation string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.HistoryEntry{}).
		Where("operation_type = ?", operation).Count(&count).Error)
	return count
}

func TestTransferService_Create(t *testing.T) {
	t.Run("reserves stock at the source and stays pending", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)

		transfer := env.createTransfer(t, 10)

		assert.Equal(t, model.TransferPending, transfer.Status)
		require.Len(t, transfer.Items, 1)
		assert.Equal(t, 10, transfer.Items[0].QuantityRequested)
		assert.Nil(t, transfer.Items[0].QuantityAccepted)
		assert.Equal(t, model.ProductPhone, transfer.Items[0].ProductType)
		assert.Equal(t, "Samsung", transfer.Items[0].ProductBrand)

		src := env.stock(t, env.product.ID, env.source.ID)
		assert.Equal(t, 20, src.QuantityOnHand, "reservation must not move on-hand")
		assert.Equal(t, 10, src.QuantityReserved)

		assert.EqualValues(t, 1, env.historyCount(t, model.OpTransferCreated))
	})

	t.Run("rejects identical source and destination", func(t *testing.T) {
		env := newTransferEnv(t)

		_, err := env.transfers.Create(&CreateTransferRequest{
			FromLocationID: env.source.ID,
			ToLocationID:   env.source.ID,
			Reason:         "Store replenishment",
			Items:          []CreateTransferItem{{ProductID: env.product.ID, Quantity: 1}},
		}, "tester")

		assert.ErrorIs(t, err, apperr.Validation("", ""))
	})

	t.Run("fails on unknown location and product", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)

		_, err := env.transfers.Create(&CreateTransferRequest{
			FromLocationID: uuid.New(),
			ToLocationID:   env.dest.ID,
			Reason:         "Store replenishment",
			Items:          []CreateTransferItem{{ProductID: env.product.ID, Quantity: 1}},
		}, "tester")
		assert.ErrorIs(t, err, apperr.NotFound(""))

		_, err = env.transfers.Create(&CreateTransferRequest{
			FromLocationID: env.source.ID,
			ToLocationID:   env.dest.ID,
			Reason:         "Store replenishment",
			Items:          []CreateTransferItem{{ProductID: uuid.New(), Quantity: 1}},
		}, "tester")
		assert.ErrorIs(t, err, apperr.NotFound(""))
	})

	t.Run("rolls back every reservation when one item cannot be covered", func(t *testing.T) {
		env := newTransferEnv(t)
		second := &model.Product{SKU: "ACC-001", Name: "USB-C Cable", Type: model.ProductAccessory}
		require.NoError(t, env.db.Create(second).Error)
		env.seedStock(t, env.product.ID, env.source.ID, 5)
		// second product has no stock at the source at all

		_, err := env.transfers.Create(&CreateTransferRequest{
			FromLocationID: env.source.ID,
			ToLocationID:   env.dest.ID,
			Reason:         "Store replenishment",
			Items: []CreateTransferItem{
				{ProductID: env.product.ID, Quantity: 3},
				{ProductID: second.ID, Quantity: 2},
			},
		}, "tester")
		assert.ErrorIs(t, err, apperr.InsufficientStock(""))

		src := env.stock(t, env.product.ID, env.source.ID)
		assert.Equal(t, 0, src.QuantityReserved, "first item's reservation must roll back")

		var transferCount int64
		require.NoError(t, env.db.Model(&model.Transfer{}).Count(&transferCount).Error)
		assert.EqualValues(t, 0, transferCount)
	})

	t.Run("oversell across sequential transfers", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 10)

		env.createTransfer(t, 7)

		_, err := env.transfers.Create(&CreateTransferRequest{
			FromLocationID: env.source.ID,
			ToLocationID:   env.dest.ID,
			Reason:         "Store replenishment",
			Items:          []CreateTransferItem{{ProductID: env.product.ID, Quantity: 4}},
		}, "tester")
		assert.ErrorIs(t, err, apperr.InsufficientStock(""))
	})
}

func TestTransferService_ConfirmFull(t *testing.T) {
	env := newTransferEnv(t)
	env.seedStock(t, env.product.ID, env.source.ID, 20)
	transfer := env.createTransfer(t, 10)

	result, err := env.transfers.Confirm(transfer.ID, nil, "receiver")
	require.NoError(t, err)

	assert.Equal(t, model.TransferCompleted, result.Transfer.Status)
	assert.NotNil(t, result.Transfer.ConfirmedAt)
	assert.Nil(t, result.ReturnTransferID, "full acceptance needs no return transfer")
	require.Len(t, result.Transfer.Items, 1)
	require.NotNil(t, result.Transfer.Items[0].QuantityAccepted)
	assert.Equal(t, 10, *result.Transfer.Items[0].QuantityAccepted)

	src := env.stock(t, env.product.ID, env.source.ID)
	assert.Equal(t, 10, src.QuantityOnHand)
	assert.Equal(t, 0, src.QuantityReserved)

	dst := env.stock(t, env.product.ID, env.dest.ID)
	assert.Equal(t, 10, dst.QuantityOnHand)
	assert.Equal(t, 0, dst.QuantityReserved)

	assert.EqualValues(t, 1, env.historyCount(t, model.OpTransferConfirmed))
}

func TestTransferService_ConfirmPartial(t *testing.T) {
	env := newTransferEnv(t)
	env.seedStock(t, env.product.ID, env.source.ID, 20)
	transfer := env.createTransfer(t, 10)

	result, err := env.transfers.Confirm(transfer.ID, &ConfirmTransferRequest{
		AcceptedItems: []AcceptedItem{{TransferItemID: transfer.Items[0].ID, AcceptedQuantity: 6}},
	}, "receiver")
	require.NoError(t, err)

	assert.Equal(t, model.TransferCompleted, result.Transfer.Status)
	require.NotNil(t, result.Transfer.Items[0].QuantityAccepted)
	assert.Equal(t, 6, *result.Transfer.Items[0].QuantityAccepted)
	assert.Equal(t, 4, result.Transfer.Items[0].QuantityRejected())

	// Return transfer: reversed direction, rejected quantity, linked to parent.
	require.NotNil(t, result.ReturnTransferID)
	ret, err := env.transfers.GetByID(*result.ReturnTransferID)
	require.NoError(t, err)
	assert.Equal(t, env.dest.ID, ret.FromLocationID)
	assert.Equal(t, env.source.ID, ret.ToLocationID)
	assert.Equal(t, model.TransferPending, ret.Status)
	require.NotNil(t, ret.ParentTransferID)
	assert.Equal(t, transfer.ID, *ret.ParentTransferID)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, 4, ret.Items[0].QuantityRequested)

	// Source lost the accepted units, destination holds accepted on-hand with
	// the rejected portion reserved for the return leg.
	src := env.stock(t, env.product.ID, env.source.ID)
	assert.Equal(t, 14, src.QuantityOnHand)
	assert.Equal(t, 0, src.QuantityReserved)

	dst := env.stock(t, env.product.ID, env.dest.ID)
	assert.Equal(t, 6, dst.QuantityOnHand)
	assert.Equal(t, 4, dst.QuantityReserved)

	assert.Equal(t, 20, src.QuantityOnHand+dst.QuantityOnHand, "units are conserved")
}

func TestTransferService_ConfirmErrors(t *testing.T) {
	t.Run("nothing accepted leaves the transfer pending", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		_, err := env.transfers.Confirm(transfer.ID, &ConfirmTransferRequest{
			AcceptedItems: []AcceptedItem{{TransferItemID: transfer.Items[0].ID, AcceptedQuantity: 0}},
		}, "receiver")
		assert.ErrorIs(t, err, apperr.NothingAccepted())

		current, err := env.transfers.GetByID(transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TransferPending, current.Status)

		src := env.stock(t, env.product.ID, env.source.ID)
		assert.Equal(t, 10, src.QuantityReserved, "reservation must stay intact")
	})

	t.Run("accepted above requested", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		_, err := env.transfers.Confirm(transfer.ID, &ConfirmTransferRequest{
			AcceptedItems: []AcceptedItem{{TransferItemID: transfer.Items[0].ID, AcceptedQuantity: 11}},
		}, "receiver")
		assert.ErrorIs(t, err, apperr.Validation("", ""))
	})

	t.Run("second confirm on the same transfer", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		_, err := env.transfers.Confirm(transfer.ID, nil, "receiver")
		require.NoError(t, err)

		_, err = env.transfers.Confirm(transfer.ID, nil, "receiver")
		assert.ErrorIs(t, err, apperr.InvalidState(""))

		src := env.stock(t, env.product.ID, env.source.ID)
		dst := env.stock(t, env.product.ID, env.dest.ID)
		assert.Equal(t, 10, src.QuantityOnHand, "stock must not move twice")
		assert.Equal(t, 10, dst.QuantityOnHand)
	})

	t.Run("unknown transfer id", func(t *testing.T) {
		env := newTransferEnv(t)
		_, err := env.transfers.Confirm(uuid.New(), nil, "receiver")
		assert.ErrorIs(t, err, apperr.NotFound(""))
	})
}

func TestTransferService_ReturnChain(t *testing.T) {
	env := newTransferEnv(t)
	env.seedStock(t, env.product.ID, env.source.ID, 20)
	transfer := env.createTransfer(t, 10)

	first, err := env.transfers.Confirm(transfer.ID, &ConfirmTransferRequest{
		AcceptedItems: []AcceptedItem{{TransferItemID: transfer.Items[0].ID, AcceptedQuantity: 6}},
	}, "receiver")
	require.NoError(t, err)
	require.NotNil(t, first.ReturnTransferID)

	// Partially confirm the return leg; its rejected remainder spawns a
	// second-level return back toward the store.
	ret, err := env.transfers.GetByID(*first.ReturnTransferID)
	require.NoError(t, err)

	second, err := env.transfers.Confirm(ret.ID, &ConfirmTransferRequest{
		AcceptedItems: []AcceptedItem{{TransferItemID: ret.Items[0].ID, AcceptedQuantity: 3}},
	}, "tester")
	require.NoError(t, err)
	require.NotNil(t, second.ReturnTransferID)

	grandchild, err := env.transfers.GetByID(*second.ReturnTransferID)
	require.NoError(t, err)
	assert.Equal(t, env.source.ID, grandchild.FromLocationID)
	assert.Equal(t, env.dest.ID, grandchild.ToLocationID)
	require.NotNil(t, grandchild.ParentTransferID)
	assert.Equal(t, ret.ID, *grandchild.ParentTransferID)
	require.Len(t, grandchild.Items, 1)
	assert.Equal(t, 1, grandchild.Items[0].QuantityRequested)

	src := env.stock(t, env.product.ID, env.source.ID)
	dst := env.stock(t, env.product.ID, env.dest.ID)
	assert.Equal(t, 17, src.QuantityOnHand)
	assert.Equal(t, 1, src.QuantityReserved)
	assert.Equal(t, 3, dst.QuantityOnHand)
	assert.Equal(t, 0, dst.QuantityReserved)
	assert.Equal(t, 20, src.QuantityOnHand+dst.QuantityOnHand)
}

func TestTransferService_Reject(t *testing.T) {
	t.Run("releases the full reservation", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		rejected, err := env.transfers.Reject(transfer.ID, "wrong items requested", "receiver")
		require.NoError(t, err)

		assert.Equal(t, model.TransferRejected, rejected.Status)
		assert.Equal(t, "wrong items requested", rejected.RejectionReason)
		assert.NotNil(t, rejected.RejectedAt)

		src := env.stock(t, env.product.ID, env.source.ID)
		assert.Equal(t, 20, src.QuantityOnHand)
		assert.Equal(t, 0, src.QuantityReserved)
	})

	t.Run("requires a reason and keeps the reservation on failure", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		_, err := env.transfers.Reject(transfer.ID, "no", "receiver")
		assert.ErrorIs(t, err, apperr.Validation("", ""))

		src := env.stock(t, env.product.ID, env.source.ID)
		assert.Equal(t, 10, src.QuantityReserved)
	})

	t.Run("fails on a terminal transfer", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)
		_, err := env.transfers.Confirm(transfer.ID, nil, "receiver")
		require.NoError(t, err)

		_, err = env.transfers.Reject(transfer.ID, "changed my mind", "receiver")
		assert.ErrorIs(t, err, apperr.InvalidState(""))
	})
}

func TestTransferService_Cancel(t *testing.T) {
	env := newTransferEnv(t)
	env.seedStock(t, env.product.ID, env.source.ID, 20)
	transfer := env.createTransfer(t, 10)

	cancelled, err := env.transfers.Cancel(transfer.ID, "", "tester")
	require.NoError(t, err)

	assert.Equal(t, model.TransferCancelled, cancelled.Status)
	assert.Equal(t, "Cancelled by initiator", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	src := env.stock(t, env.product.ID, env.source.ID)
	assert.Equal(t, 0, src.QuantityReserved)
}

func TestTransferService_Delete(t *testing.T) {
	t.Run("only terminal non-stock-bearing transfers are deletable", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)

		err := env.transfers.Delete(transfer.ID, "tester")
		assert.ErrorIs(t, err, apperr.InvalidState(""))

		_, err = env.transfers.Cancel(transfer.ID, "ordered by mistake", "tester")
		require.NoError(t, err)

		require.NoError(t, env.transfers.Delete(transfer.ID, "tester"))

		_, err = env.transfers.GetByID(transfer.ID)
		assert.ErrorIs(t, err, apperr.NotFound(""))
	})

	t.Run("completed transfers are never deletable", func(t *testing.T) {
		env := newTransferEnv(t)
		env.seedStock(t, env.product.ID, env.source.ID, 20)
		transfer := env.createTransfer(t, 10)
		_, err := env.transfers.Confirm(transfer.ID, nil, "receiver")
		require.NoError(t, err)

		err = env.transfers.Delete(transfer.ID, "tester")
		assert.ErrorIs(t, err, apperr.InvalidState(""))
	})
}

func TestTransferService_Listing(t *testing.T) {
	env := newTransferEnv(t)
	env.seedStock(t, env.product.ID, env.source.ID, 20)
	transfer := env.createTransfer(t, 5)

	incoming, err := env.transfers.ListIncoming(env.dest.ID, "")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, transfer.ID, incoming[0].ID)

	outgoing, err := env.transfers.ListOutgoing(env.source.ID, model.TransferPending)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)

	none, err := env.transfers.ListOutgoing(env.source.ID, model.TransferCompleted)
	require.NoError(t, err)
	assert.Empty(t, none)
}
