package repository

import (
	"time"

	"go-retail-inventory/internal/model"

	"gorm.io/gorm"
)

// TransferMovementData aggregates confirmed transfer volume per day for the
// dashboard chart.
type TransferMovementData struct {
	Date      string `json:"date"`
	Transfers int    `json:"transfers"`
	Units     int    `json:"units"`
}

// DashboardStats is the overview block on the admin landing page.
type DashboardStats struct {
	TotalProducts    int64 `json:"total_products"`
	TotalLocations   int64 `json:"total_locations"`
	PendingTransfers int64 `json:"pending_transfers"`
	LowStockCount    int64 `json:"low_stock_count"`
}

type DashboardRepository interface {
	GetTransferMovement(startDate, endDate time.Time) ([]TransferMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetTransferMovement(startDate, endDate time.Time) ([]TransferMovementData, error) {
	var results []TransferMovementData

	rows, err := r.db.Model(&model.Transfer{}).
		Select(`
			DATE(transfers.confirmed_at) as date,
			COUNT(DISTINCT transfers.id) as transfers,
			COALESCE(SUM(transfer_items.quantity_accepted), 0) as units
		`).
		Joins("JOIN transfer_items ON transfer_items.transfer_id = transfers.id").
		Where("transfers.status = ?", model.TransferCompleted).
		Where("transfers.confirmed_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transfers.confirmed_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data TransferMovementData
		if err := rows.Scan(&data.Date, &data.Transfers, &data.Units); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *dashboardRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Location{}).Count(&stats.TotalLocations)
	r.db.Model(&model.Transfer{}).Where("status = ?", model.TransferPending).Count(&stats.PendingTransfers)

	// Low stock: fewer than 10 units available across on-hand minus reserved
	r.db.Model(&model.StockLedgerEntry{}).
		Where("quantity_on_hand - quantity_reserved < ?", 10).
		Count(&stats.LowStockCount)

	return &stats, nil
}
