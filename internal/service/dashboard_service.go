package service

import (
	"time"

	"go-retail-inventory/internal/repository"
)

type DashboardService interface {
	GetTransferMovement(days int) ([]repository.TransferMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	dashRepo repository.DashboardRepository
}

func NewDashboardService(dashRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashRepo: dashRepo}
}

func (s *dashboardService) GetTransferMovement(days int) ([]repository.TransferMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.dashRepo.GetTransferMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.dashRepo.GetDashboardStats()
}
