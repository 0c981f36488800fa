package services

import (
	"context"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

const (
	activeUserWindow    = 30 * 24 * time.Hour
	dashboardRecentSize = 5
	dashboardTopSize    = 5
)

// DashboardService builds the admin overview.
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	reports    repositories.ReportRepository
	orders     repositories.OrderRepository
	assetsBase string
	now        func() time.Time
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(reports repositories.ReportRepository, orders repositories.OrderRepository, assetsBase string) DashboardService {
	return &dashboardService{reports: reports, orders: orders, assetsBase: assetsBase, now: time.Now}
}

func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)
	if stats.TotalOrders, err = s.reports.CountOrders(ctx); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	if stats.TotalRevenue, err = s.reports.TotalRevenue(ctx); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	stats.TotalRevenue = utils.RoundToCents(stats.TotalRevenue)
	if stats.ActiveUsers, err = s.reports.CountActiveUsers(ctx, s.now().Add(-activeUserWindow)); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	if stats.MenuItems, err = s.reports.CountMenuItems(ctx); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	if stats.RecentOrders, err = s.orders.GetOrders(ctx, models.OrderFilters{Limit: dashboardRecentSize}); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	if stats.PopularItems, err = s.reports.PopularItems(ctx, dashboardTopSize); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	for i, item := range stats.PopularItems {
		if item.Image != nil {
			url := utils.ResolveAssetURL(s.assetsBase, *item.Image)
			stats.PopularItems[i].Image = &url
		}
	}
	return &stats, nil
}
