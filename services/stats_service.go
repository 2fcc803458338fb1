package services

import (
	"context"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/utils"
	"gorm.io/gorm"
)

const recentOrdersOnDashboard = 5

// DashboardStats summarizes the system for the admin dashboard
type DashboardStats struct {
	TotalUsers      int64          `json:"total_users"`
	ActiveServices  int64          `json:"active_services"`
	TotalOrders     int64          `json:"total_orders"`
	ActiveLocations int64          `json:"active_locations"`
	Processing      int64          `json:"processing_orders"`
	Completed       int64          `json:"completed_orders"`
	RecentOrders    []models.Order `json:"recent_orders"`
}

// StatsService computes dashboard counters
type StatsService struct {
	db     *gorm.DB
	orders *OrderService
}

func NewStatsService(db *gorm.DB, orders *OrderService) *StatsService {
	return &StatsService{db: db, orders: orders}
}

// Dashboard returns the counters and the most recent orders (admins only)
func (s *StatsService) Dashboard(ctx context.Context, r authz.Requester) (*DashboardStats, error) {
	if !authz.IsAdmin(r.Role) {
		return nil, UnauthorizedError("Only admins can view statistics")
	}

	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		model interface{}
		where map[string]interface{}
	}{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.ActiveServices, &models.Service{}, map[string]interface{}{"active": true}},
		{&stats.TotalOrders, &models.Order{}, nil},
		{&stats.ActiveLocations, &models.AvailableLocation{}, map[string]interface{}{"active": true}},
		{&stats.Processing, &models.Order{}, map[string]interface{}{"status": models.StatusProcessing}},
		{&stats.Completed, &models.Order{}, map[string]interface{}{"status": models.StatusCompleted}},
	}
	for _, c := range counts {
		query := db.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, DependencyError("failed to compute statistics", err)
		}
	}

	recent, _, err := s.orders.ListAll(ctx, r, OrderFilter{}, utils.Pagination{Page: 1, Limit: recentOrdersOnDashboard})
	if err != nil {
		return nil, err
	}
	stats.RecentOrders = recent
	return stats, nil
}
