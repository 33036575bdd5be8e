package shopapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalOrders       int64                      `json:"totalOrders"`
	TotalProducts     int64                      `json:"totalProducts"`
	TotalUsers        int64                      `json:"totalUsers"`
	TotalRevenue      decimal.Decimal            `json:"totalRevenue"`
	LowStockCount     int64                      `json:"lowStockCount"`
	RevenueLast7Days  map[string]decimal.Decimal `json:"revenueLast7Days"`
	OrderStatusCounts map[string]int64           `json:"orderStatusCounts"`
}

type DashboardService struct {
	c *Client
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := s.c.doJSON(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
