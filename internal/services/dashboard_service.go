package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/core"
)

// PlatformCounter reports activity counts from the payment platform.
type PlatformCounter interface {
	CountCustomers(ctx context.Context) (int, error)
	CountCharges(ctx context.Context) (int, error)
	CountInvoices(ctx context.Context) (int, error)
}

type DashboardRepository interface {
	ListPaidOrdersBetween(ctx context.Context, start, end time.Time) ([]core.Order, error)
	ListPendingOrders(ctx context.Context) ([]core.Order, error)
}

// DashboardMetrics is the home-page summary: this month's paid revenue
// against last month's, open work, and payment-platform activity.
type DashboardMetrics struct {
	GrossRevenue         int64   `json:"grossRevenue"`
	PreviousGrossRevenue int64   `json:"previousGrossRevenue"`
	RevenueChangePercent float64 `json:"revenueChangePercent"`
	PendingOrders        int     `json:"pendingOrders"`
	Customers            int     `json:"customers"`
	Charges              int     `json:"charges"`
	Invoices             int     `json:"invoices"`
}

type DashboardService struct {
	repo     DashboardRepository
	platform PlatformCounter // may be nil
	now      func() time.Time
}

func NewDashboardService(repo DashboardRepository, platform PlatformCounter) *DashboardService {
	return &DashboardService{
		repo:     repo,
		platform: platform,
		now:      time.Now,
	}
}

// Metrics builds the dashboard summary. Platform counters are best-effort:
// an unreachable payment platform leaves them at zero rather than failing
// the page.
func (s *DashboardService) Metrics(ctx context.Context) (DashboardMetrics, error) {
	now := s.now()

	curStart, curEnd := core.MonthRange(now)
	prevStart, prevEnd := core.PreviousMonthRange(now)

	current, err := s.repo.ListPaidOrdersBetween(ctx, curStart, curEnd)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("list current month orders: %w", err)
	}
	previous, err := s.repo.ListPaidOrdersBetween(ctx, prevStart, prevEnd)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("list previous month orders: %w", err)
	}
	pending, err := s.repo.ListPendingOrders(ctx)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("list pending orders: %w", err)
	}

	m := DashboardMetrics{
		GrossRevenue:         sumTotals(current),
		PreviousGrossRevenue: sumTotals(previous),
		PendingOrders:        len(pending),
	}
	m.RevenueChangePercent = revenueChange(m.GrossRevenue, m.PreviousGrossRevenue)

	if s.platform != nil {
		s.fillPlatformCounts(ctx, &m)
	}

	return m, nil
}

func sumTotals(orders []core.Order) int64 {
	var sum int64
	for _, o := range orders {
		sum += o.Total
	}
	return sum
}

func revenueChange(current, previous int64) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

func (s *DashboardService) fillPlatformCounts(ctx context.Context, m *DashboardMetrics) {
	var err error
	if m.Customers, err = s.platform.CountCustomers(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to count platform customers", "error", err)
	}
	if m.Charges, err = s.platform.CountCharges(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to count platform charges", "error", err)
	}
	if m.Invoices, err = s.platform.CountInvoices(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to count platform invoices", "error", err)
	}
}
