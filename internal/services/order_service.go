package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/core"
)

// Cache tags. Mutations invalidate these; the HTTP layer accepts the
// same names in its tags query parameter.
const (
	TagOrders        = "orders"
	TagPendingOrders = "pendingOrders"
	TagFinancials    = "financials"
	TagDraws         = "draws"
	TagExpenses      = "expenses"
)

// OrderRepository is the slice of storage the order service needs.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o core.Order) (core.Order, error)
	GetOrder(ctx context.Context, id int64) (core.Order, error)
	ListOrders(ctx context.Context) ([]core.Order, error)
	ListPendingOrders(ctx context.Context) ([]core.Order, error)
	ListOrderPaymentsBetween(ctx context.Context, start, end time.Time) ([]core.Order, error)
	UpdateOrder(ctx context.Context, id int64, dueDate *time.Time, status core.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
}

// ExportPublisher announces orders that need a bookkeeping export. The
// worker picks missed ones up in its sweep, so publishing is best-effort.
type ExportPublisher interface {
	PublishOrderExport(ctx context.Context, orderID int64) error
}

type OrderService struct {
	repo       OrderRepository
	publisher  ExportPublisher // may be nil
	registry   *cache.Registry
	orders     *cache.Cache[[]core.Order]
	pending    *cache.Cache[[]core.Order]
	financials *cache.Cache[core.MonthlyFinancials]
	now        func() time.Time
}

func NewOrderService(repo OrderRepository, publisher ExportPublisher, registry *cache.Registry) *OrderService {
	s := &OrderService{
		repo:       repo,
		publisher:  publisher,
		registry:   registry,
		orders:     cache.New[[]core.Order](),
		pending:    cache.New[[]core.Order](),
		financials: cache.New[core.MonthlyFinancials](),
		now:        time.Now,
	}
	cache.Bind(registry, s.orders, TagOrders)
	cache.Bind(registry, s.pending, TagPendingOrders)
	cache.Bind(registry, s.financials, TagFinancials)
	return s
}

const defaultTaxRate = "0.0635"

// CreateOrder computes the tax split for the order total and persists it.
// The input rate is fractional ("0.0635"); the stored rate is the percent
// form ("6.35"), which is what the monthly aggregation buckets on.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (core.Order, error) {
	if err := checkInput(in); err != nil {
		return core.Order{}, err
	}

	total, err := core.ParseDecimalToCents(in.Total)
	if err != nil {
		return core.Order{}, fieldError("total", "must be a positive decimal amount")
	}

	rateStr := in.SalesTaxRate
	if rateStr == "" {
		rateStr = defaultTaxRate
	}
	rate, err := core.ParseTaxRate(rateStr)
	if err != nil {
		return core.Order{}, fieldError("salesTaxRate", "must be a fractional rate between 0 and 1")
	}

	salesTax := core.SalesTaxFor(total, rate)

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = core.PaymentOpen
	}

	order := core.Order{
		CustomerName:      in.CustomerName,
		CustomerEmail:     in.CustomerEmail,
		Description:       in.Description,
		DueDate:           in.DueDate,
		Status:            core.OrderPending,
		SalesTax:          salesTax,
		SalesTaxRate:      core.RatePercent(rate),
		Total:             total,
		TotalExcludingTax: total - salesTax,
		PaymentStatus:     paymentStatus,
		PaymentMethod:     core.PaymentMethod(in.PaymentMethod),
		PaymentDate:       in.PaymentDate,
		StripeInvoiceID:   in.StripeInvoiceID,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return core.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.registry.Invalidate(TagOrders, TagPendingOrders, TagFinancials)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderExport(ctx, created.ID); err != nil {
			// The export sweep will catch this order later.
			slog.ErrorContext(ctx, "Failed to publish export message",
				"order_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// UpdateOrder merges the provided fields into the stored order. Completing
// an order that has no due date stamps the current time as its due date.
// Read-then-write without a transaction; a concurrent update can lose.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, in UpdateOrderInput) error {
	if err := checkInput(in); err != nil {
		return err
	}

	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	dueDate := existing.DueDate
	if in.DueDate != nil {
		dueDate = in.DueDate
	}
	status := existing.Status
	if in.Status != "" {
		status = core.OrderStatus(in.Status)
	}
	if status == core.OrderComplete && dueDate == nil {
		now := s.now()
		dueDate = &now
	}

	if err := s.repo.UpdateOrder(ctx, id, dueDate, status); err != nil {
		if err == core.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("update order: %w", err)
	}

	s.registry.Invalidate(TagOrders, TagPendingOrders, TagFinancials)
	return nil
}

// DeleteOrder refuses to delete orders that carry an external invoice
// reference; those must be voided on the payment platform instead.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if existing.StripeInvoiceID != "" {
		return core.ErrInvoiceProtected
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.registry.Invalidate(TagOrders, TagPendingOrders, TagFinancials)
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (core.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]core.Order, error) {
	if cached, ok := s.orders.Get(TagOrders); ok {
		return cached, nil
	}
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	s.orders.Set(TagOrders, orders)
	return orders, nil
}

func (s *OrderService) ListPendingOrders(ctx context.Context) ([]core.Order, error) {
	if cached, ok := s.pending.Get(TagPendingOrders); ok {
		return cached, nil
	}
	orders, err := s.repo.ListPendingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	s.pending.Set(TagPendingOrders, orders)
	return orders, nil
}

// MonthlyFinancials summarizes the calendar month containing ref. Results
// are cached per month under the financials tag.
func (s *OrderService) MonthlyFinancials(ctx context.Context, ref time.Time) (core.MonthlyFinancials, error) {
	key := ref.Format("2006-01")
	if cached, ok := s.financials.Get(key); ok {
		return cached, nil
	}

	start, end := core.MonthRange(ref)
	orders, err := s.repo.ListOrderPaymentsBetween(ctx, start, end)
	if err != nil {
		return core.MonthlyFinancials{}, fmt.Errorf("list order payments: %w", err)
	}

	summary := core.SummarizeMonth(orders)
	s.financials.Set(key, summary)
	return summary, nil
}
