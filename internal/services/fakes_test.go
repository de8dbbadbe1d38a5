package services

import (
	"context"
	"time"

	"backoffice/internal/core"
)

// fakeRepo is an in-memory stand-in for the SQLite repository.
type fakeRepo struct {
	orders   []core.Order
	draws    []core.Draw
	expenses []core.Expense
	nextID   int64

	failWith error

	listOrderCalls   int
	listPendingCalls int
	paymentsCalls    int
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) CreateOrder(_ context.Context, o core.Order) (core.Order, error) {
	if f.failWith != nil {
		return core.Order{}, f.failWith
	}
	o.ID = f.id()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id int64) (core.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return core.Order{}, core.ErrOrderNotFound
}

func (f *fakeRepo) ListOrders(_ context.Context) ([]core.Order, error) {
	f.listOrderCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]core.Order(nil), f.orders...), nil
}

func (f *fakeRepo) ListPendingOrders(_ context.Context) ([]core.Order, error) {
	f.listPendingCalls++
	var out []core.Order
	for _, o := range f.orders {
		if o.Status == core.OrderPending {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOrderPaymentsBetween(_ context.Context, start, end time.Time) ([]core.Order, error) {
	f.paymentsCalls++
	var out []core.Order
	for _, o := range f.orders {
		if o.PaymentDate != nil && !o.PaymentDate.Before(start) && !o.PaymentDate.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPaidOrdersBetween(_ context.Context, start, end time.Time) ([]core.Order, error) {
	var out []core.Order
	for _, o := range f.orders {
		if o.PaymentStatus != core.PaymentPaid {
			continue
		}
		if o.PaymentDate != nil && !o.PaymentDate.Before(start) && !o.PaymentDate.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrder(_ context.Context, id int64, dueDate *time.Time, status core.OrderStatus) error {
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].DueDate = dueDate
			f.orders[i].Status = status
			return nil
		}
	}
	return core.ErrOrderNotFound
}

func (f *fakeRepo) DeleteOrder(_ context.Context, id int64) error {
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return core.ErrOrderNotFound
}

func (f *fakeRepo) CreateDraw(_ context.Context, d core.Draw) (core.Draw, error) {
	if f.failWith != nil {
		return core.Draw{}, f.failWith
	}
	d.ID = f.id()
	f.draws = append(f.draws, d)
	return d, nil
}

func (f *fakeRepo) ListDraws(_ context.Context) ([]core.Draw, error) {
	var out []core.Draw
	for _, d := range f.draws {
		if !d.Deleted {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteDraw(_ context.Context, id int64) error {
	for i, d := range f.draws {
		if d.ID == id && !d.Deleted {
			f.draws[i].Deleted = true
			return nil
		}
	}
	return core.ErrDrawNotFound
}

func (f *fakeRepo) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if f.failWith != nil {
		return core.Expense{}, f.failWith
	}
	e.ID = f.id()
	f.expenses = append(f.expenses, e)
	return e, nil
}

func (f *fakeRepo) InsertExpenses(_ context.Context, expenses []core.Expense) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, e := range expenses {
		e.ID = f.id()
		f.expenses = append(f.expenses, e)
	}
	return nil
}

func (f *fakeRepo) ListExpenses(_ context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeRepo) DeleteExpense(_ context.Context, id int64) error {
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

// fakePublisher records published order IDs.
type fakePublisher struct {
	published []int64
	failWith  error
}

func (f *fakePublisher) PublishOrderExport(_ context.Context, orderID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, orderID)
	return nil
}

// fakePlatform returns fixed counts.
type fakePlatform struct {
	customers, charges, invoices int
	failWith                     error
}

func (f *fakePlatform) CountCustomers(_ context.Context) (int, error) {
	return f.customers, f.failWith
}

func (f *fakePlatform) CountCharges(_ context.Context) (int, error) {
	return f.charges, f.failWith
}

func (f *fakePlatform) CountInvoices(_ context.Context) (int, error) {
	return f.invoices, f.failWith
}
