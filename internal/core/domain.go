package core

import (
	"errors"
	"time"
)

type (
	// OrderStatus tracks order fulfilment. The only transition is
	// pending -> complete.
	OrderStatus string

	// PaymentMethod records how an order was paid. Empty means unknown.
	PaymentMethod string
)

const (
	OrderPending  OrderStatus = "pending"
	OrderComplete OrderStatus = "complete"

	PaymentStripe PaymentMethod = "stripe"
	PaymentCash   PaymentMethod = "cash"

	// Payment status is free-form in the schema; these are the two values
	// the application writes.
	PaymentOpen = "open"
	PaymentPaid = "paid"
)

type (
	// Order is a billable customer transaction tracked for due-date and
	// payment-status purposes. Monetary fields are integer cents and
	// Total = TotalExcludingTax + SalesTax at creation time.
	Order struct {
		ID                int64         `json:"id"`
		CustomerName      string        `json:"customerName"`
		CustomerEmail     string        `json:"customerEmail,omitempty"`
		Description       string        `json:"description,omitempty"`
		DueDate           *time.Time    `json:"dueDate,omitempty"`
		Status            OrderStatus   `json:"orderStatus"`
		SalesTax          int64         `json:"salesTax"`
		SalesTaxRate      string        `json:"salesTaxRate"` // percent string, e.g. "6.35" or "7.35"
		Total             int64         `json:"total"`
		TotalExcludingTax int64         `json:"totalExcludingTax"`
		PaymentStatus     string        `json:"paymentStatus"`
		PaymentMethod     PaymentMethod `json:"paymentMethod,omitempty"`
		PaymentDate       *time.Time    `json:"paymentDate,omitempty"`
		StripeInvoiceID   string        `json:"stripeInvoiceId,omitempty"`
		CreatedAt         time.Time     `json:"createdAt"`
		UpdatedAt         time.Time     `json:"updatedAt"`
	}

	// Draw is a personal income withdrawal. Deletion is logical only.
	Draw struct {
		ID        int64     `json:"id"`
		Amount    int64     `json:"amount"`
		Date      time.Time `json:"date"`
		Deleted   bool      `json:"-"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Expense is a business spending line item.
	Expense struct {
		ID          int64     `json:"id"`
		Amount      int64     `json:"amount"`
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
		Receipt     string    `json:"receipt,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrDrawNotFound    = errors.New("draw not found")
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvoiceProtected guards orders issued through the payment
	// platform: they must be voided there, never deleted locally.
	ErrInvoiceProtected = errors.New("order has an external invoice and cannot be deleted")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate   = errors.New("invalid sales tax rate")
)

// MonthRange returns the first and last instant of the calendar month
// containing d, in d's location.
func MonthRange(d time.Time) (start, end time.Time) {
	year, month, _ := d.Date()
	start = time.Date(year, month, 1, 0, 0, 0, 0, d.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PreviousMonthRange returns the bounds of the month before the one
// containing d.
func PreviousMonthRange(d time.Time) (start, end time.Time) {
	first, _ := MonthRange(d)
	return MonthRange(first.AddDate(0, 0, -1))
}
