package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backoffice/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistence layer for orders, draws and
// expenses. Each method is a single round trip; there is no
// multi-statement transaction wrapping read-modify-write sequences.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const orderColumns = `id, customer_name, customer_email, description, due_date,
	order_status, sales_tax, sales_tax_rate, total, total_excluding_tax,
	payment_status, payment_method, payment_date, stripe_invoice_id,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (core.Order, error) {
	var (
		o             core.Order
		email, desc   sql.NullString
		method, invID sql.NullString
		due, paid     sql.NullTime
	)
	err := row.Scan(&o.ID, &o.CustomerName, &email, &desc, &due,
		&o.Status, &o.SalesTax, &o.SalesTaxRate, &o.Total, &o.TotalExcludingTax,
		&o.PaymentStatus, &method, &paid, &invID,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return core.Order{}, err
	}
	o.CustomerEmail = email.String
	o.Description = desc.String
	o.PaymentMethod = core.PaymentMethod(method.String)
	o.StripeInvoiceID = invID.String
	if due.Valid {
		t := due.Time
		o.DueDate = &t
	}
	if paid.Valid {
		t := paid.Time
		o.PaymentDate = &t
	}
	return o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateOrder persists a new order and returns it with its assigned ID.
func (r *SQLiteRepository) CreateOrder(ctx context.Context, o core.Order) (core.Order, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `INSERT INTO orders (customer_name,
		customer_email, description, due_date, order_status, sales_tax,
		sales_tax_rate, total, total_excluding_tax, payment_status,
		payment_method, payment_date, stripe_invoice_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.CustomerName, nullString(o.CustomerEmail), nullString(o.Description),
		nullTime(o.DueDate), o.Status, o.SalesTax, o.SalesTaxRate, o.Total,
		o.TotalExcludingTax, o.PaymentStatus, nullString(string(o.PaymentMethod)),
		nullTime(o.PaymentDate), nullString(o.StripeInvoiceID), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return core.Order{}, fmt.Errorf("insert order: %w", err)
	}

	o.ID, err = res.LastInsertId()
	if err != nil {
		return core.Order{}, fmt.Errorf("order id: %w", err)
	}

	slog.InfoContext(ctx, "Order saved",
		"id", o.ID,
		"customer", o.CustomerName,
		"total_cents", o.Total)

	return o, nil
}

// GetOrder returns one order or core.ErrOrderNotFound.
func (r *SQLiteRepository) GetOrder(ctx context.Context, id int64) (core.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Order{}, core.ErrOrderNotFound
	}
	if err != nil {
		return core.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (r *SQLiteRepository) queryOrders(ctx context.Context, query string, args ...any) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *SQLiteRepository) ListOrders(ctx context.Context) ([]core.Order, error) {
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListPendingOrders returns pending orders sorted by due date ascending.
func (r *SQLiteRepository) ListPendingOrders(ctx context.Context) ([]core.Order, error) {
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE order_status = ? ORDER BY due_date ASC`, core.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return orders, nil
}

// ListOrderPaymentsBetween returns orders whose payment date falls in
// [start, end]. This feeds the monthly financial rollup.
func (r *SQLiteRepository) ListOrderPaymentsBetween(ctx context.Context, start, end time.Time) ([]core.Order, error) {
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE payment_date >= ? AND payment_date <= ?`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list order payments between %s and %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return orders, nil
}

// ListPaidOrdersBetween returns paid orders with a payment date in
// [start, end]. Used by the dashboard revenue cards.
func (r *SQLiteRepository) ListPaidOrdersBetween(ctx context.Context, start, end time.Time) ([]core.Order, error) {
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE payment_status = ? AND payment_date >= ? AND payment_date <= ?`,
		core.PaymentPaid, start, end)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder overwrites due date and status for an order.
func (r *SQLiteRepository) UpdateOrder(ctx context.Context, id int64, dueDate *time.Time, status core.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders
		SET due_date = ?, order_status = ?, updated_at = ? WHERE id = ?`,
		nullTime(dueDate), status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

// DeleteOrder physically removes an order row.
func (r *SQLiteRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

// PendingExportOrder is the minimal row needed to drive the bookkeeping
// export sweep.
type PendingExportOrder struct {
	ID       int64
	Attempts int64
}

// GetPendingExportOrders returns orders not yet appended to the
// bookkeeping spreadsheet.
func (r *SQLiteRepository) GetPendingExportOrders(ctx context.Context, limit int) ([]PendingExportOrder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, export_attempts FROM orders
		WHERE exported = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending export orders: %w", err)
	}
	defer rows.Close()

	var pending []PendingExportOrder
	for rows.Next() {
		var p PendingExportOrder
		if err := rows.Scan(&p.ID, &p.Attempts); err != nil {
			return nil, fmt.Errorf("scan pending export order: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkExported records a successful bookkeeping export.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET exported = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark order exported: %w", err)
	}
	slog.InfoContext(ctx, "Order marked as exported", "id", id)
	return nil
}

// MarkExportError bumps the export attempt counter after a failure.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET export_attempts = export_attempts + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark order export error: %w", err)
	}
	slog.WarnContext(ctx, "Order marked with export error", "id", id)
	return nil
}

// CreateDraw persists a new draw.
func (r *SQLiteRepository) CreateDraw(ctx context.Context, d core.Draw) (core.Draw, error) {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `INSERT INTO draws (amount, date, deleted,
		created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		d.Amount, d.Date, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return core.Draw{}, fmt.Errorf("insert draw: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return core.Draw{}, fmt.Errorf("draw id: %w", err)
	}
	return d, nil
}

// ListDraws returns non-deleted draws sorted by date ascending.
func (r *SQLiteRepository) ListDraws(ctx context.Context) ([]core.Draw, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, date, deleted,
		created_at, updated_at FROM draws WHERE deleted = 0 ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	defer rows.Close()

	var draws []core.Draw
	for rows.Next() {
		var d core.Draw
		if err := rows.Scan(&d.ID, &d.Amount, &d.Date, &d.Deleted, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// SoftDeleteDraw flags a draw as deleted. The row is never removed.
func (r *SQLiteRepository) SoftDeleteDraw(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE draws SET deleted = 1, updated_at = ?
		WHERE id = ? AND deleted = 0`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete draw %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrDrawNotFound
	}
	return nil
}

// CreateExpense persists a new expense.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `INSERT INTO expenses (amount, date,
		description, receipt, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Amount, e.Date, e.Description, nullString(e.Receipt), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}
	return e, nil
}

// InsertExpenses bulk-inserts parsed import rows in one statement.
func (r *SQLiteRepository) InsertExpenses(ctx context.Context, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	now := time.Now().UTC()
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO expenses (amount, date, description, receipt, created_at, updated_at) VALUES `)
	for i, e := range expenses {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, e.Amount, e.Date, e.Description, nullString(e.Receipt), now, now)
	}
	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("bulk insert expenses: %w", err)
	}
	slog.InfoContext(ctx, "Expenses imported", "count", len(expenses))
	return nil
}

// ListExpenses returns expenses sorted by date descending.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, date, description,
		receipt, created_at, updated_at FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			receipt sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Amount, &e.Date, &e.Description, &receipt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Receipt = receipt.String
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense physically removes an expense row.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}
