package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/core"
)

type ExpenseRepository interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	InsertExpenses(ctx context.Context, expenses []core.Expense) error
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type ExpenseService struct {
	repo     ExpenseRepository
	registry *cache.Registry
	expenses *cache.Cache[[]core.Expense]
}

func NewExpenseService(repo ExpenseRepository, registry *cache.Registry) *ExpenseService {
	s := &ExpenseService{
		repo:     repo,
		registry: registry,
		expenses: cache.New[[]core.Expense](),
	}
	cache.Bind(registry, s.expenses, TagExpenses)
	return s
}

func (s *ExpenseService) CreateExpense(ctx context.Context, in CreateExpenseInput) (core.Expense, error) {
	if err := checkInput(in); err != nil {
		return core.Expense{}, err
	}

	amount, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Expense{}, fieldError("amount", "must be a positive decimal amount")
	}

	created, err := s.repo.CreateExpense(ctx, core.Expense{
		Amount:      amount,
		Date:        *in.Date,
		Description: in.Description,
		Receipt:     in.Receipt,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.registry.Invalidate(TagExpenses)
	return created, nil
}

// ImportExpenses reads CSV rows of the form date,amount,description and
// inserts them in one batch. A header row is skipped when its first cell
// doesn't parse as a date. The whole file is validated before anything is
// written, so a bad row imports nothing.
func (s *ExpenseService) ImportExpenses(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var expenses []core.Expense
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fieldError("file", fmt.Sprintf("malformed CSV: %v", err))
		}
		line++

		if len(record) < 3 {
			return 0, fieldError("file", fmt.Sprintf("row %d: expected date,amount,description", line))
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return 0, fieldError("file", fmt.Sprintf("row %d: invalid date %q", line, record[0]))
		}

		amount, err := core.ParseDecimalToCents(record[1])
		if err != nil {
			return 0, fieldError("file", fmt.Sprintf("row %d: invalid amount %q", line, record[1]))
		}

		if record[2] == "" {
			return 0, fieldError("file", fmt.Sprintf("row %d: description is required", line))
		}

		expenses = append(expenses, core.Expense{
			Amount:      amount,
			Date:        date,
			Description: record[2],
		})
	}

	if len(expenses) == 0 {
		return 0, fieldError("file", "no expense rows found")
	}

	if err := s.repo.InsertExpenses(ctx, expenses); err != nil {
		return 0, fmt.Errorf("import expenses: %w", err)
	}

	s.registry.Invalidate(TagExpenses)
	return len(expenses), nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	if cached, ok := s.expenses.Get(TagExpenses); ok {
		return cached, nil
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	s.expenses.Set(TagExpenses, expenses)
	return expenses, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		if err == core.ErrExpenseNotFound {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	s.registry.Invalidate(TagExpenses)
	return nil
}
