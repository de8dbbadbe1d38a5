// Package services is the mutation and query layer: validate input,
// persist, invalidate cache tags, publish follow-up work.
package services

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError carries field-keyed messages for the HTTP boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe)
	}
	return &ValidationError{Fields: fields}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

type CreateOrderInput struct {
	CustomerName    string     `json:"customerName" validate:"required"`
	CustomerEmail   string     `json:"customerEmail" validate:"omitempty,email"`
	Description     string     `json:"description"`
	DueDate         *time.Time `json:"dueDate"`
	Total           string     `json:"total" validate:"required"`
	SalesTaxRate    string     `json:"salesTaxRate"`
	PaymentMethod   string     `json:"paymentMethod" validate:"omitempty,oneof=stripe cash"`
	PaymentStatus   string     `json:"paymentStatus" validate:"omitempty,oneof=open paid"`
	PaymentDate     *time.Time `json:"paymentDate"`
	StripeInvoiceID string     `json:"stripeInvoiceId"`
}

type UpdateOrderInput struct {
	DueDate *time.Time `json:"dueDate"`
	Status  string     `json:"status" validate:"omitempty,oneof=pending complete"`
}

type CreateDrawInput struct {
	Amount string     `json:"amount" validate:"required"`
	Date   *time.Time `json:"date" validate:"required"`
}

type CreateExpenseInput struct {
	Amount      string     `json:"amount" validate:"required"`
	Date        *time.Time `json:"date" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Receipt     string     `json:"receipt"`
}
