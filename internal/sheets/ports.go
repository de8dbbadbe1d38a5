package sheets

import (
	"context"

	"backoffice/internal/core"
)

// OrderWriter appends completed order rows to the bookkeeping spreadsheet.
type OrderWriter interface {
	Append(ctx context.Context, o core.Order) (rowRef string, err error)
}
