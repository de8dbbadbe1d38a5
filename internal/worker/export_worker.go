// Package worker runs the bookkeeping export: it mirrors orders into the
// bookkeeping spreadsheet, driven by AMQP messages with a periodic sweep
// as a safety net for lost messages and downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"backoffice/internal/amqp"
	"backoffice/internal/core"
	"backoffice/internal/sheets"
	"backoffice/internal/storage"
)

// ExportStore is the slice of storage the worker needs.
type ExportStore interface {
	GetOrder(ctx context.Context, id int64) (core.Order, error)
	GetPendingExportOrders(ctx context.Context, limit int) ([]storage.PendingExportOrder, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

type ExportWorker struct {
	store     ExportStore
	writer    sheets.OrderWriter
	batchSize int
}

func NewExportWorker(store ExportStore, writer sheets.OrderWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single order export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.OrderExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "order_id", msg.OrderID)

	order, err := w.store.GetOrder(ctx, msg.OrderID)
	if err != nil {
		if err == core.ErrOrderNotFound {
			// Deleted before the worker got to it; nothing to export.
			slog.WarnContext(ctx, "Order gone before export, dropping message",
				"order_id", msg.OrderID)
			return nil
		}
		return fmt.Errorf("get order from storage: %w", err)
	}

	if err := w.exportOrder(ctx, order); err != nil {
		return fmt.Errorf("export order: %w", err)
	}

	return nil
}

// ProcessPendingExports exports a batch of orders the message path missed.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.GetPendingExportOrders(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		order, err := w.store.GetOrder(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get order", "order_id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "order_id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportOrder(ctx, order); err != nil {
			slog.ErrorContext(ctx, "Failed to export order",
				"order_id", p.ID, "attempts", p.Attempts+1, "error", err)
			continue
		}
	}

	return nil
}

// StartupExportCheck drains the backlog at worker startup with a larger
// batch, recovering from missed messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingExportOrders(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	exported := 0
	failed := 0
	for _, p := range pending {
		order, err := w.store.GetOrder(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get order for startup export",
				"order_id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "order_id", p.ID, "error", err)
			}
			failed++
			continue
		}

		if err := w.exportOrder(ctx, order); err != nil {
			slog.ErrorContext(ctx, "Failed to export order during startup",
				"order_id", p.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)

	return nil
}

func (w *ExportWorker) exportOrder(ctx context.Context, order core.Order) error {
	ref, err := w.writer.Append(ctx, order)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, order.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "order_id", order.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, order.ID); err != nil {
		// The row landed; don't requeue just because the marker write failed.
		slog.ErrorContext(ctx, "Failed to mark order exported", "order_id", order.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported order to bookkeeping sheet",
		"order_id", order.ID,
		"sheet_ref", ref,
		"total_cents", order.Total)

	return nil
}
