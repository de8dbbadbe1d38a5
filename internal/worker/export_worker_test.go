package worker

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/amqp"
	"backoffice/internal/core"
	"backoffice/internal/sheets/memory"
	"backoffice/internal/storage"
)

type fakeStore struct {
	orders       map[int64]core.Order
	exported     []int64
	exportErrors []int64
}

func newFakeStore(orders ...core.Order) *fakeStore {
	s := &fakeStore{orders: make(map[int64]core.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeStore) GetOrder(_ context.Context, id int64) (core.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return core.Order{}, core.ErrOrderNotFound
	}
	return o, nil
}

func (s *fakeStore) GetPendingExportOrders(_ context.Context, limit int) ([]storage.PendingExportOrder, error) {
	var pending []storage.PendingExportOrder
	for id := range s.orders {
		if len(pending) >= limit {
			break
		}
		if !contains(s.exported, id) {
			pending = append(pending, storage.PendingExportOrder{ID: id})
		}
	}
	return pending, nil
}

func (s *fakeStore) MarkExported(_ context.Context, id int64) error {
	s.exported = append(s.exported, id)
	return nil
}

func (s *fakeStore) MarkExportError(_ context.Context, id int64) error {
	s.exportErrors = append(s.exportErrors, id)
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestHandleExportMessage(t *testing.T) {
	store := newFakeStore(core.Order{ID: 1, CustomerName: "Ada", Total: 10000})
	writer := memory.New()
	w := NewExportWorker(store, writer, 10)

	err := w.HandleExportMessage(context.Background(), amqp.NewOrderExportMessage(1))
	if err != nil {
		t.Fatalf("HandleExportMessage() error = %v", err)
	}

	if len(writer.Rows()) != 1 || writer.Rows()[0].ID != 1 {
		t.Fatalf("expected order 1 appended, got %+v", writer.Rows())
	}
	if !contains(store.exported, 1) {
		t.Fatal("order should be marked exported")
	}
}

func TestHandleExportMessageOrderGone(t *testing.T) {
	w := NewExportWorker(newFakeStore(), memory.New(), 10)

	// A deleted order is not an error; the message must not requeue forever.
	if err := w.HandleExportMessage(context.Background(), amqp.NewOrderExportMessage(99)); err != nil {
		t.Fatalf("HandleExportMessage() should drop missing orders, got %v", err)
	}
}

func TestHandleExportMessageAppendFailure(t *testing.T) {
	store := newFakeStore(core.Order{ID: 1})
	writer := memory.New()
	writer.FailWith(errors.New("quota exceeded"))
	w := NewExportWorker(store, writer, 10)

	err := w.HandleExportMessage(context.Background(), amqp.NewOrderExportMessage(1))
	if err == nil {
		t.Fatal("HandleExportMessage() should fail when the append fails")
	}
	if !contains(store.exportErrors, 1) {
		t.Fatal("failed export should bump the attempt counter")
	}
	if contains(store.exported, 1) {
		t.Fatal("failed export must not be marked exported")
	}
}

func TestStartupExportCheckDrainsBacklog(t *testing.T) {
	store := newFakeStore(
		core.Order{ID: 1, CustomerName: "a"},
		core.Order{ID: 2, CustomerName: "b"},
		core.Order{ID: 3, CustomerName: "c"},
	)
	writer := memory.New()
	w := NewExportWorker(store, writer, 10)

	if err := w.StartupExportCheck(context.Background()); err != nil {
		t.Fatalf("StartupExportCheck() error = %v", err)
	}
	if len(writer.Rows()) != 3 {
		t.Fatalf("expected 3 rows exported, got %d", len(writer.Rows()))
	}
	if len(store.exported) != 3 {
		t.Fatalf("expected 3 orders marked, got %d", len(store.exported))
	}
}

func TestProcessPendingExportsEmptyBacklog(t *testing.T) {
	w := NewExportWorker(newFakeStore(), memory.New(), 10)
	if err := w.ProcessPendingExports(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExports() error = %v", err)
	}
}
