package memory

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/core"
)

func TestStoreAppend(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), core.Order{ID: 1, CustomerName: "Ada", Total: 10635})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, err = s.Append(context.Background(), core.Order{ID: 2, CustomerName: "Grace", Total: 500})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0].CustomerName != "Ada" || rows[1].CustomerName != "Grace" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestStoreFailWith(t *testing.T) {
	s := New()
	boom := errors.New("sheet unavailable")
	s.FailWith(boom)

	if _, err := s.Append(context.Background(), core.Order{ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(s.Rows()) != 0 {
		t.Fatal("failed append should not store a row")
	}

	s.FailWith(nil)
	if _, err := s.Append(context.Background(), core.Order{ID: 1}); err != nil {
		t.Fatalf("append after recovery: %v", err)
	}
}
