package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/core"
)

func TestDrawLifecycle(t *testing.T) {
	repo := &fakeRepo{}
	s := NewDrawService(repo, cache.NewRegistry())
	ctx := context.Background()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	created, err := s.CreateDraw(ctx, CreateDrawInput{Amount: "500.00", Date: &date})
	if err != nil {
		t.Fatalf("CreateDraw() error = %v", err)
	}
	if created.Amount != 50000 {
		t.Errorf("Amount = %d, want 50000", created.Amount)
	}

	draws, err := s.ListDraws(ctx)
	if err != nil || len(draws) != 1 {
		t.Fatalf("ListDraws() = %v, %v", draws, err)
	}

	if err := s.DeleteDraw(ctx, created.ID); err != nil {
		t.Fatalf("DeleteDraw() error = %v", err)
	}
	draws, err = s.ListDraws(ctx)
	if err != nil || len(draws) != 0 {
		t.Fatalf("deleted draw should not be listed: %v, %v", draws, err)
	}

	if err := s.DeleteDraw(ctx, created.ID); !errors.Is(err, core.ErrDrawNotFound) {
		t.Fatalf("expected ErrDrawNotFound, got %v", err)
	}
}

func TestCreateDrawValidation(t *testing.T) {
	s := NewDrawService(&fakeRepo{}, cache.NewRegistry())
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    CreateDrawInput
		field string
	}{
		{"missing amount", CreateDrawInput{Date: &date}, "amount"},
		{"missing date", CreateDrawInput{Amount: "10"}, "date"},
		{"negative amount", CreateDrawInput{Amount: "-10", Date: &date}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateDraw(context.Background(), tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected error keyed by %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}
