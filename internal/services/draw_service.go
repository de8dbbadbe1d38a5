package services

import (
	"context"
	"fmt"

	"backoffice/internal/cache"
	"backoffice/internal/core"
)

type DrawRepository interface {
	CreateDraw(ctx context.Context, d core.Draw) (core.Draw, error)
	ListDraws(ctx context.Context) ([]core.Draw, error)
	SoftDeleteDraw(ctx context.Context, id int64) error
}

// DrawService manages personal income withdrawals. Deletion is logical
// only so the money trail stays auditable.
type DrawService struct {
	repo     DrawRepository
	registry *cache.Registry
	draws    *cache.Cache[[]core.Draw]
}

func NewDrawService(repo DrawRepository, registry *cache.Registry) *DrawService {
	s := &DrawService{
		repo:     repo,
		registry: registry,
		draws:    cache.New[[]core.Draw](),
	}
	cache.Bind(registry, s.draws, TagDraws)
	return s
}

func (s *DrawService) CreateDraw(ctx context.Context, in CreateDrawInput) (core.Draw, error) {
	if err := checkInput(in); err != nil {
		return core.Draw{}, err
	}

	amount, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Draw{}, fieldError("amount", "must be a positive decimal amount")
	}

	created, err := s.repo.CreateDraw(ctx, core.Draw{Amount: amount, Date: *in.Date})
	if err != nil {
		return core.Draw{}, fmt.Errorf("create draw: %w", err)
	}

	s.registry.Invalidate(TagDraws)
	return created, nil
}

func (s *DrawService) ListDraws(ctx context.Context) ([]core.Draw, error) {
	if cached, ok := s.draws.Get(TagDraws); ok {
		return cached, nil
	}
	draws, err := s.repo.ListDraws(ctx)
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	s.draws.Set(TagDraws, draws)
	return draws, nil
}

func (s *DrawService) DeleteDraw(ctx context.Context, id int64) error {
	if err := s.repo.SoftDeleteDraw(ctx, id); err != nil {
		if err == core.ErrDrawNotFound {
			return err
		}
		return fmt.Errorf("delete draw: %w", err)
	}
	s.registry.Invalidate(TagDraws)
	return nil
}
