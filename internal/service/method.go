package service

import (
	"context"
	"log/slog"

	"github.com/parceldesk/postal-service/internal/entities"
)

type MethodRepo interface {
	ListMethods(ctx context.Context) ([]entities.Method, error)
	GetMethodByID(ctx context.Context, id int64) (entities.Method, error)
	UpdateMethod(ctx context.Context, id int64, name *string, cost *float64) (entities.Method, error)
}

type MethodService struct {
	logger *slog.Logger
	repo   MethodRepo
}

func NewMethodService(logger *slog.Logger, repo MethodRepo) *MethodService {
	return &MethodService{
		logger: logger.With(slog.String("service", "method")),
		repo:   repo,
	}
}

func (s *MethodService) ListMethods(ctx context.Context) ([]entities.Method, error) {
	return s.repo.ListMethods(ctx)
}

// UpdateMethod edits the catalog row only. Shipments created before the
// edit keep their original quote.
func (s *MethodService) UpdateMethod(ctx context.Context, id int64, name *string, cost *float64) (entities.Method, error) {
	if name == nil && cost == nil {
		return s.repo.GetMethodByID(ctx, id)
	}

	method, err := s.repo.UpdateMethod(ctx, id, name, cost)
	if err != nil {
		return entities.Method{}, err
	}

	s.logger.Info("method updated", slog.Int64("method_id", id))
	return method, nil
}
