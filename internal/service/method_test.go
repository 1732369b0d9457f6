package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMethodRepo struct {
	methods map[int64]entities.Method
	updates int
}

func (f *fakeMethodRepo) ListMethods(context.Context) ([]entities.Method, error) {
	result := make([]entities.Method, 0, len(f.methods))
	for _, m := range f.methods {
		result = append(result, m)
	}
	return result, nil
}

func (f *fakeMethodRepo) GetMethodByID(_ context.Context, id int64) (entities.Method, error) {
	m, ok := f.methods[id]
	if !ok {
		return entities.Method{}, entities.ErrMethodNotFound
	}
	return m, nil
}

func (f *fakeMethodRepo) UpdateMethod(_ context.Context, id int64, name *string, cost *float64) (entities.Method, error) {
	m, ok := f.methods[id]
	if !ok {
		return entities.Method{}, entities.ErrMethodNotFound
	}
	f.updates++
	if name != nil {
		m.Name = *name
	}
	if cost != nil {
		m.Cost = *cost
	}
	f.methods[id] = m
	return m, nil
}

func TestMethodService_UpdateMethod(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newRepo := func() *fakeMethodRepo {
		return &fakeMethodRepo{methods: map[int64]entities.Method{
			1: {ID: 1, Name: "standard", Cost: 5},
			2: {ID: 2, Name: "express", Expedited: true, Cost: 15},
		}}
	}

	t.Run("updates name and cost", func(t *testing.T) {
		repo := newRepo()
		svc := service.NewMethodService(logger, repo)

		name := "priority"
		cost := 20.0
		method, err := svc.UpdateMethod(context.Background(), 2, &name, &cost)
		require.NoError(t, err)
		assert.Equal(t, "priority", method.Name)
		assert.InDelta(t, 20.0, method.Cost, 1e-9)
		assert.True(t, method.Expedited)
	})

	t.Run("no fields means no write", func(t *testing.T) {
		repo := newRepo()
		svc := service.NewMethodService(logger, repo)

		method, err := svc.UpdateMethod(context.Background(), 1, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "standard", method.Name)
		assert.Zero(t, repo.updates)
	})

	t.Run("unknown method", func(t *testing.T) {
		repo := newRepo()
		svc := service.NewMethodService(logger, repo)

		name := "x"
		_, err := svc.UpdateMethod(context.Background(), 99, &name, nil)
		assert.ErrorIs(t, err, entities.ErrMethodNotFound)
	})
}
