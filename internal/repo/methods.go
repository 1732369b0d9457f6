package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parceldesk/postal-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) ListMethods(ctx context.Context) ([]entities.Method, error) {
	query, args := r.qb.Select("id", "name", "expedited", "cost").
		From("methods").
		OrderBy("id").
		MustSql()

	var methods []Method
	if err := r.selectContext(ctx, &methods, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select methods: %w", err)
	}

	result := make([]entities.Method, 0, len(methods))
	for _, m := range methods {
		result = append(result, MethodToEntity(m))
	}
	return result, nil
}

func (r *postgresRepo) GetMethodByID(ctx context.Context, id int64) (entities.Method, error) {
	query, args := r.qb.Select("id", "name", "expedited", "cost").
		From("methods").
		Where(sq.Eq{"id": id}).
		MustSql()

	var method Method
	err := r.getContext(ctx, &method, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Method{}, entities.ErrMethodNotFound
	}
	if err != nil {
		return entities.Method{}, fmt.Errorf("failed to get method: %w", err)
	}
	return MethodToEntity(method), nil
}

// UpdateMethod changes a method's display name and/or cost. Shipments
// created earlier keep the cost they were quoted.
func (r *postgresRepo) UpdateMethod(ctx context.Context, id int64, name *string, cost *float64) (entities.Method, error) {
	q := r.qb.Update("methods").Where(sq.Eq{"id": id})
	if name != nil {
		q = q.Set("name", *name)
	}
	if cost != nil {
		q = q.Set("cost", *cost)
	}
	query, args := q.Suffix("RETURNING id, name, expedited, cost").MustSql()

	var method Method
	err := r.getContext(ctx, &method, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Method{}, entities.ErrMethodNotFound
	}
	if err != nil {
		return entities.Method{}, fmt.Errorf("failed to update method: %w", err)
	}
	return MethodToEntity(method), nil
}
