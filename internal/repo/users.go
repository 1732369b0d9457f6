package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parceldesk/postal-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{"id", "username", "email", "password_hash", "address", "priv"}

func (r *postgresRepo) ListUsers(ctx context.Context) ([]entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		OrderBy("id").
		MustSql()

	var users []User
	if err := r.selectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}

	result := make([]entities.User, 0, len(users))
	for _, u := range users {
		result = append(result, UserToEntity(u))
	}
	return result, nil
}

func (r *postgresRepo) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return UserToEntity(user), nil
}

// GetUserByUsername also returns the stored password hash for the
// credential check in the user service.
func (r *postgresRepo) GetUserByUsername(ctx context.Context, username string) (entities.User, string, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, "", entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, "", fmt.Errorf("failed to get user: %w", err)
	}
	return UserToEntity(user), user.PasswordHash, nil
}
