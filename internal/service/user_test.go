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
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]entities.User
	hashes map[string]string
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]entities.User, error) {
	result := make([]entities.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return entities.User{}, entities.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (entities.User, string, error) {
	u, ok := f.users[username]
	if !ok {
		return entities.User{}, "", entities.ErrUserNotFound
	}
	return u, f.hashes[username], nil
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		users: map[string]entities.User{
			"admin1": {ID: 2, Username: "admin1", Email: "admin@example.com", Role: entities.RoleAdmin},
		},
		hashes: map[string]string{"admin1": string(hash)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewUserService(logger, repo)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "admin1", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		assert.Equal(t, entities.RoleAdmin, user.Role)
		assert.True(t, user.IsAdmin())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "admin1", "wrong")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown username maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody", "s3cret")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestUserService_GetUserByEmail(t *testing.T) {
	repo := &fakeUserRepo{
		users: map[string]entities.User{
			"employee1": {ID: 1, Username: "employee1", Email: "emp@example.com", Role: entities.RoleEmployee},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewUserService(logger, repo)

	user, err := svc.GetUserByEmail(context.Background(), "emp@example.com")
	require.NoError(t, err)
	assert.Equal(t, "employee1", user.Username)
	assert.False(t, user.IsAdmin())

	_, err = svc.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}
