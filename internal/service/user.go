package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/parceldesk/postal-service/internal/entities"

	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (entities.User, string, error)
}

type UserService struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(logger *slog.Logger, repo UserRepo) *UserService {
	return &UserService{
		logger: logger.With(slog.String("service", "user")),
		repo:   repo,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]entities.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// Login verifies the password against the stored bcrypt hash. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (entities.User, error) {
	user, hash, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, entities.ErrUserNotFound) {
		return entities.User{}, entities.ErrInvalidCredentials
	}
	if err != nil {
		return entities.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return entities.User{}, entities.ErrInvalidCredentials
	}

	s.logger.Debug("user logged in", slog.Int64("user_id", user.ID))
	return user, nil
}
