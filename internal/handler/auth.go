package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type UserService interface {
	Login(ctx context.Context, username, password string) (entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
}

type AuthHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      UserService
}

func NewAuthHandler(logger *slog.Logger, svc UserService) *AuthHandler {
	return &AuthHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Post("/api/user/login", h.Login)
}

// Login проверяет учетные данные пользователя.
// @Summary      Вход пользователя
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Учетные данные"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, err := h.svc.Login(ctx, req.Username, req.Password)
	if errors.Is(err, entities.ErrInvalidCredentials) {
		loginFailures.Inc()
		utils.WriteError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to login", slog.String("username", req.Username), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, LoginResponse{Success: true, User: User{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}}, http.StatusOK)
}
