package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves the admin console: full listings and catalog
// edits. Access control sits in front of this service (external auth
// provider), the handlers themselves are plain CRUD.
type AdminHandler struct {
	logger    *slog.Logger
	validate  *validator.Validate
	shipments ShipmentService
	methods   MethodService
	users     UserService
}

func NewAdminHandler(logger *slog.Logger, shipments ShipmentService, methods MethodService, users UserService) *AdminHandler {
	return &AdminHandler{
		logger:    logger.With(slog.String("handler", "admin")),
		validate:  validator.New(),
		shipments: shipments,
		methods:   methods,
		users:     users,
	}
}

func (h *AdminHandler) Init(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/shipments", h.ListShipments)
		r.Get("/users", h.ListUsers)
		r.Get("/users/by-email", h.GetUserByEmail)
		r.Patch("/methods/{id}", h.UpdateMethod)
	})
}

// ListShipments возвращает все отправления, опционально по пользователю.
// @Summary      Список отправлений
// @Tags         admin
// @Produce      json
// @Param        user_id query int false "Фильтр по отправителю"
// @Success      200  {object}  ShipmentsResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/admin/shipments [get]
func (h *AdminHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		shipments []entities.Shipment
		err       error
	)
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			utils.WriteError(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		shipments, err = h.shipments.ListShipmentsByUser(ctx, userID)
	} else {
		shipments, err = h.shipments.ListShipments(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shipments", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ShipmentsResponse{Success: true, Shipments: ShipmentsEntityToJSON(shipments)}, http.StatusOK)
}

// ListUsers возвращает всех пользователей.
// @Summary      Список пользователей
// @Tags         admin
// @Produce      json
// @Success      200  {object}  UsersResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, UserEntityToJSON(u))
	}
	utils.WriteJSON(w, UsersResponse{Success: true, Users: result}, http.StatusOK)
}

// GetUserByEmail возвращает пользователя по email.
// @Summary      Пользователь по email
// @Tags         admin
// @Produce      json
// @Param        email query string true "Email"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/admin/users/by-email [get]
func (h *AdminHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	if err := h.validate.Var(email, "required,email"); err != nil {
		utils.WriteError(w, "valid email parameter is required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, email)
	if errors.Is(err, entities.ErrUserNotFound) {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, UserResponse{Success: true, User: UserEntityToJSON(user)}, http.StatusOK)
}

// UpdateMethod изменяет название или стоимость способа доставки.
// @Summary      Изменить способ доставки
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path  int                 true "ID способа"
// @Param        request body  UpdateMethodRequest true "Изменяемые поля"
// @Success      200  {object}  MethodResponse
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/admin/methods/{id} [patch]
func (h *AdminHandler) UpdateMethod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid method id", http.StatusBadRequest)
		return
	}

	var req UpdateMethodRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	method, err := h.methods.UpdateMethod(ctx, id, req.Name, req.Cost)
	if errors.Is(err, entities.ErrMethodNotFound) {
		utils.WriteError(w, "method not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update method", slog.Int64("method_id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, MethodResponse{Success: true, Method: MethodEntityToJSON(method)}, http.StatusOK)
}
