package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ShipmentService interface {
	CreateShipment(ctx context.Context, weight float64, method entities.ShippingMethod, from, to entities.Address, senderID int64) (entities.Shipment, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error)
	SearchShipments(ctx context.Context, term string) ([]entities.Shipment, error)
	ListShipments(ctx context.Context) ([]entities.Shipment, error)
	ListShipmentsByUser(ctx context.Context, userID int64) ([]entities.Shipment, error)
}

type MethodService interface {
	ListMethods(ctx context.Context) ([]entities.Method, error)
	UpdateMethod(ctx context.Context, id int64, name *string, cost *float64) (entities.Method, error)
}

type PostalHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      ShipmentService
	methods  MethodService
}

func NewPostalHandler(logger *slog.Logger, svc ShipmentService, methods MethodService) *PostalHandler {
	return &PostalHandler{
		logger:   logger.With(slog.String("handler", "postal")),
		validate: validator.New(),
		svc:      svc,
		methods:  methods,
	}
}

func (h *PostalHandler) Init(r chi.Router) {
	r.Route("/api/postal", func(r chi.Router) {
		r.Post("/shipment", h.CreateShipment)
		r.Get("/shipment/search", h.SearchShipments)
		r.Get("/shipment/{id}", h.GetShipmentByID)
		r.Post("/shipment/{id}/status", h.UpdateStatus)
		r.Get("/methods", h.ListMethods)
	})
}

// CreateShipment создает отправление вместе с адресами и ярлыком.
// @Summary      Создать отправление
// @Tags         postal
// @Accept       json
// @Produce      json
// @Param        request body CreateShipmentRequest true "Данные отправления"
// @Success      201  {object}  ShipmentResponse
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/postal/shipment [post]
func (h *PostalHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateShipmentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	method := entities.ShippingMethod{
		Name:      req.ShippingMethod.Method,
		Expedited: req.ShippingMethod.Expedited,
	}

	shipment, err := h.svc.CreateShipment(ctx, req.Weight, method,
		AddressJSONToEntity(req.From), AddressJSONToEntity(req.To), req.Sender)
	if errors.Is(err, entities.ErrInvalidAddress) {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create shipment", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	shipmentsCreated.Inc()
	utils.WriteJSON(w, ShipmentResponse{Success: true, Shipment: ShipmentEntityToJSON(shipment)}, http.StatusCreated)
}

// UpdateStatus обновляет статус отправления.
// @Summary      Обновить статус отправления
// @Tags         postal
// @Accept       json
// @Produce      json
// @Param        id      path  int                 true "ID отправления"
// @Param        request body  UpdateStatusRequest true "Новый статус"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/postal/shipment/{id}/status [post]
func (h *PostalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := shipmentID(r)
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err = h.svc.UpdateStatus(ctx, id, req.Status)
	switch {
	case errors.Is(err, entities.ErrInvalidStatus):
		utils.WriteError(w, "unknown status: "+req.Status, http.StatusBadRequest)
	case errors.Is(err, entities.ErrShipmentNotFound):
		utils.WriteError(w, "shipment not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to update status", slog.Int64("shipment_id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		statusUpdates.WithLabelValues(req.Status).Inc()
		utils.WriteJSON(w, MessageResponse{Success: true, Message: "Status updated"}, http.StatusOK)
	}
}

// GetShipmentByID возвращает отправление по ID.
// @Summary      Получить отправление
// @Tags         postal
// @Produce      json
// @Param        id path int true "ID отправления"
// @Success      200  {object}  ShipmentResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/postal/shipment/{id} [get]
func (h *PostalHandler) GetShipmentByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := shipmentID(r)
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	shipment, err := h.svc.GetShipmentByID(ctx, id)
	if errors.Is(err, entities.ErrShipmentNotFound) {
		utils.WriteError(w, "shipment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get shipment", slog.Int64("shipment_id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ShipmentResponse{Success: true, Shipment: ShipmentEntityToJSON(shipment)}, http.StatusOK)
}

// SearchShipments ищет отправления по имени отправителя или получателя.
// @Summary      Поиск отправлений
// @Tags         postal
// @Produce      json
// @Param        query query string true "Подстрока имени"
// @Success      200  {object}  SearchResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/postal/shipment/search [get]
func (h *PostalHandler) SearchShipments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	term := r.URL.Query().Get("query")
	if term == "" {
		utils.WriteError(w, "query parameter is required", http.StatusBadRequest)
		return
	}

	results, err := h.svc.SearchShipments(ctx, term)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to search shipments", slog.String("query", term), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, SearchResponse{Success: true, Results: ShipmentsEntityToJSON(results)}, http.StatusOK)
}

// ListMethods возвращает каталог способов доставки.
// @Summary      Список способов доставки
// @Tags         postal
// @Produce      json
// @Success      200  {object}  MethodsResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /api/postal/methods [get]
func (h *PostalHandler) ListMethods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	methods, err := h.methods.ListMethods(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list methods", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Method, 0, len(methods))
	for _, m := range methods {
		result = append(result, MethodEntityToJSON(m))
	}
	utils.WriteJSON(w, MethodsResponse{Success: true, Methods: result}, http.StatusOK)
}

func shipmentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
