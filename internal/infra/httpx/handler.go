package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
	"github.com/cafedev/brewline/internal/core/services"
	"github.com/cafedev/brewline/internal/orderlog"
)

// Handler handles incoming HTTP requests for the order workflow.
type Handler struct {
	orders  *services.OrderService
	history orderlog.History // nil-safe: the events endpoint reports the log as disabled
}

// NewHandler initializes the handler with the order service and the audit
// log reader. history may be nil when the order log is not configured.
func NewHandler(orders *services.OrderService, history orderlog.History) *Handler {
	return &Handler{orders: orders, history: history}
}

// PlaceOrder receives the request, runs the order workflow, and returns the
// paid order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.Customer.Name == "" || len(req.Beverages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer name and beverages are required")
		return
	}

	beverages, err := buildBeverages(req.Beverages)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_beverage", err.Error())
		return
	}

	customer := domain.NewCustomer(req.Customer.Name, req.Customer.Email, req.Customer.Phone)
	if req.Customer.ID != "" {
		// Returning customer: keep the known ID so ?customer_id= lookups
		// see all of their orders.
		customer.ID = req.Customer.ID
	}

	requestID := middleware.GetReqID(r.Context())
	slog.InfoContext(r.Context(), "placing order", "request_id", requestID, "customer", customer.Name, "beverages", len(beverages))

	order, err := h.orders.PlaceOrder(r.Context(), customer, beverages)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrder retrieves a single order by its ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListOrders lists every order, or only a single customer's orders when the
// customer_id query parameter is set.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*domain.Order
		err    error
	)
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		orders, err = h.orders.ListCustomerOrders(r.Context(), customerID)
	} else {
		orders, err = h.orders.ListOrders(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = mapOrderToResponse(order)
	}
	writeJSON(w, http.StatusOK, out)
}

// MarkOrderReady moves a paid order to READY and notifies the customer.
func (h *Handler) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.MarkOrderReady(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// CancelOrder cancels an order in any state.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListOrderEvents returns the audit trail for one order.
func (h *Handler) ListOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	if h.history == nil {
		writeError(w, http.StatusNotFound, "order_log_disabled", "the order event log is not configured")
		return
	}

	// Resolve the order first so unknown IDs map to 404 instead of an
	// empty event list.
	if _, err := h.orders.GetOrder(r.Context(), orderID); err != nil {
		writeServiceError(w, err)
		return
	}

	entries, err := h.history.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_log_error", err.Error())
		return
	}

	out := make([]OrderEventResponse, len(entries))
	for i, entry := range entries {
		out[i] = OrderEventResponse{
			Event:   entry.Event,
			Status:  string(entry.Status),
			Detail:  entry.Detail,
			TraceID: entry.TraceID,
			At:      entry.At.Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// buildBeverages converts the request DTOs into domain beverages.
func buildBeverages(dtos []BeverageDTO) ([]domain.Beverage, error) {
	beverages := make([]domain.Beverage, 0, len(dtos))
	for i, dto := range dtos {
		size, err := domain.ParseSize(dto.Size)
		if err != nil {
			return nil, fmt.Errorf("beverage %d: %w", i, err)
		}
		switch dto.Type {
		case "coffee":
			beverages = append(beverages, domain.NewCoffee(size, dto.ExtraShots))
		case "tea":
			beverages = append(beverages, domain.NewTea(size, dto.Variety))
		case "smoothie":
			beverages = append(beverages, domain.NewSmoothie(size, dto.Fruits))
		default:
			return nil, fmt.Errorf("beverage %d: unknown type %q", i, dto.Type)
		}
	}
	return beverages, nil
}

// mapOrderToResponse converts the internal order entity to the HTTP
// response format.
func mapOrderToResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID: order.ID,
		Customer: CustomerResponse{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Status:     string(order.Status),
		Total:      order.Total,
		PaymentRef: order.PaymentRef,
		Items:      mapItems(order.Items),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.Format(time.RFC3339),
	}
}

func mapItems(items []domain.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, item := range items {
		out[i] = OrderItemResponse{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		}
	}
	return out
}

// writeServiceError maps workflow errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, ports.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, services.ErrPaymentFailed):
		writeError(w, http.StatusPaymentRequired, "payment_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
