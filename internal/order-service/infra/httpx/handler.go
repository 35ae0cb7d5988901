package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
	"github.com/jcmexdev/orders-service/internal/order-service/app"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/order-service/shipping"
)

// Service is what the HTTP layer needs from the order-service use cases.
type Service interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.PageRequest) (domain.Page[domain.Order], error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter, page domain.PageRequest) (domain.Page[domain.Customer], error)
	CustomerShipping(ctx context.Context, customerID string) (shipping.Quote, error)
	OrderWorkflow(ctx context.Context, orderID string) (app.Workflow, error)
	FailedWorkflows(ctx context.Context) ([]sagalog.SagaLog, error)
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	validate := validator.New()
	// report json names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Handler{service: service, validate: validate}
}

// CreateOrder prices, persists and confirms an order in one request.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Request doesn't match the schema: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.InfoContext(r.Context(), "rejected order request", "error", err)
		writeError(w, http.StatusBadRequest, codeValidation, validationMessage(err))
		return
	}

	slog.InfoContext(r.Context(), "creating order", "customer_id", req.CustomerID, "items", len(req.Items))

	order, err := h.service.CreateOrder(r.Context(), app.CreateOrderInput{
		CustomerID:     req.CustomerID,
		Items:          req.items(),
		ShippingMethod: shipping.Method(req.ShippingMethod),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Order: order})
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{Order: order})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.OrderFilter{
		CustomerID: q.Get("customerId"),
		Status:     domain.OrderStatus(strings.ToUpper(q.Get("status"))),
	}

	result, err := h.service.ListOrders(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetOrderWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := h.service.OrderWorkflow(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (h *Handler) ListFailedWorkflows(w http.ResponseWriter, r *http.Request) {
	failed, err := h.service.FailedWorkflows(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FailedWorkflowsResponse{Workflows: failed})
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.CustomerFilter{Name: q.Get("name"), Email: q.Get("email")}

	result, err := h.service.ListCustomers(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetCustomerShipping quotes every shipping method for the customer. A
// carrier outage still answers 200 with every method "Not available".
func (h *Handler) GetCustomerShipping(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.CustomerShipping(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ShippingResponse{ShippingInfo: quote})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageRequest parses page and pageSize. Missing values stay zero and get
// defaults downstream.
func (h *Handler) pageRequest(w http.ResponseWriter, r *http.Request) (domain.PageRequest, bool) {
	var q ListQuery
	for name, dst := range map[string]*int{"page": &q.Page, "pageSize": &q.PageSize} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, name+" must be an integer")
			return domain.PageRequest{}, false
		}
		*dst = n
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, validationMessage(err))
		return domain.PageRequest{}, false
	}
	return domain.PageRequest{Page: q.Page, PageSize: q.PageSize}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Code:       code,
		Error:      http.StatusText(status),
		Message:    msg,
	})
}
