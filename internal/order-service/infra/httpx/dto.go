package httpx

import (
	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/order-service/shipping"
)

type CreateOrderRequest struct {
	CustomerID     string               `json:"customerId" validate:"required,uuid"`
	Items          []CreateOrderItemDTO `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string               `json:"shippingMethod" validate:"required,oneof=pac sedex dotPackage dotCom expresso"`
}

type CreateOrderItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type OrderResponse struct {
	Order domain.Order `json:"order"`
}

type ShippingResponse struct {
	ShippingInfo shipping.Quote `json:"shippingInfo"`
}

type FailedWorkflowsResponse struct {
	Workflows []sagalog.SagaLog `json:"workflows"`
}

type ListQuery struct {
	Page     int `validate:"gte=0"`
	PageSize int `validate:"gte=0,lte=100"`
}

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func (r CreateOrderRequest) items() []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
