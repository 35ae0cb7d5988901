package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/orders-service/internal/order-service/adapters/inventory"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

const (
	codeNotFound   = "NOT_FOUND"
	codeValidation = "VALIDATION_ERROR"
	codeUpstream   = "UPSTREAM_ERROR"
	codeInternal   = "INTERNAL_SERVER_ERROR"

	msgInternal = "Something went wrong"
)

// writeServiceError maps an error returned by the service to a response.
// Client-facing kinds carry their own message; anything else is logged and
// answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		upstream   *inventory.Error
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound.Message)
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, codeValidation, validation.Message)
	case errors.As(err, &upstream):
		slog.ErrorContext(r.Context(), "inventory service failure", "error", err)
		writeError(w, http.StatusBadGateway, codeUpstream, upstream.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" value missing")
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s value is less than %s", fe.Field(), fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "lte":
			parts = append(parts, fmt.Sprintf("%s value is greater than %s", fe.Field(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
