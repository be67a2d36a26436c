package httpx

import (
	"encoding/json"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/harishnarayan-coder/pizza-orders/internal/logging"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/harishnarayan-coder/pizza-orders/internal/payment"
	"go.uber.org/zap"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orders.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, orders.ErrIncompleteOrder),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidPaymentStatus),
		errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, inventory.ErrIngredientNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to status codes. Internal errors are logged
// and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
		if errors.Is(err, payment.ErrGateway) {
			msg = "payment gateway unavailable"
		}
	}
	writeJSON(w, code, map[string]string{"error": msg})
}
