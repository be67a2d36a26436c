package httpx

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/harishnarayan-coder/pizza-orders/internal/logging"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) (*orders.Order, error)
	Get(ctx context.Context, id string) (*orders.Order, error)
	View(ctx context.Context, id string) (*orders.OrderView, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	List(ctx context.Context) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*orders.Order, error)
}

type ViewCache interface {
	Get(ctx context.Context, orderID string) ([]byte, bool, error)
	Set(ctx context.Context, orderID string, view []byte) error
	Invalidate(ctx context.Context, orderID string) error
}

// IdempotencyStore claims a key before the order is placed. Claim returns
// claimed=false with the stored order id for a finished request, or with ""
// while another request holding the key is still running.
type IdempotencyStore interface {
	Claim(ctx context.Context, userID, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, userID, key, orderID string) error
	Abandon(ctx context.Context, userID, key string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// OrdersHandler serves /api/orders. Cache, Idem and Limiter are optional.
type OrdersHandler struct {
	Service OrderService
	Cache   ViewCache
	Idem    IdempotencyStore
	Limiter RateLimiter
}

type PlaceOrderReq struct {
	Items             orders.Selection `json:"items"`
	TotalPrice        *decimal.Decimal `json:"totalPrice"`
	PaymentStatus     string           `json:"paymentStatus"`
	RazorpayOrderID   string           `json:"razorpayOrderId"`
	RazorpayPaymentID string           `json:"razorpayPaymentId"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/", h.placeOrder)
		r.Get("/myorders", h.myOrders)
		r.Get("/{id}", h.getOrder)
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/", h.listOrders)
			r.Put("/{id}/status", h.updateStatus)
		})
	})
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	log := logging.FromContext(r.Context())

	var req PlaceOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	idemKey := r.Header.Get("Idempotency-Key")
	claimed := false
	if h.Idem != nil && idemKey != "" {
		orderID, ok, err := h.Idem.Claim(ctx, id.UserID, idemKey)
		switch {
		case err != nil:
			log.Warn("idempotency claim failed", zap.Error(err))
		case ok:
			claimed = true
		case orderID == "":
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a request with this Idempotency-Key is still in progress"})
			return
		default:
			o, err := h.Service.Get(ctx, orderID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, o)
			return
		}
	}
	abandon := func() {
		if !claimed {
			return
		}
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := h.Idem.Abandon(actx, id.UserID, idemKey); err != nil {
			log.Warn("idempotency abandon failed", zap.Error(err))
		}
	}

	if h.Limiter != nil {
		allowed, err := h.Limiter.Allow(ctx, id.UserID)
		if err != nil {
			// limiter outage must not block ordering
			log.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			abandon()
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many orders, try again later"})
			return
		}
	}

	o, err := h.Service.PlaceOrder(ctx, orders.PlaceOrderInput{
		UserID:           id.UserID,
		Items:            req.Items,
		TotalPrice:       req.TotalPrice,
		PaymentStatus:    req.PaymentStatus,
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
	})
	if err != nil {
		abandon()
		writeError(w, r, err)
		return
	}

	if claimed {
		if err := h.Idem.Complete(context.WithoutCancel(ctx), id.UserID, idemKey, o.ID); err != nil {
			log.Warn("idempotency complete failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) cache
	if h.Cache != nil {
		if b, ok, err := h.Cache.Get(ctx, orderID); err == nil && ok {
			var v orders.OrderView
			if json.Unmarshal(b, &v) == nil {
				if !id.IsAdmin() && v.UserID != id.UserID {
					writeError(w, r, orders.ErrForbidden)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(b)
				return
			}
		}
	}

	// 2) store
	v, err := h.Service.View(ctx, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !id.IsAdmin() && v.UserID != id.UserID {
		writeError(w, r, orders.ErrForbidden)
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.Cache != nil {
		_ = h.Cache.Set(ctx, orderID, b)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	list, err := h.Service.ListByUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	o, err := h.Service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Invalidate(r.Context(), orderID); err != nil {
			logging.FromContext(r.Context()).Warn("order view invalidate failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, o)
}
