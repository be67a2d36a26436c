package httpx

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/harishnarayan-coder/pizza-orders/internal/payment"
	"github.com/shopspring/decimal"
	"net/http"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal) (*payment.Intent, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}

type PaymentHandler struct {
	Service PaymentService
}

type CreateIntentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

type VerifyPaymentReq struct {
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	Signature         string `json:"signature"`
}

type VerifyPaymentResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *PaymentHandler) Register(r chi.Router) {
	r.Route("/api/payment", func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/create-order", h.createOrder)
		r.Post("/verify-payment", h.verifyPayment)
	})
}

func (h *PaymentHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	intent, err := h.Service.CreateIntent(r.Context(), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

func (h *PaymentHandler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if h.Service.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.Signature) {
		writeJSON(w, http.StatusOK, VerifyPaymentResp{Success: true, Message: "Payment verified"})
		return
	}
	writeJSON(w, http.StatusOK, VerifyPaymentResp{Success: false, Message: "Payment verification failed"})
}
