// Package payment creates payment intents and verifies gateway signatures.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/harishnarayan-coder/pizza-orders/internal/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"strconv"
	"time"
)

const (
	DefaultCurrency = "INR"
	// DefaultSecret signs and verifies when no key secret is configured.
	DefaultSecret = "placeholder_secret"

	simulatedPrefix = "sim_order_"
)

var (
	ErrGateway       = errors.New("payment: gateway unavailable")
	ErrInvalidAmount = errors.New("payment: amount must be positive")
)

var placeholderKeys = map[string]bool{
	"":                     true,
	"rzp_test_placeholder": true,
	"your_razorpay_key_id": true,
}

type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
	Timeout   time.Duration
}

// Simulated reports whether the key id is missing or one of the known placeholders.
func (c Config) Simulated() bool { return placeholderKeys[c.KeyID] }

type Intent struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt,omitempty"`
	Status      string `json:"status,omitempty"`
	IsSimulated bool   `json:"isDummy,omitempty"`

	// Raw is the gateway response body; when set it is what MarshalJSON emits.
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON returns a live intent exactly as the gateway sent it.
func (in Intent) MarshalJSON() ([]byte, error) {
	if len(in.Raw) > 0 {
		return in.Raw, nil
	}
	type plain Intent
	return json.Marshal(plain(in))
}

type IntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway is the remote payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req IntentRequest) (*Intent, error)
}

type Verifier struct {
	gateway   Gateway
	secret    []byte
	currency  string
	timeout   time.Duration
	simulated bool
	log       *zap.Logger
	now       func() time.Time
}

// NewVerifier fixes simulation mode from cfg once; gw may be nil when simulated.
func NewVerifier(cfg Config, gw Gateway, log *zap.Logger) *Verifier {
	if cfg.KeySecret == "" {
		cfg.KeySecret = DefaultSecret
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{
		gateway:   gw,
		secret:    []byte(cfg.KeySecret),
		currency:  cfg.Currency,
		timeout:   cfg.Timeout,
		simulated: cfg.Simulated() || gw == nil,
		log:       log,
		now:       time.Now,
	}
}

func (v *Verifier) Simulated() bool { return v.simulated }

// MinorUnits converts a major-unit amount to the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (v *Verifier) CreateIntent(ctx context.Context, amount decimal.Decimal) (*Intent, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	minor := MinorUnits(amount)

	if v.simulated {
		metrics.PaymentIntents.WithLabelValues("simulated", "ok").Inc()
		return &Intent{
			ID:          simulatedPrefix + uuid.NewString(),
			Amount:      minor,
			Currency:    v.currency,
			Status:      "created",
			IsSimulated: true,
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := IntentRequest{
		Amount:   minor,
		Currency: v.currency,
		Receipt:  "receipt_order_" + strconv.FormatInt(v.now().UnixMilli(), 10),
	}
	intent, err := v.gateway.CreateOrder(ctx, req)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("gateway", "error").Inc()
		v.log.Warn("payment_intent_failed", zap.Int64("amount", minor), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if intent == nil {
		metrics.PaymentIntents.WithLabelValues("gateway", "error").Inc()
		return nil, fmt.Errorf("%w: empty response", ErrGateway)
	}
	metrics.PaymentIntents.WithLabelValues("gateway", "ok").Inc()
	return intent, nil
}

// Sign returns the hex HMAC-SHA256 of "orderRef|paymentRef".
func (v *Verifier) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the expected digest with signature byte for byte.
func (v *Verifier) VerifySignature(orderRef, paymentRef, signature string) bool {
	return hmac.Equal([]byte(v.Sign(orderRef, paymentRef)), []byte(signature))
}
