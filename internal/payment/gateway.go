package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultGatewayURL = "https://api.razorpay.com"

// HTTPGateway talks to a Razorpay-compatible orders API.
type HTTPGateway struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Client    *http.Client
}

func NewHTTPGateway(baseURL, keyID, keySecret string) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	return &HTTPGateway{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		KeyID:     keyID,
		KeySecret: keySecret,
		Client:    &http.Client{},
	}
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, in IntentRequest) (*Intent, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.KeyID, g.KeySecret)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	var out Intent
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if out.ID == "" {
		return nil, nil
	}
	out.Raw = json.RawMessage(raw)
	return &out, nil
}
