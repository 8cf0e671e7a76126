// Package delta implements the Delta Exchange REST and WebSocket clients the
// trading core talks to.
package delta

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.delta.exchange"

// Client is the authenticated REST client.
type Client struct {
	apiKey      string
	apiSecret   string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a REST client with a 10s request timeout.
func NewClient(apiKey, apiSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: NewRateLimiter(8, time.Second),
	}
}

// sign builds the request signature over timestamp, method, path, and body.
func (c *Client) sign(timestamp, method, path, body string) string {
	message := timestamp + "." + method + "." + path
	if body != "" {
		message += "." + body
	}
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// request performs a signed API call and decodes the envelope's data field
// into out.
func (c *Client) request(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	c.rateLimiter.Wait(ctx)

	body := ""
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = string(raw)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("timestamp", timestamp)
	req.Header.Set("signature", c.sign(timestamp, method, path, body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, string(raw))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrOrderNotFound, string(raw))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, string(raw))
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d: %s", ErrOrderRejected, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("parsing response envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("parsing response data: %w", err)
	}
	return nil
}

// GetPrice fetches the last traded price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	var tickers []Ticker
	path := "/v2/tickers?symbol=" + url.QueryEscape(symbol)
	if err := c.request(ctx, http.MethodGet, path, nil, &tickers); err != nil {
		return 0, err
	}
	if len(tickers) == 0 || tickers[0].LastPrice <= 0 {
		return 0, fmt.Errorf("%w: no ticker for %s", ErrNetwork, symbol)
	}
	return tickers[0].LastPrice, nil
}

// GetBalance fetches the available wallet balance.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	var balances []struct {
		Available float64 `json:"available_balance,string"`
	}
	if err := c.request(ctx, http.MethodGet, "/v2/wallet/balances", nil, &balances); err != nil {
		return 0, err
	}
	total := 0.0
	for _, b := range balances {
		total += b.Available
	}
	return total, nil
}

// GetOpenOrders fetches the symbol's resting orders. The exchange reports
// order ids as numbers and limit prices as strings; both are normalized here
// so CancelOrder can take the same string id PlaceOrder returns.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]OpenOrder, error) {
	var raw []struct {
		ID            int64   `json:"id"`
		ProductSymbol string  `json:"product_symbol"`
		Side          string  `json:"side"`
		LimitPrice    float64 `json:"limit_price,string"`
		Size          float64 `json:"size"`
		State         string  `json:"state"`
	}
	path := "/v2/orders?state=open&symbol=" + url.QueryEscape(symbol)
	if err := c.request(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	orders := make([]OpenOrder, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, OpenOrder{
			OrderID:  strconv.FormatInt(o.ID, 10),
			Symbol:   o.ProductSymbol,
			Side:     o.Side,
			Price:    o.LimitPrice,
			Quantity: o.Size,
			Status:   o.State,
		})
	}
	return orders, nil
}

// PlaceOrder submits a limit order and returns the exchange order id.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (string, error) {
	payload := map[string]interface{}{
		"product_symbol": req.Symbol,
		"side":           req.Side,
		"limit_price":    strconv.FormatFloat(req.Price, 'f', -1, 64),
		"size":           req.Quantity,
		"order_type":     "limit_order",
	}

	var placed struct {
		ID int64 `json:"id"`
	}
	if err := c.request(ctx, http.MethodPost, "/v2/orders", payload, &placed); err != nil {
		return "", err
	}
	return strconv.FormatInt(placed.ID, 10), nil
}

// CancelOrder cancels a resting order by id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.request(ctx, http.MethodDelete, "/v2/orders/"+url.PathEscape(orderID), nil, nil)
}
