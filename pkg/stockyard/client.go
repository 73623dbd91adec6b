// Package stockyard provides a Go SDK for the stockyard-server HTTP API.
package stockyard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a stockyard-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new stockyard API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Pricing describes a product's pricing strategy: "unit" for flat per-unit
// pricing, or "promo" for a buy-N-get-M-free schedule.
type Pricing struct {
	Kind string  `json:"kind"`
	Unit float64 `json:"unit"`
	Buy  float64 `json:"buy,omitempty"`
	Free float64 `json:"free,omitempty"`
}

// Product describes a product to register, and is also the listing
// projection returned by Products.
type Product struct {
	ID      uint32  `json:"id"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Policy  string  `json:"policy"`
	Pricing Pricing `json:"pricing"`
	Profit  float64 `json:"profit,omitempty"`
}

// ShipmentLine is one committed line of a shipped order.
type ShipmentLine struct {
	ProductID uint32  `json:"product_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
}

// Shipment is the result of shipping an order.
type Shipment struct {
	OrderID uint32         `json:"order_id"`
	Lines   []ShipmentLine `json:"lines"`
	Total   float64        `json:"total"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockyard: server returned %d: %s", e.StatusCode, e.Message)
}

// ---------------------------------------------------------------------------
// Request plumbing
// ---------------------------------------------------------------------------

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) text(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}
	return string(data), nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// AddProduct registers a new product.
func (c *Client) AddProduct(ctx context.Context, p Product) error {
	return c.do(ctx, http.MethodPost, "/api/products", p, nil)
}

// Products lists the registered products in registration order.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeProductAmount adjusts a product's stock by delta.
func (c *Client) ChangeProductAmount(ctx context.Context, id uint32, delta float64) error {
	body := map[string]float64{"delta": delta}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/amount", id), body, nil)
}

// ClearProduct removes a product from the warehouse and from all orders.
func (c *Client) ClearProduct(ctx context.Context, id uint32) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// NewOrder creates an empty order and returns its id.
func (c *Client) NewOrder(ctx context.Context) (uint32, error) {
	var out struct {
		OrderID uint32 `json:"order_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, &out); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}

// ChangeOrderItem adjusts the reserved quantity of a product inside an order.
func (c *Client) ChangeOrderItem(ctx context.Context, orderID, productID uint32, delta float64) error {
	body := map[string]any{"product_id": productID, "delta": delta}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/items", orderID), body, nil)
}

// ShipOrder ships an order and returns the committed lines.
func (c *Client) ShipOrder(ctx context.Context, orderID uint32) (*Shipment, error) {
	var out Shipment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/ship", orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder deletes an order without touching any stock.
func (c *Client) CancelOrder(ctx context.Context, orderID uint32) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", orderID), nil, nil)
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// Inventory returns the plain-text inventory listing.
func (c *Client) Inventory(ctx context.Context) (string, error) {
	return c.text(ctx, "/api/inventory")
}

// OrderReport returns the plain-text summary of one order.
func (c *Client) OrderReport(ctx context.Context, orderID uint32) (string, error) {
	return c.text(ctx, fmt.Sprintf("/api/orders/%d", orderID))
}

// BestSelling returns the plain-text best-seller report.
func (c *Client) BestSelling(ctx context.Context) (string, error) {
	return c.text(ctx, "/api/best-selling")
}

// ShipmentRecord is one ledger entry returned by Shipments.
type ShipmentRecord struct {
	OrderID   uint32    `json:"order_id"`
	ProductID uint32    `json:"product_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	ShippedAt time.Time `json:"shipped_at"`
}

// Shipments lists ledger records shipped within [start, end]. Zero times are
// omitted and fall back to the server defaults.
func (c *Client) Shipments(ctx context.Context, start, end time.Time) ([]ShipmentRecord, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		q.Set("end", end.Format(time.RFC3339))
	}
	path := "/api/shipments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []ShipmentRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
