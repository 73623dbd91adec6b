package stockyard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"stockyard/internal/httpapi"
	"stockyard/internal/warehouse"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httpapi.NewServer(warehouse.New(), nil, nil, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	err := c.AddProduct(ctx, Product{
		ID: 4, Name: "Tomato", Amount: 100, Policy: "any",
		Pricing: Pricing{Kind: "unit", Unit: 8.9},
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if err := c.ChangeProductAmount(ctx, 4, -20); err != nil {
		t.Fatalf("ChangeProductAmount: %v", err)
	}

	products, err := c.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 1 || products[0].Amount != 80 {
		t.Errorf("Products = %+v, want Tomato at 80", products)
	}

	orderID, err := c.NewOrder(ctx)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if orderID != 1 {
		t.Errorf("NewOrder = %d, want 1", orderID)
	}
	if err := c.ChangeOrderItem(ctx, orderID, 4, 10); err != nil {
		t.Fatalf("ChangeOrderItem: %v", err)
	}

	report, err := c.OrderReport(ctx, orderID)
	if err != nil {
		t.Fatalf("OrderReport: %v", err)
	}
	if !strings.HasPrefix(report, "Order 1 Details:\n") {
		t.Errorf("OrderReport = %q", report)
	}

	shipment, err := c.ShipOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("ShipOrder: %v", err)
	}
	if shipment.Total != 89 {
		t.Errorf("shipment total = %v, want 89", shipment.Total)
	}

	best, err := c.BestSelling(ctx)
	if err != nil {
		t.Fatalf("BestSelling: %v", err)
	}
	if !strings.Contains(best, "Tomato") {
		t.Errorf("BestSelling = %q, want Tomato", best)
	}

	inventory, err := c.Inventory(ctx)
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if !strings.Contains(inventory, "amount: 70.000") {
		t.Errorf("Inventory = %q, want stock 70 after shipment", inventory)
	}
}

func TestClientErrors(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	err := c.ChangeProductAmount(ctx, 99, 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ChangeProductAmount on missing product = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}

	if _, err := c.ShipOrder(ctx, 42); !errors.As(err, &apiErr) {
		t.Errorf("ShipOrder on missing order = %v, want *APIError", err)
	}

	if err := c.CancelOrder(ctx, 42); !errors.As(err, &apiErr) {
		t.Errorf("CancelOrder on missing order = %v, want *APIError", err)
	}
}
