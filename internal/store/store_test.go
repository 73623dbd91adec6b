package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockyard/internal/warehouse"
)

func newTestWarehouse(t *testing.T) *warehouse.Warehouse {
	t.Helper()
	w := warehouse.New()
	if err := w.AddProduct(4, "Tomato", 2019.11, warehouse.PolicyAny, warehouse.UnitPricing{Unit: 8.9}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if err := w.AddProduct(6, "Onion", 1789.75, warehouse.PolicyAny, warehouse.PromoPricing{Unit: 5.8, Buy: 10, Free: 10}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	orderID := w.NewOrder()
	if err := w.ChangeOrderItem(orderID, 4, 12.5); err != nil {
		t.Fatalf("ChangeOrderItem: %v", err)
	}
	return w
}

func TestSQLiteSnapshotRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stockyard.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	w := newTestWarehouse(t)
	if err := s.SaveSnapshot(ctx, w); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	restored, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	products := restored.Products()
	if len(products) != 2 {
		t.Fatalf("restored %d products, want 2", len(products))
	}
	if products[0].ID() != 4 || products[0].Name() != "Tomato" {
		t.Errorf("first product = %d %q, want 4 Tomato", products[0].ID(), products[0].Name())
	}
	if got := products[0].Amount(); got != 2019.11 {
		t.Errorf("Tomato amount = %v, want 2019.11", got)
	}
	// The pricing strategy survives: promo price of 25 units pays for 15.
	if got := products[1].Price(25); got != 15*5.8 {
		t.Errorf("Onion Price(25) = %v, want %v", got, 15*5.8)
	}

	o, err := restored.Order(1)
	if err != nil {
		t.Fatalf("restored Order(1): %v", err)
	}
	lines := o.Lines()
	if len(lines) != 1 || lines[0].ProductID != 4 || lines[0].Amount != 12.5 {
		t.Errorf("restored lines = %+v, want product 4 at 12.5", lines)
	}
	if got := restored.NewOrder(); got != 2 {
		t.Errorf("restored NewOrder() = %d, want 2", got)
	}
}

func TestSQLiteSnapshotOverwrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stockyard.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.SaveSnapshot(ctx, newTestWarehouse(t)); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}

	// A second snapshot replaces the first, not accumulates.
	w := warehouse.New()
	if err := w.AddProduct(1, "Solo", 3, warehouse.PolicyInteger, warehouse.UnitPricing{Unit: 1}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if err := s.SaveSnapshot(ctx, w); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	restored, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(restored.Products()) != 1 || restored.Products()[0].ID() != 1 {
		t.Errorf("restored products = %d entries, want just product 1", len(restored.Products()))
	}
	if _, err := restored.Order(1); err == nil {
		t.Error("stale order survived snapshot overwrite")
	}
}

func TestSQLiteEmptySnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stockyard.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	restored, err := s.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot on empty db: %v", err)
	}
	if len(restored.Products()) != 0 {
		t.Errorf("empty db restored %d products", len(restored.Products()))
	}
	if got := restored.NewOrder(); got != 1 {
		t.Errorf("fresh warehouse NewOrder() = %d, want 1", got)
	}
}

func TestSQLiteShipmentLedger(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stockyard.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	at := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	lines := []warehouse.ShipmentLine{
		{ProductID: 4, Name: "Tomato", Amount: 30, Price: 267},
		{ProductID: 6, Name: "Onion", Amount: 25, Price: 87},
	}
	if err := s.AppendShipments(ctx, Records(7, lines, at)); err != nil {
		t.Fatalf("AppendShipments: %v", err)
	}

	got, err := s.ListShipments(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d records, want 2", len(got))
	}
	if got[0].OrderID != 7 || got[0].ProductID != 4 || got[0].Amount != 30 || got[0].Price != 267 {
		t.Errorf("record 0 = %+v", got[0])
	}
	if !got[0].ShippedAt.Equal(at) {
		t.Errorf("ShippedAt = %v, want %v", got[0].ShippedAt, at)
	}

	// Range outside the shipment window is empty.
	got, err = s.ListShipments(ctx, at.Add(time.Hour), at.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("out-of-range query returned %d records", len(got))
	}
}

func TestParquetLedgerRoundTrip(t *testing.T) {
	l := NewParquetLedger(t.TempDir())
	ctx := context.Background()

	march := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	if err := l.AppendShipments(ctx, Records(1, []warehouse.ShipmentLine{
		{ProductID: 4, Name: "Tomato", Amount: 30, Price: 267},
	}, march)); err != nil {
		t.Fatalf("AppendShipments (march): %v", err)
	}
	if err := l.AppendShipments(ctx, Records(2, []warehouse.ShipmentLine{
		{ProductID: 6, Name: "Onion", Amount: 10, Price: 58},
	}, april)); err != nil {
		t.Fatalf("AppendShipments (april): %v", err)
	}

	// Both months in one range query, oldest first.
	got, err := l.ListShipments(ctx, march.Add(-time.Hour), april.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d records, want 2", len(got))
	}
	if got[0].OrderID != 1 || got[1].OrderID != 2 {
		t.Errorf("order of records = %d, %d; want 1, 2", got[0].OrderID, got[1].OrderID)
	}

	// A single-month window filters the other month out.
	got, err = l.ListShipments(ctx, march.Add(-time.Hour), march.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != 4 {
		t.Errorf("march-only query = %+v, want just product 4", got)
	}
}

func TestParquetLedgerMerge(t *testing.T) {
	l := NewParquetLedger(t.TempDir())
	ctx := context.Background()

	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	// Two appends into the same month file must both survive.
	if err := l.AppendShipments(ctx, Records(1, []warehouse.ShipmentLine{
		{ProductID: 4, Name: "Tomato", Amount: 5, Price: 44.5},
	}, at)); err != nil {
		t.Fatalf("AppendShipments: %v", err)
	}
	if err := l.AppendShipments(ctx, Records(2, []warehouse.ShipmentLine{
		{ProductID: 4, Name: "Tomato", Amount: 7, Price: 62.3},
	}, at.Add(time.Minute))); err != nil {
		t.Fatalf("AppendShipments: %v", err)
	}

	got, err := l.ListShipments(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d records after merge, want 2", len(got))
	}

	// Re-appending the same shipment deduplicates instead of doubling.
	if err := l.AppendShipments(ctx, Records(2, []warehouse.ShipmentLine{
		{ProductID: 4, Name: "Tomato", Amount: 7, Price: 62.3},
	}, at.Add(time.Minute))); err != nil {
		t.Fatalf("AppendShipments: %v", err)
	}
	got, err = l.ListShipments(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListShipments: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("listed %d records after duplicate append, want 2", len(got))
	}
}
