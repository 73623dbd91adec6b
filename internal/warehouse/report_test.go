package warehouse

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func fillInventory(t *testing.T, w *Warehouse) {
	t.Helper()
	if err := w.AddProduct(6, "Onion", 1789.75, PolicyAny, PromoPricing{Unit: 5.8, Buy: 10, Free: 10}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if err := w.AddProduct(4, "Tomato", 2019.11, PolicyAny, UnitPricing{Unit: 8.9}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if err := w.AddProduct(10, "Television", 15, PolicyInteger, UnitPricing{Unit: 2000}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
}

func TestWriteInventory(t *testing.T) {
	w := New()
	fillInventory(t, w)

	var buf bytes.Buffer
	if err := w.WriteInventory(&buf); err != nil {
		t.Fatalf("WriteInventory: %v", err)
	}

	want := "Inventory Status:\n" +
		"name: Tomato, id: 4, amount: 2019.110, price: 8.900\n" +
		"name: Onion, id: 6, amount: 1789.750, price: 5.800\n" +
		"name: Television, id: 10, amount: 15.000, price: 2000.000\n"
	if buf.String() != want {
		t.Errorf("inventory report:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteInventoryEmpty(t *testing.T) {
	w := New()
	var buf bytes.Buffer
	if err := w.WriteInventory(&buf); err != nil {
		t.Fatalf("WriteInventory: %v", err)
	}
	if buf.String() != "Inventory Status:\n" {
		t.Errorf("empty inventory report = %q", buf.String())
	}
}

func TestWriteOrder(t *testing.T) {
	w := New()
	fillInventory(t, w)

	orderID := w.NewOrder()
	if err := w.ChangeOrderItem(orderID, 10, 2); err != nil {
		t.Fatalf("ChangeOrderItem: %v", err)
	}
	if err := w.ChangeOrderItem(orderID, 4, 5); err != nil {
		t.Fatalf("ChangeOrderItem: %v", err)
	}

	var buf bytes.Buffer
	if err := w.WriteOrder(&buf, orderID); err != nil {
		t.Fatalf("WriteOrder: %v", err)
	}

	// Lines in ascending product-id order; total = 5*8.9 + 2*2000.
	want := "Order 1 Details:\n" +
		"name: Tomato, id: 4, amount: 5.000, price: 44.500\n" +
		"name: Television, id: 10, amount: 2.000, price: 4000.000\n" +
		"----------\n" +
		"Total Price: 4044.500\n"
	if buf.String() != want {
		t.Errorf("order report:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteOrderEmptyAndMissing(t *testing.T) {
	w := New()
	orderID := w.NewOrder()

	var buf bytes.Buffer
	if err := w.WriteOrder(&buf, orderID); err != nil {
		t.Fatalf("WriteOrder: %v", err)
	}
	want := "Order 1 Details:\n----------\nTotal Price: 0.000\n"
	if buf.String() != want {
		t.Errorf("empty order report = %q, want %q", buf.String(), want)
	}

	if err := w.WriteOrder(&buf, 99); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("WriteOrder(99) = %v, want ErrOrderNotFound", err)
	}
}

func TestWriteBestSelling(t *testing.T) {
	w := New()

	var buf bytes.Buffer
	if err := w.WriteBestSelling(&buf); err != nil {
		t.Fatalf("WriteBestSelling: %v", err)
	}
	if buf.String() != "Best Selling Product:\nnone\n" {
		t.Errorf("empty best-seller report = %q", buf.String())
	}

	fillInventory(t, w)
	orderID := w.NewOrder()
	if err := w.ChangeOrderItem(orderID, 10, 3); err != nil {
		t.Fatalf("ChangeOrderItem: %v", err)
	}
	if _, err := w.ShipOrder(orderID); err != nil {
		t.Fatalf("ShipOrder: %v", err)
	}

	buf.Reset()
	if err := w.WriteBestSelling(&buf); err != nil {
		t.Fatalf("WriteBestSelling: %v", err)
	}
	want := "Best Selling Product:\nname: Television, id: 10, total income: 6000.000\n"
	if buf.String() != want {
		t.Errorf("best-seller report = %q, want %q", buf.String(), want)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("best-seller report should be exactly two lines: %q", buf.String())
	}
}
