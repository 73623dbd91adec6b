package warehouse

import (
	"fmt"
	"io"
	"sort"
)

// Report writers. Formats are fixed: amounts, prices, and incomes are
// printed with three decimals.

func writeProductDetails(w io.Writer, name string, id uint32, amount, price float64) error {
	_, err := fmt.Fprintf(w, "name: %s, id: %d, amount: %.3f, price: %.3f\n", name, id, amount, price)
	return err
}

// WriteInventory writes the inventory listing, sorted by product id. The
// price column is the price of a single unit.
func (w *Warehouse) WriteInventory(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "Inventory Status:\n"); err != nil {
		return err
	}
	sorted := make([]*Product, len(w.products))
	copy(sorted, w.products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].id < sorted[j].id })

	for _, p := range sorted {
		if err := writeProductDetails(out, p.name, p.id, p.amount, p.Price(1)); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrder writes a single-order summary: a heading, one line per line
// item in ascending product-id order with the computed price of the
// reserved quantity, and the order total.
func (w *Warehouse) WriteOrder(out io.Writer, orderID uint32) error {
	_, o := w.orderByID(orderID)
	if o == nil {
		return ErrOrderNotFound
	}
	if _, err := fmt.Fprintf(out, "Order %d Details:\n", o.id); err != nil {
		return err
	}

	total := 0.0
	for it := o.items.Iter(); ; {
		pid, qty, ok := it.Next()
		if !ok {
			break
		}
		p := w.productByID(pid)
		if p == nil {
			// ClearProduct purges line items, so this cannot happen.
			continue
		}
		price := p.Price(qty)
		total += price
		if err := writeProductDetails(out, p.name, p.id, qty, price); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "----------\nTotal Price: %.3f\n", total)
	return err
}

// WriteBestSelling writes the single-line best-seller report, or "none"
// when no product has positive accrued profit.
func (w *Warehouse) WriteBestSelling(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "Best Selling Product:\n"); err != nil {
		return err
	}
	best, ok := w.BestSelling()
	if !ok {
		_, err := fmt.Fprintf(out, "none\n")
		return err
	}
	_, err := fmt.Fprintf(out, "name: %s, id: %d, total income: %.3f\n", best.name, best.id, best.profit)
	return err
}
