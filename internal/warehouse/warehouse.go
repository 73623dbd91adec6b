// Package warehouse implements the in-memory inventory and order-fulfillment
// engine: product registration and stock keeping, draft orders, and the
// all-or-nothing shipment transaction that converts reservations into stock
// deductions and accrued profit.
package warehouse

import "errors"

// Errors returned by Warehouse operations.
var (
	ErrNilPricing        = errors.New("warehouse: nil pricing strategy")
	ErrInvalidName       = errors.New("warehouse: invalid product name")
	ErrInvalidAmount     = errors.New("warehouse: invalid amount")
	ErrProductExists     = errors.New("warehouse: product already exists")
	ErrProductNotFound   = errors.New("warehouse: product does not exist")
	ErrOrderNotFound     = errors.New("warehouse: order does not exist")
	ErrInsufficientStock = errors.New("warehouse: insufficient stock")
)

// LineItem is one (product id, quantity) pair inside an order.
type LineItem struct {
	ProductID uint32
	Amount    float64
}

// ShipmentLine describes one committed line of a shipped order.
type ShipmentLine struct {
	ProductID uint32
	Name      string
	Amount    float64
	Price     float64
}

// Warehouse owns the product and order collections. Products keep their
// registration order, which decides best-seller ties; orders keep creation
// order. Expected data sizes are small, so both collections are plain slices
// scanned linearly.
//
// A Warehouse is not safe for concurrent use; callers must serialize access.
type Warehouse struct {
	products    []*Product
	orders      []*Order
	nextOrderID uint32
}

// New creates an empty warehouse. Order ids start at 1.
func New() *Warehouse {
	return &Warehouse{nextOrderID: 1}
}

func (w *Warehouse) productByID(id uint32) *Product {
	for _, p := range w.products {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (w *Warehouse) orderByID(id uint32) (int, *Order) {
	for i, o := range w.orders {
		if o.id == id {
			return i, o
		}
	}
	return -1, nil
}

// AddProduct registers a new product. The id must be unused, the name
// non-empty and starting with an alphanumeric byte, and the initial amount
// non-negative and valid under the policy.
func (w *Warehouse) AddProduct(id uint32, name string, amount float64, policy AmountPolicy, pricing Pricing) error {
	if w.productByID(id) != nil {
		return ErrProductExists
	}
	p, err := newProduct(id, name, amount, policy, pricing)
	if err != nil {
		return err
	}
	w.products = append(w.products, p)
	return nil
}

// ChangeProductAmount adjusts a product's stock by delta. A zero delta
// changes nothing but still validates that the product exists.
func (w *Warehouse) ChangeProductAmount(id uint32, delta float64) error {
	p := w.productByID(id)
	if p == nil {
		return ErrProductNotFound
	}
	return p.changeAmount(delta)
}

// ClearProduct removes a product from the registry and purges its id from
// every outstanding order's line items, so no order can later reference a
// nonexistent product.
func (w *Warehouse) ClearProduct(id uint32) error {
	idx := -1
	for i, p := range w.products {
		if p.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrProductNotFound
	}
	w.products = append(w.products[:idx], w.products[idx+1:]...)
	for _, o := range w.orders {
		// Orders without a line for this product are left untouched.
		_ = o.items.Delete(id)
	}
	return nil
}

// Products returns the registered products in registration order.
func (w *Warehouse) Products() []*Product {
	return w.products
}

// NewOrder creates an empty order and returns its id. Ids are sequential,
// start at 1, and are never reused.
func (w *Warehouse) NewOrder() uint32 {
	id := w.nextOrderID
	w.nextOrderID++
	w.orders = append(w.orders, newOrder(id))
	return id
}

// Order returns the order with the given id, or ErrOrderNotFound.
func (w *Warehouse) Order(id uint32) (*Order, error) {
	_, o := w.orderByID(id)
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ChangeOrderItem applies delta to the line for productID inside an order.
// The product must exist in the warehouse, and the resulting reserved
// quantity must satisfy the product's discretization policy. A result at or
// below zero removes the line entirely. A zero delta validates the
// arguments and changes nothing.
func (w *Warehouse) ChangeOrderItem(orderID, productID uint32, delta float64) error {
	_, o := w.orderByID(orderID)
	if o == nil {
		return ErrOrderNotFound
	}
	p := w.productByID(productID)
	if p == nil {
		return ErrProductNotFound
	}

	current, err := o.items.Amount(productID)
	if err != nil {
		current = 0
	}
	result := current + delta
	if result > 0 && !p.policy.Allows(result) {
		return ErrInvalidAmount
	}
	return o.changeItem(productID, delta)
}

// CancelOrder deletes an order without touching any stock.
func (w *Warehouse) CancelOrder(orderID uint32) error {
	i, o := w.orderByID(orderID)
	if o == nil {
		return ErrOrderNotFound
	}
	w.orders = append(w.orders[:i], w.orders[i+1:]...)
	return nil
}

// ShipOrder executes the shipment transaction for an order in two phases.
// The precheck walks every line item and verifies the reserved quantity is
// covered by the product's current stock; any shortfall aborts with
// ErrInsufficientStock before anything is mutated. Only when every line
// passes does the commit deduct stock, accrue price(qty) into each
// product's profit, and delete the order. The committed lines are returned
// for the shipment ledger.
func (w *Warehouse) ShipOrder(orderID uint32) ([]ShipmentLine, error) {
	idx, o := w.orderByID(orderID)
	if o == nil {
		return nil, ErrOrderNotFound
	}

	// Phase 1: validate every line against current stock. No mutation.
	for it := o.items.Iter(); ; {
		pid, qty, ok := it.Next()
		if !ok {
			break
		}
		p := w.productByID(pid)
		if p == nil {
			return nil, ErrProductNotFound
		}
		if qty > p.amount+Epsilon {
			return nil, ErrInsufficientStock
		}
	}

	// Phase 2: commit deductions and profit, then discard the order.
	lines := make([]ShipmentLine, 0, o.items.Size())
	for it := o.items.Iter(); ; {
		pid, qty, ok := it.Next()
		if !ok {
			break
		}
		p := w.productByID(pid)
		p.amount -= qty
		if p.amount < 0 {
			p.amount = 0
		}
		price := p.Price(qty)
		p.profit += price
		lines = append(lines, ShipmentLine{
			ProductID: pid,
			Name:      p.name,
			Amount:    qty,
			Price:     price,
		})
	}
	w.orders = append(w.orders[:idx], w.orders[idx+1:]...)
	return lines, nil
}

// BestSelling returns the product with the highest accrued profit. Ties go
// to the earliest-registered product. ok is false when the warehouse is
// empty or no product has positive profit.
func (w *Warehouse) BestSelling() (*Product, bool) {
	var best *Product
	for _, p := range w.products {
		if p.profit <= 0 {
			continue
		}
		if best == nil || p.profit > best.profit {
			best = p
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
