package warehouse

import "stockyard/internal/amountset"

// Order holds a customer's draft reservations: an amount set keyed by
// product id, so line items always iterate in ascending product-id order.
type Order struct {
	id    uint32
	items *amountset.AmountSet[uint32]
}

func compareProductIDs(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func newOrder(id uint32) *Order {
	return &Order{
		id:    id,
		items: amountset.New(compareProductIDs),
	}
}

// ID returns the order id.
func (o *Order) ID() uint32 { return o.id }

// Lines returns the order's line items in ascending product-id order.
func (o *Order) Lines() []LineItem {
	lines := make([]LineItem, 0, o.items.Size())
	for it := o.items.Iter(); ; {
		pid, qty, ok := it.Next()
		if !ok {
			break
		}
		lines = append(lines, LineItem{ProductID: pid, Amount: qty})
	}
	return lines
}

// changeItem applies delta to the line for productID. A missing line is
// auto-registered when delta is positive; a result at or below zero removes
// the line entirely instead of storing a zero.
func (o *Order) changeItem(productID uint32, delta float64) error {
	current, err := o.items.Amount(productID)
	switch err {
	case nil:
	case amountset.ErrItemDoesNotExist:
		if delta <= 0 {
			// Nothing to decrease; treated as a validated no-op.
			return nil
		}
		current = 0
	default:
		return err
	}

	result := current + delta
	if result <= 0 {
		if current == 0 {
			return nil
		}
		return o.items.Delete(productID)
	}

	if current == 0 {
		if err := o.items.Register(productID); err != nil {
			return err
		}
	}
	return o.items.ChangeAmount(productID, result-current)
}
