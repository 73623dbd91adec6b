package warehouse

import "fmt"

// State is the serializable snapshot of a warehouse, used by the snapshot
// store to persist and restore the engine across restarts.
type State struct {
	Products    []ProductState
	Orders      []OrderState
	NextOrderID uint32
}

// ProductState is the snapshot form of one product. Products appear in
// registration order, which must survive a round trip because it decides
// best-seller ties.
type ProductState struct {
	ID      uint32
	Name    string
	Policy  AmountPolicy
	Amount  float64
	Profit  float64
	Pricing PricingSpec
}

// OrderState is the snapshot form of one order.
type OrderState struct {
	ID    uint32
	Items []LineItem
}

// State captures the full warehouse contents.
func (w *Warehouse) State() State {
	st := State{NextOrderID: w.nextOrderID}
	for _, p := range w.products {
		st.Products = append(st.Products, ProductState{
			ID:      p.id,
			Name:    p.name,
			Policy:  p.policy,
			Amount:  p.amount,
			Profit:  p.profit,
			Pricing: p.pricing.Spec(),
		})
	}
	for _, o := range w.orders {
		st.Orders = append(st.Orders, OrderState{ID: o.id, Items: o.Lines()})
	}
	return st
}

// FromState rebuilds a warehouse from a snapshot.
func FromState(st State) (*Warehouse, error) {
	w := New()
	if st.NextOrderID > 0 {
		w.nextOrderID = st.NextOrderID
	}
	for _, ps := range st.Products {
		pricing, err := ps.Pricing.Pricing()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", ps.ID, err)
		}
		p, err := newProduct(ps.ID, ps.Name, ps.Amount, ps.Policy, pricing)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", ps.ID, err)
		}
		p.profit = ps.Profit
		w.products = append(w.products, p)
	}
	for _, ord := range st.Orders {
		o := newOrder(ord.ID)
		for _, li := range ord.Items {
			if err := o.items.Register(li.ProductID); err != nil {
				return nil, fmt.Errorf("order %d: %w", ord.ID, err)
			}
			if err := o.items.ChangeAmount(li.ProductID, li.Amount); err != nil {
				return nil, fmt.Errorf("order %d: %w", ord.ID, err)
			}
		}
		w.orders = append(w.orders, o)
		if ord.ID >= w.nextOrderID {
			w.nextOrderID = ord.ID + 1
		}
	}
	return w, nil
}
