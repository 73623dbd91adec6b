package warehouse

// Product is a registered inventory item: identity, discretization policy,
// current stock, pricing strategy, and the profit accrued from shipments.
// Products are created and mutated only through a Warehouse.
type Product struct {
	id      uint32
	name    string
	policy  AmountPolicy
	amount  float64
	pricing Pricing
	profit  float64
}

// newProduct validates the product parameters and builds the entry. The name
// must be non-empty and start with an alphanumeric byte; the initial amount
// must be non-negative and satisfy the policy.
func newProduct(id uint32, name string, amount float64, policy AmountPolicy, pricing Pricing) (*Product, error) {
	if pricing == nil {
		return nil, ErrNilPricing
	}
	if !nameValid(name) {
		return nil, ErrInvalidName
	}
	if amount < 0 || !policy.Allows(amount) {
		return nil, ErrInvalidAmount
	}
	return &Product{
		id:      id,
		name:    name,
		policy:  policy,
		amount:  amount,
		pricing: pricing,
	}, nil
}

func nameValid(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// changeAmount adjusts the stock by delta. The delta itself must satisfy the
// product's policy, and the resulting stock may not drop below zero beyond
// Epsilon. A within-Epsilon negative result is clamped to exactly zero so
// the stored stock never goes negative.
func (p *Product) changeAmount(delta float64) error {
	if p.amount+delta < -Epsilon {
		return ErrInsufficientStock
	}
	if !p.policy.Allows(delta) {
		return ErrInvalidAmount
	}
	p.amount += delta
	if p.amount < 0 {
		p.amount = 0
	}
	return nil
}

// ID returns the product id.
func (p *Product) ID() uint32 { return p.id }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Policy returns the product's discretization policy.
func (p *Product) Policy() AmountPolicy { return p.policy }

// Amount returns the current stock.
func (p *Product) Amount() float64 { return p.amount }

// Profit returns the profit accrued from shipped orders.
func (p *Product) Profit() float64 { return p.profit }

// Price returns the price of purchasing qty units, delegating to the
// product's pricing strategy.
func (p *Product) Price(qty float64) float64 {
	return p.pricing.Price(qty)
}

// PricingSpec returns the wire form of the product's pricing strategy.
func (p *Product) PricingSpec() PricingSpec {
	return p.pricing.Spec()
}
