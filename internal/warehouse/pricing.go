package warehouse

import "fmt"

// Pricing computes the price of purchasing a given quantity of a product.
// Implementations must be pure functions of the quantity.
type Pricing interface {
	Price(qty float64) float64
	// Spec returns a flat, serializable description of the strategy for the
	// snapshot store and the HTTP API.
	Spec() PricingSpec
}

// Pricing spec kinds.
const (
	PricingUnit  = "unit"
	PricingPromo = "promo"
)

// PricingSpec is the wire form of a pricing strategy.
type PricingSpec struct {
	Kind string  `json:"kind"`
	Unit float64 `json:"unit"`
	Buy  float64 `json:"buy,omitempty"`
	Free float64 `json:"free,omitempty"`
}

// Pricing builds the strategy described by ps.
func (ps PricingSpec) Pricing() (Pricing, error) {
	switch ps.Kind {
	case PricingUnit:
		return UnitPricing{Unit: ps.Unit}, nil
	case PricingPromo:
		if ps.Buy <= 0 || ps.Free <= 0 {
			return nil, fmt.Errorf("promo pricing requires positive buy/free, got buy=%v free=%v", ps.Buy, ps.Free)
		}
		return PromoPricing{Unit: ps.Unit, Buy: ps.Buy, Free: ps.Free}, nil
	default:
		return nil, fmt.Errorf("unknown pricing kind %q", ps.Kind)
	}
}

// UnitPricing charges a flat price per unit.
type UnitPricing struct {
	Unit float64
}

// Price returns Unit * qty.
func (p UnitPricing) Price(qty float64) float64 {
	return p.Unit * qty
}

// Spec implements Pricing.
func (p UnitPricing) Spec() PricingSpec {
	return PricingSpec{Kind: PricingUnit, Unit: p.Unit}
}

// PromoPricing charges a flat price per unit with a "buy N get M free"
// schedule: buying at least Buy+Free units pays for qty-Free, buying at
// least Buy (but less than Buy+Free) pays for exactly Buy, and smaller
// quantities pay full price.
type PromoPricing struct {
	Unit float64
	Buy  float64
	Free float64
}

// Price returns the promotional price of qty units.
func (p PromoPricing) Price(qty float64) float64 {
	charged := qty
	switch {
	case qty >= p.Buy+p.Free:
		charged = qty - p.Free
	case qty >= p.Buy:
		charged = p.Buy
	}
	return p.Unit * charged
}

// Spec implements Pricing.
func (p PromoPricing) Spec() PricingSpec {
	return PricingSpec{Kind: PricingPromo, Unit: p.Unit, Buy: p.Buy, Free: p.Free}
}
