package httpapi

import "time"

// ProductRequest is the payload for registering a product.
type ProductRequest struct {
	ID      uint32      `json:"id"`
	Name    string      `json:"name"`
	Amount  float64     `json:"amount"`
	Policy  string      `json:"policy"`
	Pricing PricingJSON `json:"pricing"`
}

// PricingJSON is the wire form of a pricing strategy.
type PricingJSON struct {
	Kind string  `json:"kind"`
	Unit float64 `json:"unit"`
	Buy  float64 `json:"buy,omitempty"`
	Free float64 `json:"free,omitempty"`
}

// DeltaRequest adjusts a product's stock or an order line.
type DeltaRequest struct {
	Delta float64 `json:"delta"`
}

// OrderItemRequest adjusts one line inside an order.
type OrderItemRequest struct {
	ProductID uint32  `json:"product_id"`
	Delta     float64 `json:"delta"`
}

// OrderResponse reports a newly created order.
type OrderResponse struct {
	OrderID uint32 `json:"order_id"`
}

// ProductJSON is the JSON projection of a registered product.
type ProductJSON struct {
	ID     uint32      `json:"id"`
	Name   string      `json:"name"`
	Policy string      `json:"policy"`
	Amount float64     `json:"amount"`
	Profit float64     `json:"profit"`
	Price  PricingJSON `json:"pricing"`
}

// ShipmentLineJSON is one committed line of a shipped order.
type ShipmentLineJSON struct {
	ProductID uint32  `json:"product_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
}

// ShipResponse reports a committed shipment.
type ShipResponse struct {
	OrderID uint32             `json:"order_id"`
	Lines   []ShipmentLineJSON `json:"lines"`
	Total   float64            `json:"total"`
}

// ShipmentJSON is one ledger record.
type ShipmentJSON struct {
	OrderID   uint32    `json:"order_id"`
	ProductID uint32    `json:"product_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	ShippedAt time.Time `json:"shipped_at"`
}
