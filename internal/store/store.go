// Package store defines storage interfaces for persisting warehouse
// snapshots and the shipment ledger, with SQLite and Parquet backends.
package store

import (
	"context"
	"time"

	"stockyard/internal/warehouse"
)

// ShipmentRecord is one committed line of a shipped order, as recorded in
// the ledger.
type ShipmentRecord struct {
	OrderID   uint32
	ProductID uint32
	Name      string
	Amount    float64
	Price     float64
	ShippedAt time.Time
}

// SnapshotStore persists and restores the full warehouse state.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored state with the given warehouse's state.
	SaveSnapshot(ctx context.Context, w *warehouse.Warehouse) error

	// LoadSnapshot rebuilds a warehouse from the stored state. A store with
	// no snapshot yet returns an empty warehouse.
	LoadSnapshot(ctx context.Context) (*warehouse.Warehouse, error)
}

// ShipmentLedger records committed shipments for reporting and analysis.
type ShipmentLedger interface {
	// AppendShipments appends the lines of one committed shipment.
	AppendShipments(ctx context.Context, records []ShipmentRecord) error

	// ListShipments returns ledger records with ShippedAt within [start, end],
	// oldest first.
	ListShipments(ctx context.Context, start, end time.Time) ([]ShipmentRecord, error)
}

// Records converts the committed lines of one shipment into ledger records.
func Records(orderID uint32, lines []warehouse.ShipmentLine, at time.Time) []ShipmentRecord {
	records := make([]ShipmentRecord, 0, len(lines))
	for _, l := range lines {
		records = append(records, ShipmentRecord{
			OrderID:   orderID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Amount:    l.Amount,
			Price:     l.Price,
			ShippedAt: at,
		})
	}
	return records
}
