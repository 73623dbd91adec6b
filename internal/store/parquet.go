package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Compile-time interface check.
var _ ShipmentLedger = (*ParquetLedger)(nil)

// ParquetLedger implements ShipmentLedger using Parquet files on disk, one
// file per calendar month. Useful as a columnar archive of fulfilled orders
// for offline analysis.
type ParquetLedger struct {
	DataDir string
}

// NewParquetLedger creates a ParquetLedger rooted at the given data directory.
func NewParquetLedger(dataDir string) *ParquetLedger {
	return &ParquetLedger{DataDir: dataDir}
}

// shipmentRow is the Parquet schema for one shipped line.
type shipmentRow struct {
	OrderID   int64   `parquet:"order_id"`
	ProductID int64   `parquet:"product_id"`
	Name      string  `parquet:"name"`
	Amount    float64 `parquet:"amount"`
	Price     float64 `parquet:"price"`
	ShippedAt int64   `parquet:"shipped_at,timestamp(millisecond)"` // Unix ms
}

// AppendShipments writes shipment records to Parquet files grouped by month.
// Each month produces a separate file at:
//
//	<DataDir>/shipments/<YYYY-MM>.parquet
func (l *ParquetLedger) AppendShipments(_ context.Context, records []ShipmentRecord) error {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[string][]shipmentRow)
	for _, r := range records {
		month := r.ShippedAt.UTC().Format("2006-01")
		groups[month] = append(groups[month], shipmentRow{
			OrderID:   int64(r.OrderID),
			ProductID: int64(r.ProductID),
			Name:      r.Name,
			Amount:    r.Amount,
			Price:     r.Price,
			ShippedAt: r.ShippedAt.UnixMilli(),
		})
	}

	for month, rows := range groups {
		path := l.monthPath(month)

		// Read existing rows to merge; a missing file is an empty month.
		existing, _ := readParquetFile[shipmentRow](path)
		merged := mergeShipmentRows(existing, rows)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing shipments for %s: %w", month, err)
		}
	}
	return nil
}

// ListShipments reads shipment records with ShippedAt within [start, end].
func (l *ParquetLedger) ListShipments(_ context.Context, start, end time.Time) ([]ShipmentRecord, error) {
	var records []ShipmentRecord

	first := time.Date(start.UTC().Year(), start.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := first; !m.After(end); m = m.AddDate(0, 1, 0) {
		path := l.monthPath(m.Format("2006-01"))
		rows, err := readParquetFile[shipmentRow](path)
		if err != nil {
			// No file for this month.
			continue
		}
		for _, r := range rows {
			ts := time.UnixMilli(r.ShippedAt).UTC()
			if (ts.Equal(start) || ts.After(start)) && (ts.Equal(end) || ts.Before(end)) {
				records = append(records, ShipmentRecord{
					OrderID:   uint32(r.OrderID),
					ProductID: uint32(r.ProductID),
					Name:      r.Name,
					Amount:    r.Amount,
					Price:     r.Price,
					ShippedAt: ts,
				})
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ShippedAt.Before(records[j].ShippedAt)
	})
	return records, nil
}

// monthPath returns the filesystem path for a month's shipment file.
// Layout: <dataDir>/shipments/<YYYY-MM>.parquet
func (l *ParquetLedger) monthPath(month string) string {
	return filepath.Join(l.DataDir, "shipments", month+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, rows)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeShipmentRows deduplicates rows by (order id, product id), preferring
// new rows over existing ones. An order ships exactly once, so the pair is a
// unique key. Results are sorted by shipment time.
func mergeShipmentRows(existing, incoming []shipmentRow) []shipmentRow {
	type key struct {
		orderID   int64
		productID int64
	}
	seen := make(map[key]shipmentRow, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.OrderID, r.ProductID}] = r
	}
	for _, r := range incoming {
		seen[key{r.OrderID, r.ProductID}] = r
	}

	merged := make([]shipmentRow, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].ShippedAt != merged[j].ShippedAt {
			return merged[i].ShippedAt < merged[j].ShippedAt
		}
		if merged[i].OrderID != merged[j].OrderID {
			return merged[i].OrderID < merged[j].OrderID
		}
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged
}
