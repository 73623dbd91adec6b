package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockyard/internal/warehouse"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ SnapshotStore = (*SQLiteStore)(nil)
var _ ShipmentLedger = (*SQLiteStore)(nil)

// SQLiteStore implements SnapshotStore and ShipmentLedger backed by a
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           INTEGER NOT NULL UNIQUE,
	name         TEXT    NOT NULL,
	policy       TEXT    NOT NULL,
	amount       REAL    NOT NULL,
	profit       REAL    NOT NULL,
	pricing_kind TEXT    NOT NULL,
	pricing_unit REAL    NOT NULL,
	pricing_buy  REAL    NOT NULL DEFAULT 0,
	pricing_free REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id   INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	amount     REAL    NOT NULL,
	PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shipments (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id   INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	amount     REAL    NOT NULL,
	price      REAL    NOT NULL,
	shipped_at INTEGER NOT NULL
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// SnapshotStore implementation
// ---------------------------------------------------------------------------

// SaveSnapshot replaces the stored products, orders, and order-id counter
// with the given warehouse's state, in a single transaction. The shipments
// ledger is append-only and is not touched.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, w *warehouse.Warehouse) error {
	st := w.State()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"products", "orders", "order_items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, p := range st.Products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, policy, amount, profit, pricing_kind, pricing_unit, pricing_buy, pricing_free)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Policy.String(), p.Amount, p.Profit,
			p.Pricing.Kind, p.Pricing.Unit, p.Pricing.Buy, p.Pricing.Free)
		if err != nil {
			return fmt.Errorf("inserting product %d: %w", p.ID, err)
		}
	}

	for _, o := range st.Orders {
		if _, err := tx.ExecContext(ctx, "INSERT INTO orders (id) VALUES (?)", o.ID); err != nil {
			return fmt.Errorf("inserting order %d: %w", o.ID, err)
		}
		for _, li := range o.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, amount) VALUES (?, ?, ?)`,
				o.ID, li.ProductID, li.Amount)
			if err != nil {
				return fmt.Errorf("inserting order %d line %d: %w", o.ID, li.ProductID, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('next_order_id', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", st.NextOrderID))
	if err != nil {
		return fmt.Errorf("storing order counter: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot rebuilds a warehouse from the stored state. An empty database
// yields an empty warehouse.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*warehouse.Warehouse, error) {
	var st warehouse.State

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, policy, amount, profit, pricing_kind, pricing_unit, pricing_buy, pricing_free
		FROM products ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ps warehouse.ProductState
		var policy string
		err := rows.Scan(&ps.ID, &ps.Name, &policy, &ps.Amount, &ps.Profit,
			&ps.Pricing.Kind, &ps.Pricing.Unit, &ps.Pricing.Buy, &ps.Pricing.Free)
		if err != nil {
			return nil, err
		}
		ps.Policy, err = warehouse.ParsePolicy(policy)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", ps.ID, err)
		}
		st.Products = append(st.Products, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orderRows, err := s.db.QueryContext(ctx, "SELECT id FROM orders ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer orderRows.Close()
	for orderRows.Next() {
		var os warehouse.OrderState
		if err := orderRows.Scan(&os.ID); err != nil {
			return nil, err
		}
		st.Orders = append(st.Orders, os)
	}
	if err := orderRows.Err(); err != nil {
		return nil, err
	}

	for i := range st.Orders {
		itemRows, err := s.db.QueryContext(ctx, `
			SELECT product_id, amount FROM order_items
			WHERE order_id = ? ORDER BY product_id`, st.Orders[i].ID)
		if err != nil {
			return nil, err
		}
		for itemRows.Next() {
			var li warehouse.LineItem
			if err := itemRows.Scan(&li.ProductID, &li.Amount); err != nil {
				itemRows.Close()
				return nil, err
			}
			st.Orders[i].Items = append(st.Orders[i].Items, li)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, err
		}
		itemRows.Close()
	}

	var counter sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = 'next_order_id'").Scan(&counter)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if counter.Valid {
		if _, err := fmt.Sscanf(counter.String, "%d", &st.NextOrderID); err != nil {
			return nil, fmt.Errorf("parsing order counter %q: %w", counter.String, err)
		}
	}

	return warehouse.FromState(st)
}

// ---------------------------------------------------------------------------
// ShipmentLedger implementation
// ---------------------------------------------------------------------------

// AppendShipments records the lines of one committed shipment.
func (s *SQLiteStore) AppendShipments(ctx context.Context, records []ShipmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shipments (order_id, product_id, name, amount, price, shipped_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.OrderID, r.ProductID, r.Name, r.Amount, r.Price, r.ShippedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("appending shipment for order %d: %w", r.OrderID, err)
		}
	}
	return tx.Commit()
}

// ListShipments returns ledger records shipped within [start, end].
func (s *SQLiteStore) ListShipments(ctx context.Context, start, end time.Time) ([]ShipmentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, amount, price, shipped_at
		FROM shipments WHERE shipped_at BETWEEN ? AND ? ORDER BY seq`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ShipmentRecord
	for rows.Next() {
		var r ShipmentRecord
		var ts int64
		if err := rows.Scan(&r.OrderID, &r.ProductID, &r.Name, &r.Amount, &r.Price, &ts); err != nil {
			return nil, err
		}
		r.ShippedAt = time.UnixMilli(ts).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}
