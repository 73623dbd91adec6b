// Package httpapi exposes the warehouse engine over HTTP: product and order
// management as JSON endpoints, and the three text reports.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"stockyard/internal/store"
	"stockyard/internal/warehouse"
)

// Server serves the warehouse HTTP API. The warehouse itself is
// single-threaded by contract, so every handler takes the server mutex for
// the duration of the call.
type Server struct {
	mu        sync.Mutex
	wh        *warehouse.Warehouse
	snapshots store.SnapshotStore  // nil disables persistence
	ledger    store.ShipmentLedger // nil disables the shipment ledger
	log       *slog.Logger
	now       func() time.Time
}

// NewServer creates a Server around the given warehouse. snapshots and
// ledger may be nil, in which case the corresponding persistence step is
// skipped.
func NewServer(wh *warehouse.Warehouse, snapshots store.SnapshotStore, ledger store.ShipmentLedger, log *slog.Logger) *Server {
	return &Server{
		wh:        wh,
		snapshots: snapshots,
		ledger:    ledger,
		log:       log,
		now:       time.Now,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/products", s.handleAddProduct)
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleClearProduct)
	mux.HandleFunc("POST /api/products/{id}/amount", s.handleChangeAmount)
	mux.HandleFunc("GET /api/inventory", s.handleInventoryReport)
	mux.HandleFunc("POST /api/orders", s.handleNewOrder)
	mux.HandleFunc("GET /api/orders/{id}", s.handleOrderReport)
	mux.HandleFunc("DELETE /api/orders/{id}", s.handleCancelOrder)
	mux.HandleFunc("POST /api/orders/{id}/items", s.handleOrderItem)
	mux.HandleFunc("POST /api/orders/{id}/ship", s.handleShipOrder)
	mux.HandleFunc("GET /api/best-selling", s.handleBestSelling)
	mux.HandleFunc("GET /api/shipments", s.handleListShipments)
}

// Handler returns an http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeEngineError maps warehouse errors to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, warehouse.ErrProductNotFound),
		errors.Is(err, warehouse.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, warehouse.ErrProductExists),
		errors.Is(err, warehouse.ErrInsufficientStock):
		status = http.StatusConflict
	}
	writeError(w, status, err.Error())
}

func parseID(r *http.Request) (uint32, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint32(id), nil
}

// persist writes a snapshot after a successful mutation. Snapshot failures
// are logged, not surfaced: the in-memory state is already committed.
func (s *Server) persist(r *http.Request) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveSnapshot(r.Context(), s.wh); err != nil {
		s.log.Warn("saving snapshot", "error", err)
	}
}

// ---------------------------------------------------------------------------
// Product handlers
// ---------------------------------------------------------------------------

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	policy, err := warehouse.ParsePolicy(req.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pricing, err := warehouse.PricingSpec{
		Kind: req.Pricing.Kind,
		Unit: req.Pricing.Unit,
		Buy:  req.Pricing.Buy,
		Free: req.Pricing.Free,
	}.Pricing()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wh.AddProduct(req.ID, req.Name, req.Amount, policy, pricing); err != nil {
		writeEngineError(w, err)
		return
	}
	s.persist(r)
	s.log.Info("product registered", "id", req.ID, "name", req.Name)
	writeJSON(w, http.StatusCreated, map[string]uint32{"id": req.ID})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.wh.Products()
	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		spec := p.PricingSpec()
		out = append(out, ProductJSON{
			ID:     p.ID(),
			Name:   p.Name(),
			Policy: p.Policy().String(),
			Amount: p.Amount(),
			Profit: p.Profit(),
			Price: PricingJSON{
				Kind: spec.Kind,
				Unit: spec.Unit,
				Buy:  spec.Buy,
				Free: spec.Free,
			},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wh.ClearProduct(id); err != nil {
		writeEngineError(w, err)
		return
	}
	s.persist(r)
	s.log.Info("product cleared", "id", id)
	writeJSON(w, http.StatusOK, map[string]uint32{"id": id})
}

func (s *Server) handleChangeAmount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req DeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wh.ChangeProductAmount(id, req.Delta); err != nil {
		writeEngineError(w, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusOK, map[string]uint32{"id": id})
}

// ---------------------------------------------------------------------------
// Order handlers
// ---------------------------------------------------------------------------

func (s *Server) handleNewOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.wh.NewOrder()
	s.persist(r)
	s.log.Info("order created", "orderID", id)
	writeJSON(w, http.StatusCreated, OrderResponse{OrderID: id})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wh.CancelOrder(id); err != nil {
		writeEngineError(w, err)
		return
	}
	s.persist(r)
	s.log.Info("order cancelled", "orderID", id)
	writeJSON(w, http.StatusOK, OrderResponse{OrderID: id})
}

func (s *Server) handleOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req OrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wh.ChangeOrderItem(id, req.ProductID, req.Delta); err != nil {
		writeEngineError(w, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusOK, OrderResponse{OrderID: id})
}

func (s *Server) handleShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.wh.ShipOrder(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if s.ledger != nil {
		records := store.Records(id, lines, s.now().UTC())
		if err := s.ledger.AppendShipments(r.Context(), records); err != nil {
			s.log.Warn("appending shipment ledger", "orderID", id, "error", err)
		}
	}
	s.persist(r)

	resp := ShipResponse{OrderID: id}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, ShipmentLineJSON{
			ProductID: l.ProductID,
			Name:      l.Name,
			Amount:    l.Amount,
			Price:     l.Price,
		})
		resp.Total += l.Price
	}
	s.log.Info("order shipped", "orderID", id, "lines", len(lines), "total", resp.Total)
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Report handlers
// ---------------------------------------------------------------------------

func (s *Server) handleInventoryReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.wh.WriteInventory(w); err != nil {
		s.log.Warn("writing inventory report", "error", err)
	}
}

func (s *Server) handleOrderReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Probe first so report errors become a clean 404 instead of a half
	// written body.
	if _, err := s.wh.Order(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.wh.WriteOrder(w, id); err != nil {
		s.log.Warn("writing order report", "orderID", id, "error", err)
	}
}

func (s *Server) handleBestSelling(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.wh.WriteBestSelling(w); err != nil {
		s.log.Warn("writing best-seller report", "error", err)
	}
}

// ---------------------------------------------------------------------------
// Ledger handler
// ---------------------------------------------------------------------------

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusNotFound, "shipment ledger not configured")
		return
	}

	start := time.Unix(0, 0).UTC()
	end := s.now().UTC()
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start time")
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end time")
			return
		}
		end = t
	}

	records, err := s.ledger.ListShipments(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]ShipmentJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, ShipmentJSON{
			OrderID:   rec.OrderID,
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Amount:    rec.Amount,
			Price:     rec.Price,
			ShippedAt: rec.ShippedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
