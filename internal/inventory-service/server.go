// Package inventoryservice is an in-memory implementation of the product and
// inventory HTTP contract the order service depends on. It backs local
// development and the order service's tests.
package inventoryservice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Movement struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

type listMeta struct {
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	Total       int `json:"total"`
}

type productsResponse struct {
	List []Product `json:"list"`
	Meta listMeta  `json:"meta"`
}

type stockRequest struct {
	Products []Movement `json:"products"`
}

type Server struct {
	mu        sync.Mutex
	products  map[string]*Product
	movements []Movement
}

func NewServer(seed ...Product) *Server {
	s := &Server{products: make(map[string]*Product, len(seed))}
	now := time.Now().UTC()
	for _, p := range seed {
		if p.CreatedAt.IsZero() {
			p.CreatedAt, p.UpdatedAt = now, now
		}
		s.products[p.ID] = &p
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", s.GetProducts)
	r.Patch("/products/stock", s.UpdateStock)
	return r
}

// GetProducts returns the products listed in the productIds query parameter.
// Unknown ids are skipped, mirroring the real service.
func (s *Server) GetProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []Product{}
	for _, id := range strings.Split(r.URL.Query().Get("productIds"), ",") {
		if p, ok := s.products[strings.TrimSpace(id)]; ok {
			list = append(list, *p)
		}
	}

	writeJSON(w, http.StatusOK, productsResponse{
		List: list,
		Meta: listMeta{CurrentPage: 1, LastPage: 1, Total: len(list)},
	})
}

// UpdateStock validates the whole batch before touching any stock so that a
// rejected request leaves the catalog unchanged.
func (s *Server) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make(map[string]int, len(req.Products))
	for _, m := range req.Products {
		p, exists := s.products[m.ProductID]
		if !exists {
			slog.WarnContext(r.Context(), "stock update for unknown product", "product_id", m.ProductID)
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product " + m.ProductID + " not found"})
			return
		}
		if m.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be positive"})
			return
		}

		switch m.Action {
		case "SELL":
			pending[m.ProductID] -= m.Quantity
			if p.Stock+pending[m.ProductID] < 0 {
				slog.WarnContext(r.Context(), "insufficient stock",
					"product_id", m.ProductID, "available", p.Stock, "requested", m.Quantity)
				writeJSON(w, http.StatusConflict, map[string]string{"error": "insufficient stock for " + m.ProductID})
				return
			}
		case "PURCHASE":
			pending[m.ProductID] += m.Quantity
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown action " + m.Action})
			return
		}
	}

	now := time.Now().UTC()
	for id, delta := range pending {
		p := s.products[id]
		p.Stock += delta
		p.UpdatedAt = now
	}
	s.movements = append(s.movements, req.Products...)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Stock(productID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

func (s *Server) Movements() []Movement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Movement, len(s.movements))
	copy(out, s.movements)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
