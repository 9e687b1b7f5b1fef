// Package handler exposes the shop over HTTP and adapts each request into a
// host-environment call the settlement workflow understands.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/CodeRunne/burgershop/internal/shop"
)

// Handler serves the order API, delegating all business logic to the shop.
type Handler struct {
	shop *shop.Shop
}

// NewHandler constructs a Handler around the given shop.
func NewHandler(s *shop.Shop) *Handler {
	return &Handler{shop: s}
}

// Routes registers the API endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}
