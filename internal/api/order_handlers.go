package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/food-order/internal/checkout"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/store"
)

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address       string `json:"address"`
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.checkout.PlaceOrder(r.Context(), checkout.Request{
		UserID:        identityFrom(r.Context()),
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("order placed", "order_id", order.ID, "user_id", order.UserID, "total", order.Total)
	respondJSON(w, http.StatusCreated, order)
}

// handleListOrders returns the caller's order history, newest first. With a
// cursor or limit parameter it pages with a keyset cursor instead of
// returning the denormalized summary list.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := identityFrom(r.Context())
	q := r.URL.Query()

	if q.Has("cursor") || q.Has("limit") {
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		page, err := store.ListOrdersCursor(r.Context(), s.db, userID, q.Get("cursor"), limit)
		if err != nil {
			s.respondStoreError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, page)
		return
	}

	orders, err := store.ListOrders(r.Context(), s.db, userID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.OrderSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := store.GetOrder(r.Context(), s.db, identityFrom(r.Context()), orderID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
