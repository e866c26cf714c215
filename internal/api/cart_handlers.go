package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/store"
)

// handleGetCart returns the caller's cart. Anonymous callers get an empty
// cart, not a 401: browsing works without an account.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	items, err := store.GetCartItems(r.Context(), s.db, identityFrom(r.Context()))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	err := store.AddToCart(r.Context(), s.db, identityFrom(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "added to cart"})
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = store.UpdateCartItemQuantity(r.Context(), s.db, identityFrom(r.Context()), itemID, req.Quantity)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	err = store.RemoveCartItem(r.Context(), s.db, identityFrom(r.Context()), itemID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
