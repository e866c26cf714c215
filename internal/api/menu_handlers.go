package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/store"
)

// serveCached writes a cached JSON payload if one exists, otherwise builds
// it with load, caches it, and writes it. Cache failures are logged and
// degrade to a direct read, never to a request failure.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if payload, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.log.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payload))
		return
	}

	data, err := load()
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	if encoded, err := json.Marshal(data); err == nil {
		if err := s.cache.Set(r.Context(), key, string(encoded), s.cfg.Redis.CacheTTL); err != nil {
			s.log.Warn("cache write failed", "key", key, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ProductFilter{Search: q.Get("search")}
	if categoryID, err := strconv.ParseInt(q.Get("category_id"), 10, 64); err == nil {
		filter.CategoryID = categoryID
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	key := fmt.Sprintf("products:%d:%s:%d:%d", filter.CategoryID, filter.Search, page, pageSize)
	s.serveCached(w, r, key, func() (any, error) {
		return store.ListProducts(r.Context(), s.db, filter, page, pageSize)
	})
}

func (s *Server) handleFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	s.serveCached(w, r, fmt.Sprintf("products:featured:%d", limit), func() (any, error) {
		return store.ListFeaturedProducts(r.Context(), s.db, limit)
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	s.serveCached(w, r, fmt.Sprintf("categories:%t", includeInactive), func() (any, error) {
		categories, err := store.ListCategories(r.Context(), s.db, includeInactive)
		if err != nil {
			return nil, err
		}
		if categories == nil {
			categories = []models.Category{}
		}
		return categories, nil
	})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := store.GetCategory(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}
