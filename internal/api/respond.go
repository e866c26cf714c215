package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/safar/food-order/internal/checkout"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/logging"
)

type identityKey struct{}

// resolveIdentity extracts the user id from a bearer token, if present.
// Requests without a valid token proceed anonymously; each handler decides
// whether that is acceptable (reads) or not (mutations).
func (s *Server) resolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if strings.HasPrefix(authz, "Bearer ") {
			if userID, err := s.tokens.Verify(strings.TrimPrefix(authz, "Bearer ")); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey{}, userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// identityFrom returns the authenticated user id, or zero for anonymous.
func identityFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(identityKey{}).(int64)
	return id
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.New("api").Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is a remote failure: logged with its full wrap chain and
// surfaced as a 500 with a generic message.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "please log in to continue")
	case errors.Is(err, database.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "your cart is empty; add items before placing an order")
	case errors.Is(err, checkout.ErrAddressRequired):
		respondError(w, http.StatusUnprocessableEntity, "please enter your delivery address")
	case errors.Is(err, checkout.ErrBadPaymentMethod):
		respondError(w, http.StatusUnprocessableEntity, "please choose a valid payment method")
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrCategoryNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
