package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/safar/food-order/internal/auth"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/store"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	user, err := store.CreateUser(r.Context(), s.db, req.Email, hash, strings.TrimSpace(req.Name))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("user registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// A wrong email and a wrong password must be indistinguishable.
		if errors.Is(err, database.ErrUserNotFound) {
			s.respondStoreError(w, r, database.ErrBadCredentials)
			return
		}
		s.respondStoreError(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondStoreError(w, r, database.ErrBadCredentials)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
