package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/store"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := identityFrom(r.Context())
	if userID == 0 {
		s.respondStoreError(w, r, database.ErrUnauthenticated)
		return
	}

	user, err := store.GetUser(r.Context(), s.db, userID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := identityFrom(r.Context())
	if userID == 0 {
		s.respondStoreError(w, r, database.ErrUnauthenticated)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.UpdateProfile(r.Context(), s.db, userID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

const maxAvatarBytes = 5 << 20

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := identityFrom(r.Context())
	if userID == 0 {
		s.respondStoreError(w, r, database.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	key, err := s.avatars.Save(file, header.Filename)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	previous, err := store.SetAvatar(r.Context(), s.db, userID, key)
	if err != nil {
		// The blob is orphaned if the row update fails; clean it up.
		if rmErr := s.avatars.Remove(key); rmErr != nil {
			s.log.Warn("remove orphaned avatar", "key", key, "error", rmErr)
		}
		s.respondStoreError(w, r, err)
		return
	}

	if err := s.avatars.Remove(previous); err != nil {
		s.log.Warn("remove previous avatar", "key", previous, "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"avatar_url": key})
}

func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	f, err := s.avatars.Open(key)
	if err != nil {
		respondError(w, http.StatusNotFound, "avatar not found")
		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("stream avatar", "key", key, "error", err)
	}
}
