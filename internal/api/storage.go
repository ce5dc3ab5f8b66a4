package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nerrad567/homedash-core/internal/storage"
)

// storageKey returns the validated key of a storage route.
func storageKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := pathParam(r, "key")
	if err := storage.ValidateKey(key); err != nil {
		writeDomainError(w, err)
		return "", false
	}
	return key, true
}

// handleStorageLoad returns the stored JSON document, or 404.
func (s *Server) handleStorageLoad(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	data, err := s.store.Load(r.Context(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("storage load failed", "key", key, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(data))
}

// handleStorageSave stores the request body, which must be a JSON document.
func (s *Server) handleStorageSave(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read body")
		return
	}
	if !json.Valid(data) {
		writeBadRequest(w, "body must be a JSON document")
		return
	}

	if err := s.store.Save(r.Context(), key, data); err != nil {
		s.logger.Warn("storage save failed", "key", key, "error", err)
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStorageRemove deletes the key. Removing an absent key succeeds.
func (s *Server) handleStorageRemove(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	if err := s.store.Remove(r.Context(), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("storage remove failed", "key", key, "error", err)
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
