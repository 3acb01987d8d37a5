package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/huntable/treasurehunt-api/internal/models"
)

func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": userMsg})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps service error kinds to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, models.ErrStaleMedia):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, models.ErrUpstream):
		respondWithError(w, http.StatusBadGateway, "upstream service failed", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error", err)
	}
}
