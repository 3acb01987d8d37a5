package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// GET /api/v1/activities/{id}/audio - activity description read aloud
// as MP3 for pre-readers
func (h *Handler) ActivityAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	activity, err := h.catalog.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	text := fmt.Sprintf("%s. %s", activity.Title, activity.Description)
	audio, err := h.speaker.Synthesize(ctx, text)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Audio is not available", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400") // activities are immutable
	w.Write(audio)
}
