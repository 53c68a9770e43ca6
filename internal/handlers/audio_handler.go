package handlers

import (
	"net/http"

	"rakau/internal/audio"
)

// AudioHandler serves cached te reo audio clips
type AudioHandler struct {
	ttsService *audio.TTSService
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(ttsService *audio.TTSService) *AudioHandler {
	return &AudioHandler{ttsService: ttsService}
}

// Serve handles GET /api/audio/{file}
func (h *AudioHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("file")
	path, err := h.ttsService.AudioFilePath(filename)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Audio clip not found", "", nil)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
