package handlers

import (
	"net/http"
	"strconv"

	"rakau/internal/content"
	"rakau/internal/models"
)

// WhitiHandler serves the whiti catalogue
type WhitiHandler struct {
	registry        *content.Registry
	progressService ProgressTracker
}

// NewWhitiHandler creates a new whiti handler
func NewWhitiHandler(registry *content.Registry, progressService ProgressTracker) *WhitiHandler {
	return &WhitiHandler{
		registry:        registry,
		progressService: progressService,
	}
}

type whitiSummary struct {
	ID           int    `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	TitleEnglish string `json:"titleEnglish,omitempty"`
	Phase        int    `json:"phase"`
	Theme        string `json:"theme"`
	Exercises    int    `json:"exercises"`
	Completed    bool   `json:"completed"`
	Available    bool   `json:"available"`
}

// List handles GET /api/whiti
func (h *WhitiHandler) List(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	completed, err := h.progressService.CompletedIDs(learner.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress", "list whiti progress", err)
		return
	}

	all := h.registry.AllWhiti()
	summaries := make([]whitiSummary, 0, len(all))
	for _, whiti := range all {
		summaries = append(summaries, whitiSummary{
			ID:           whiti.ID,
			Slug:         whiti.Slug,
			Title:        whiti.Title,
			TitleEnglish: whiti.TitleEnglish,
			Phase:        whiti.Phase,
			Theme:        whiti.Theme,
			Exercises:    len(whiti.Exercises),
			Completed:    completed[whiti.ID],
			Available:    prerequisitesMet(whiti, completed),
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"whiti": summaries})
}

// Detail handles GET /api/whiti/{id}
func (h *WhitiHandler) Detail(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid whiti ID", "", nil)
		return
	}

	whiti, err := h.registry.Whiti(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Whiti not found", "", nil)
		return
	}

	completed, err := h.progressService.CompletedIDs(learner.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress", "whiti detail progress", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"whiti":     whiti,
		"completed": completed[whiti.ID],
		"available": prerequisitesMet(whiti, completed),
	})
}

func prerequisitesMet(whiti *models.Whiti, completed map[int]bool) bool {
	for _, prereq := range whiti.Prerequisites {
		if !completed[prereq] {
			return false
		}
	}
	return true
}
