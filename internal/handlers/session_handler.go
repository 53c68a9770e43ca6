package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"rakau/internal/content"
	"rakau/internal/lesson"
	"rakau/internal/models"
)

// ProgressTracker is the slice of the progress service the lesson handlers
// need. Satisfied by *service.ProgressService.
type ProgressTracker interface {
	RecordCompletion(ctx context.Context, learner *models.Learner, whitiID int) error
	CompletedIDs(learnerID int64) (map[int]bool, error)
	IsAvailable(learnerID int64, whiti *models.Whiti) (bool, error)
}

// SessionHandler runs lesson sessions. Each learner holds at most one live
// flow; state lives in memory for the lifetime of the session.
type SessionHandler struct {
	registry        *content.Registry
	progressService ProgressTracker

	mu    sync.Mutex
	flows map[int64]*lesson.Flow // learnerID -> active flow
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *content.Registry, progressService ProgressTracker) *SessionHandler {
	return &SessionHandler{
		registry:        registry,
		progressService: progressService,
		flows:           make(map[int64]*lesson.Flow),
	}
}

// Start handles POST /api/whiti/{id}/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
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

	available, err := h.progressService.IsAvailable(learner.ID, whiti)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check availability", "session start availability", err)
		return
	}
	if !available {
		respondWithError(w, http.StatusForbidden, "Prerequisites not yet complete", "", nil)
		return
	}

	flow := lesson.NewFlow(whiti)
	learnerID := learner.ID
	learnerCopy := *learner
	flow.SetOnComplete(func() {
		if err := h.progressService.RecordCompletion(context.Background(), &learnerCopy, whiti.ID); err != nil {
			log.Printf("Failed to record completion of whiti %d for learner %d: %v", whiti.ID, learnerID, err)
		}
	})

	h.mu.Lock()
	if old, ok := h.flows[learnerID]; ok {
		old.Close()
	}
	h.flows[learnerID] = flow
	h.mu.Unlock()

	respondWithJSON(w, http.StatusCreated, flow.View())
}

// View handles GET /api/session
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.currentFlow(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, flow.View())
}

type submitRequest struct {
	Answer string `json:"answer"`
}

// Submit handles POST /api/session/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.currentFlow(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if _, err := flow.Submit(req.Answer); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, flow.View())
}

type pickRequest struct {
	Word string `json:"word"`
}

// Pick handles POST /api/session/pick for sentence-builder exercises
func (h *SessionHandler) Pick(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.currentFlow(w, r)
	if !ok {
		return
	}

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	pick, _, err := flow.PickWord(req.Word)
	if err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pick": pick,
		"view": flow.View(),
	})
}

// Continue handles POST /api/session/continue for listen-through exercises
// (pattern drills, karakia, waiata) that have no answer to check.
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.currentFlow(w, r)
	if !ok {
		return
	}

	if err := flow.Continue(); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, flow.View())
}

// Quit handles POST /api/session/quit. Quitting mid-whiti discards the
// session without recording completion.
func (h *SessionHandler) Quit(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	h.mu.Lock()
	flow, ok := h.flows[learner.ID]
	if ok {
		delete(h.flows, learner.ID)
	}
	h.mu.Unlock()

	if ok {
		flow.Close()
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "quit"})
}

func (h *SessionHandler) currentFlow(w http.ResponseWriter, r *http.Request) (*lesson.Flow, bool) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return nil, false
	}

	h.mu.Lock()
	flow, ok := h.flows[learner.ID]
	h.mu.Unlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, "No active session", "", nil)
		return nil, false
	}
	return flow, true
}

func (h *SessionHandler) respondFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lesson.ErrLocked):
		respondWithError(w, http.StatusConflict, "Feedback window open", "", nil)
	case errors.Is(err, lesson.ErrCompleted):
		respondWithError(w, http.StatusConflict, "Session already complete", "", nil)
	case errors.Is(err, lesson.ErrClosed):
		respondWithError(w, http.StatusGone, "Session closed", "", nil)
	case errors.Is(err, lesson.ErrNotAnswerable):
		respondWithError(w, http.StatusBadRequest, "Exercise has no answer to check", "", nil)
	case errors.Is(err, lesson.ErrNotBuilder):
		respondWithError(w, http.StatusBadRequest, "Not a sentence-builder exercise", "", nil)
	case errors.Is(err, lesson.ErrAnswerRequired):
		respondWithError(w, http.StatusBadRequest, "Exercise requires an answer", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Session error", "session flow", err)
	}
}
