package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rakau/internal/content"
	"rakau/internal/lesson"
	"rakau/internal/models"
)

type stubProgress struct {
	completed  map[int]bool
	recorded   []int
	recordedTo []int64
}

func (s *stubProgress) RecordCompletion(_ context.Context, learner *models.Learner, whitiID int) error {
	s.recorded = append(s.recorded, whitiID)
	s.recordedTo = append(s.recordedTo, learner.ID)
	return nil
}

func (s *stubProgress) CompletedIDs(int64) (map[int]bool, error) {
	if s.completed == nil {
		return map[int]bool{}, nil
	}
	return s.completed, nil
}

func (s *stubProgress) IsAvailable(_ int64, whiti *models.Whiti) (bool, error) {
	for _, prereq := range whiti.Prerequisites {
		if !s.completed[prereq] {
			return false, nil
		}
	}
	return true, nil
}

func testLearner() *models.Learner {
	return &models.Learner{ID: 42, Email: "ako@example.com", Name: "Ako"}
}

func requestWithLearner(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), LearnerContextKey, testLearner())
	return req.WithContext(ctx)
}

func newTestSessionHandler(t *testing.T, progress ProgressTracker) *SessionHandler {
	t.Helper()
	registry, err := content.Load()
	if err != nil {
		t.Fatalf("failed to load content: %v", err)
	}
	return NewSessionHandler(registry, progress)
}

func startSession(t *testing.T, h *SessionHandler, whitiID string) lesson.FlowView {
	t.Helper()
	req := requestWithLearner(t, "POST", "/api/whiti/"+whitiID+"/session", "")
	req.SetPathValue("id", whitiID)
	recorder := httptest.NewRecorder()
	h.Start(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Start returned status %d: %s", recorder.Code, recorder.Body.String())
	}
	var view lesson.FlowView
	if err := json.NewDecoder(recorder.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	return view
}

func TestStartSessionRequiresAuth(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})

	req := httptest.NewRequest("POST", "/api/whiti/1/session", nil)
	req.SetPathValue("id", "1")
	recorder := httptest.NewRecorder()
	h.Start(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", recorder.Code)
	}
}

func TestStartSessionBlocksUnmetPrerequisites(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})

	req := requestWithLearner(t, "POST", "/api/whiti/2/session", "")
	req.SetPathValue("id", "2")
	recorder := httptest.NewRecorder()
	h.Start(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unmet prerequisites, got %d", recorder.Code)
	}
}

func TestStartSessionAllowsMetPrerequisites(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{completed: map[int]bool{1: true}})

	view := startSession(t, h, "2")
	if view.WhitiID != 2 {
		t.Errorf("expected whiti 2, got %d", view.WhitiID)
	}
	if view.Index != 0 {
		t.Errorf("expected index 0, got %d", view.Index)
	}
}

func TestViewWithoutSession(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})

	recorder := httptest.NewRecorder()
	h.View(recorder, requestWithLearner(t, "GET", "/api/session", ""))

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a session, got %d", recorder.Code)
	}
}

func TestSubmitCorrectAnswerOpensFeedbackWindow(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})
	startSession(t, h, "1")

	recorder := httptest.NewRecorder()
	h.Submit(recorder, requestWithLearner(t, "POST", "/api/session/submit", `{"answer":"He whero"}`))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Submit returned status %d: %s", recorder.Code, recorder.Body.String())
	}

	var view lesson.FlowView
	if err := json.NewDecoder(recorder.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if !view.Locked {
		t.Error("expected view to be locked during the feedback window")
	}
	if view.Feedback == nil || view.Feedback.Result != lesson.ResultCorrect {
		t.Errorf("expected correct feedback, got %+v", view.Feedback)
	}
	if view.Index != 0 {
		t.Errorf("view should still show the answered exercise, got index %d", view.Index)
	}
}

func TestSubmitDuringFeedbackWindowRejected(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})
	startSession(t, h, "1")

	first := httptest.NewRecorder()
	h.Submit(first, requestWithLearner(t, "POST", "/api/session/submit", `{"answer":"He whero"}`))
	if first.Code != http.StatusOK {
		t.Fatalf("first submit returned %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.Submit(second, requestWithLearner(t, "POST", "/api/session/submit", `{"answer":"He whero"}`))
	if second.Code != http.StatusConflict {
		t.Errorf("expected 409 during feedback window, got %d", second.Code)
	}
}

func TestPickOnNonBuilderExercise(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})
	startSession(t, h, "1")

	recorder := httptest.NewRecorder()
	h.Pick(recorder, requestWithLearner(t, "POST", "/api/session/pick", `{"word":"He"}`))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 picking on a multiple choice exercise, got %d", recorder.Code)
	}
}

func TestQuitDiscardsSession(t *testing.T) {
	h := newTestSessionHandler(t, &stubProgress{})
	startSession(t, h, "1")

	recorder := httptest.NewRecorder()
	h.Quit(recorder, requestWithLearner(t, "POST", "/api/session/quit", ""))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Quit returned status %d", recorder.Code)
	}

	viewRecorder := httptest.NewRecorder()
	h.View(viewRecorder, requestWithLearner(t, "GET", "/api/session", ""))
	if viewRecorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 after quit, got %d", viewRecorder.Code)
	}
}

func TestStartReplacesExistingSession(t *testing.T) {
	progress := &stubProgress{completed: map[int]bool{1: true}}
	h := newTestSessionHandler(t, progress)

	startSession(t, h, "1")
	view := startSession(t, h, "2")

	if view.WhitiID != 2 {
		t.Errorf("expected the new session to be for whiti 2, got %d", view.WhitiID)
	}
	if len(progress.recorded) != 0 {
		t.Errorf("replacing a session should not record completion, got %v", progress.recorded)
	}
}
