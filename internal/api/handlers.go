package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/tracker"
	"github.com/julianstephens/habitlit/internal/validation"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusRequest struct {
	Date   string                  `json:"date"`
	Status models.CompletionStatus `json:"status"`
	Force  bool                    `json:"force"`
}

type createHabitResponse struct {
	Habit    models.Habit          `json:"habit"`
	Warnings []validation.Conflict `json:"warnings"`
}

type dashboardResponse struct {
	Summary tracker.Summary `json:"summary"`
	Rows    []tracker.Row   `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.tracker.Gateway().Categories())
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, badRequest("email is required"))
		return
	}
	profile, err := s.sessions.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, session.Session{User: profile})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := s.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, session.Session{User: profile})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": nil, "error": nil})
}

// handleGetSession returns data: null when nobody is signed in
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.GetSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"data": nil, "error": nil})
		return
	}
	writeResult(w, http.StatusOK, *sess)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = s.tracker.Today()
	} else if _, err := time.Parse(constants.DateFormat, day); err != nil {
		writeError(w, r, badRequest("invalid day %q (expected YYYY-MM-DD)", day))
		return
	}

	rows, err := s.tracker.Rows(r.Context(), day, r.URL.Query().Get("all") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, dashboardResponse{
		Summary: tracker.Summarize(day, rows),
		Rows:    rows,
	})
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.tracker.Gateway().Habits.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, habits)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var in models.NewHabit
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	habit, warnings, err := s.tracker.CreateHabit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []validation.Conflict{}
	}
	writeResult(w, http.StatusCreated, createHabitResponse{Habit: habit, Warnings: warnings})
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.HabitPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	habits := s.tracker.Gateway().Habits
	current, err := habits.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if result := s.tracker.ValidatePatch(current, patch); result.HasErrors() {
		writeError(w, r, &tracker.ValidationError{Conflicts: result.Errors()})
		return
	}

	updated, err := habits.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Gateway().Habits.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": nil, "error": nil})
}

// handleSubmitStatus sets a habit's status for a day in one atomic upsert.
// Without force only pending days can be resolved.
func (s *Server) handleSubmitStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Date == "" {
		req.Date = s.tracker.Today()
	}
	if !req.Status.Valid() {
		writeError(w, r, badRequest("invalid status %q", req.Status))
		return
	}

	log, err := s.tracker.Transition(r.Context(), chi.URLParam(r, "id"), req.Date, req.Status, req.Force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.submissions.WithLabelValues(string(log.Status)).Inc()
	writeResult(w, http.StatusOK, log)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	end := r.URL.Query().Get("end")
	if end == "" {
		end = s.tracker.Today()
	}
	start := r.URL.Query().Get("start")
	if start == "" {
		e, err := time.Parse(constants.DateFormat, end)
		if err != nil {
			writeError(w, r, badRequest("invalid end date %q", end))
			return
		}
		start = e.AddDate(0, 0, -(constants.DefaultHistoryDays - 1)).Format(constants.DateFormat)
	}

	days, err := s.tracker.History(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, days)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.tracker.Gateway().HabitLogs.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, logs)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var in models.NewHabitLog
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if !in.Status.Valid() {
		writeError(w, r, badRequest("invalid status %q", in.Status))
		return
	}
	if in.UserID == "" {
		if p, ok := s.sessions.Current(); ok {
			in.UserID = p.ID
		}
	}
	log, err := s.tracker.Gateway().HabitLogs.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, log)
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	var patch models.HabitLogPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeError(w, r, badRequest("invalid status %q", *patch.Status))
		return
	}
	log, err := s.tracker.Gateway().HabitLogs.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, log)
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.tracker.Gateway().Achievements.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, achievements)
}

func (s *Server) handleCreateAchievement(w http.ResponseWriter, r *http.Request) {
	var in models.NewAchievement
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, r, badRequest("name is required"))
		return
	}
	if in.UserID == "" {
		if p, ok := s.sessions.Current(); ok {
			in.UserID = p.ID
		}
	}
	a, err := s.tracker.Gateway().Achievements.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, a)
}
