package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// Handler exposes the quiz and leaderboard use cases as a JSON API.
type Handler struct {
	sessions    *app.SessionService
	leaderboard *app.LeaderboardService
}

func NewHandler(sessions *app.SessionService, leaderboard *app.LeaderboardService) *Handler {
	return &Handler{sessions: sessions, leaderboard: leaderboard}
}

// Register wires the API routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.startSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.getSession)
	mux.HandleFunc("POST /api/sessions/{id}/answers", h.submitAnswer)
	mux.HandleFunc("GET /api/sessions/{id}/result", h.sessionResult)
	mux.HandleFunc("POST /api/scores", h.saveScore)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboardView)
	mux.HandleFunc("GET /api/leaderboard/share", h.shareRank)
}

type startSessionRequest struct {
	Amount     int    `json:"amount"`
	Difficulty string `json:"difficulty"`
}

type sessionResponse struct {
	ID       string   `json:"id"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Score    int      `json:"score"`
	Complete bool     `json:"complete"`
}

type answerRequest struct {
	Option string `json:"option"`
}

type answerResponse struct {
	Correct  bool             `json:"correct"`
	Awarded  int              `json:"awarded"`
	Score    int              `json:"score"`
	Complete bool             `json:"complete"`
	Next     *sessionResponse `json:"next,omitempty"`
}

type saveScoreRequest struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type shareResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Start(r.Context(), req.Amount, difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	outcome, session, err := h.sessions.SubmitAnswer(r.Context(), r.PathValue("id"), req.Option)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := answerResponse{
		Correct:  outcome.Correct,
		Awarded:  outcome.Awarded,
		Score:    outcome.Score,
		Complete: outcome.Complete,
	}
	if !outcome.Complete {
		next := toSessionResponse(session)
		resp.Next = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionResult(w http.ResponseWriter, r *http.Request) {
	// Unknown sessions read as score zero; the hand-off payload is
	// ephemeral and its absence is not an error.
	writeJSON(w, http.StatusOK, h.sessions.Result(r.Context(), r.PathValue("id")))
}

func (h *Handler) saveScore(w http.ResponseWriter, r *http.Request) {
	var req saveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	record, err := h.leaderboard.SaveScore(r.Context(), req.Name, req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) leaderboardView(w http.ResponseWriter, r *http.Request) {
	lb, err := h.viewFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *Handler) shareRank(w http.ResponseWriter, r *http.Request) {
	lb, err := h.viewFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Message: h.leaderboard.ShareMessage(lb)})
}

func (h *Handler) viewFromQuery(r *http.Request) (domain.Leaderboard, error) {
	filter, err := domain.ParseTimeFilter(r.URL.Query().Get("filter"))
	if err != nil {
		return domain.Leaderboard{}, err
	}
	search := r.URL.Query().Get("search")
	viewerID := r.URL.Query().Get("viewer")
	return h.leaderboard.View(r.Context(), filter, search, viewerID)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionComplete):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidTimeFilter):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQuestionSource),
		errors.Is(err, domain.ErrEmptyQuestionSet):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func toSessionResponse(session domain.QuizSession) sessionResponse {
	resp := sessionResponse{
		ID:       session.ID,
		Index:    session.Index,
		Total:    len(session.Questions),
		Options:  session.Options,
		Score:    session.Score,
		Complete: session.Complete,
	}
	if !session.Complete && session.Index < len(session.Questions) {
		resp.Question = session.Questions[session.Index].Text
	}
	return resp
}
