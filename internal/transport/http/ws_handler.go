package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// WSHandler runs one interactive quiz session per connection: questions
// are pushed one at a time, answers come back as messages, and the final
// score can be saved to the leaderboard without leaving the socket.
type WSHandler struct {
	sessions    *app.SessionService
	leaderboard *app.LeaderboardService
	upgrader    websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService, leaderboard *app.LeaderboardService) *WSHandler {
	return &WSHandler{
		sessions:    sessions,
		leaderboard: leaderboard,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type savePayload struct {
	Name string `json:"name"`
}

type questionPayload struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Score    int      `json:"score"`
}

type completePayload struct {
	Score int `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and plays a full session over the socket.
// Query parameters: amount, difficulty (both optional).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	amount, _ := strconv.Atoi(r.URL.Query().Get("amount"))
	difficulty, err := domain.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		http.Error(w, "invalid difficulty", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.sessions.Start(r.Context(), amount, difficulty)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer func() {
		// The session is single-use; drop it once the socket closes.
		// The request context is gone by then, so use a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.sessions.Delete(ctx, session.ID)
	}()

	if err := conn.WriteJSON(questionMessage(session)); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			outcome, next, err := h.sessions.SubmitAnswer(r.Context(), session.ID, payload.Option)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.AnswerOutcome]{Type: "answerResult", Payload: outcome}); err != nil {
				return
			}
			if outcome.Complete {
				if err := conn.WriteJSON(outboundMessage[completePayload]{Type: "complete", Payload: completePayload{Score: outcome.Score}}); err != nil {
					return
				}
			} else {
				if err := conn.WriteJSON(questionMessage(next)); err != nil {
					return
				}
			}
		case "save":
			var payload savePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid save payload"}})
				continue
			}
			result := h.sessions.Result(r.Context(), session.ID)
			record, err := h.leaderboard.SaveScore(r.Context(), payload.Name, result.Score)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.ScoreRecord]{Type: "saved", Payload: record}); err != nil {
				return
			}
			lb, err := h.leaderboard.View(r.Context(), domain.FilterAllTime, "", record.ID)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: lb}); err != nil {
				return
			}
		default:
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

func questionMessage(session domain.QuizSession) outboundMessage[questionPayload] {
	return outboundMessage[questionPayload]{
		Type: "question",
		Payload: questionPayload{
			Index:    session.Index,
			Total:    len(session.Questions),
			Question: session.Questions[session.Index].Text,
			Options:  session.Options,
			Score:    session.Score,
		},
	}
}
