package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/akelani/classchat/internal/qa"
	"github.com/akelani/classchat/internal/retry"
	"github.com/akelani/classchat/internal/store"
)

// chatRequest is the JSON body of POST /api/chat.
type chatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"` // empty for new sessions
	Course    string `json:"course"`
	Question  string `json:"question"`
}

// chatResponse is the JSON answer to a chat request.
type chatResponse struct {
	SessionID string        `json:"session_id"`
	Answer    string        `json:"answer"`
	Sources   []qa.Document `json:"sources"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Course == "" || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "user_id, course, and question are required")
		return
	}

	ctx := r.Context()

	if err := s.store.EnsureUser(ctx, req.UserID, s.cfg.FreeMessages); err != nil {
		s.writeFailure(w, err)
		return
	}

	// The quota gate sits before any upstream work.
	if err := s.store.ConsumeQuota(ctx, req.UserID); err != nil {
		s.writeFailure(w, err)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.store.CreateSession(ctx, req.UserID, req.Course, "New chat")
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		sessionID = sess.ID
	}

	history, err := s.sessionHistory(r, sessionID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	chain, err := s.newChain(req.Course)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := chain.Call(ctx, req.Question, history, req.Course)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	if err := s.store.SaveExchange(ctx, sessionID, req.Question, result); err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: sessionID,
		Answer:    result.Answer,
		Sources:   result.Sources,
	})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"courses": s.catalog.CourseNames()})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	sessions, err := s.store.ListSessions(r.Context(), userID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	writeJSON(w, http.StatusOK, map[string][]store.Session{"sessions": sessions})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	messages, err := s.store.ListMessages(r.Context(), sessionID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}
	writeJSON(w, http.StatusOK, map[string][]store.Message{"messages": messages})
}

// sessionHistory renders the stored conversation as the flat text the
// prompt embeds. Questions are prefixed so the model can tell the turns
// apart; answers are included as-is.
func (s *Server) sessionHistory(r *http.Request, sessionID string) (string, error) {
	messages, err := s.store.ListMessages(r.Context(), sessionID)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Role == "user" {
			parts = append(parts, "Question: "+m.Content)
		} else {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, " "), nil
}

// writeFailure maps pipeline errors onto HTTP statuses: quota 429,
// upstream rejection 502, retry exhaustion 503, embedding or generation
// failure 502, anything else 500.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var rejected *retry.RejectedError
	var exhausted *retry.ExhaustedError

	switch {
	case errors.Is(err, store.ErrQuotaExhausted):
		writeError(w, http.StatusTooManyRequests, "message quota exhausted")
	case errors.As(err, &exhausted):
		writeError(w, http.StatusServiceUnavailable, "upstream service unavailable, try again later")
	case errors.As(err, &rejected):
		writeError(w, http.StatusBadGateway, "upstream service rejected the request")
	case errors.Is(err, qa.ErrNoEmbedding), errors.Is(err, qa.ErrEmptyAnswer):
		writeError(w, http.StatusBadGateway, "upstream service returned an unusable response")
	default:
		log.Printf("server: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
