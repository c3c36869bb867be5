package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"` // empty for new sessions
	Course    string `json:"course"`
	Question  string `json:"question"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Answer    string `json:"answer,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "", "invalid message format")
			continue
		}

		if req.UserID == "" || req.Course == "" || strings.TrimSpace(req.Question) == "" {
			s.sendWSError(conn, req.SessionID, "user_id, course, and question are required")
			continue
		}

		s.handleWSQuestion(conn, r, req)
	}
}

func (s *Server) handleWSQuestion(conn *websocket.Conn, r *http.Request, req wsRequest) {
	ctx := r.Context()

	if err := s.store.EnsureUser(ctx, req.UserID, s.cfg.FreeMessages); err != nil {
		s.sendWSError(conn, req.SessionID, "user lookup failed")
		return
	}
	if err := s.store.ConsumeQuota(ctx, req.UserID); err != nil {
		s.sendWSError(conn, req.SessionID, "message quota exhausted")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.store.CreateSession(ctx, req.UserID, req.Course, "New chat")
		if err != nil {
			s.sendWSError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	history, err := s.sessionHistory(r, sessionID)
	if err != nil {
		s.sendWSError(conn, sessionID, "history lookup failed")
		return
	}

	chain, err := s.newChain(req.Course)
	if err != nil {
		s.sendWSError(conn, sessionID, err.Error())
		return
	}

	result, err := chain.Call(ctx, req.Question, history, req.Course)
	if err != nil {
		s.sendWSError(conn, sessionID, "question failed: "+err.Error())
		return
	}

	if err := s.store.SaveExchange(ctx, sessionID, req.Question, result); err != nil {
		s.sendWSError(conn, sessionID, "failed to save exchange")
		return
	}

	s.sendWSResponse(conn, wsResponse{
		Type:      "response",
		SessionID: sessionID,
		Answer:    result.Answer,
	})
}

func (s *Server) sendWSResponse(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, message string) {
	resp := wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Error:     message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
