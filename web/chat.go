// ABOUTME: Chat assistant HTTP handlers
// ABOUTME: Stateless LM passthrough with per-username history persistence
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/llm"
	"github.com/harperreed/rolodex/models"
)

const chatHistoryLimit = 50

// chatEntry is one rendered history item, user or ai.
type chatEntry struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Username and message are required")
		return
	}

	resp, err := s.llm.Complete(r.Context(), llm.ChatSystem, req.Message)
	if err != nil {
		collaboratorError(w, "chat", err)
		return
	}

	chat := &models.Chat{
		Username: req.Username,
		Message:  req.Message,
		Response: resp.Content,
	}
	if err := db.SaveChat(s.db, chat); err != nil {
		// History is best-effort; the user still gets their answer.
		log.Printf("Chat: failed to persist exchange for %s: %v", req.Username, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"response": chatEntry{
			Type:      "ai",
			Content:   resp.Content,
			Timestamp: chat.Timestamp,
		},
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	chats, err := db.GetChatHistory(s.db, username, chatHistoryLimit)
	if err != nil {
		storeError(w, "chat-history", err)
		return
	}

	// Flatten each exchange into a user entry and an ai entry, oldest first.
	history := make([]chatEntry, 0, len(chats)*2)
	for _, c := range chats {
		history = append(history,
			chatEntry{Type: "user", Content: c.Message, Timestamp: c.Timestamp},
			chatEntry{Type: "ai", Content: c.Response, Timestamp: c.Timestamp},
		)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"chatHistory": history,
	})
}
