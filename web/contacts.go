// ABOUTME: Contact HTTP handlers
// ABOUTME: Implements intake turns, saves, CRUD, AI updates, and timelines
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/intake"
	"github.com/harperreed/rolodex/llm"
	"github.com/harperreed/rolodex/models"
)

func (s *Server) handleAddContactAI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username             string         `json:"username"`
		Message              string         `json:"message"`
		CollectedContactData map[string]any `json:"collectedContactData"`
		QuestionCount        int            `json:"questionCount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Username and message are required")
		return
	}

	result, err := intake.Turn(r.Context(), s.llm, intake.TurnRequest{
		Message:       req.Message,
		Collected:     req.CollectedContactData,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		collaboratorError(w, "add-contact-ai", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"aiResponse":     result.AIResponse,
		"extractedData":  result.Collected,
		"readyToSave":    result.ReadyToSave,
		"missingFields":  result.MissingFields,
		"questionCount":  result.QuestionCount,
		"xScoreAssigned": result.XScoreAssigned,
	})
}

func (s *Server) handleSaveContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string         `json:"username"`
		ContactData map[string]any `json:"contactData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	contact := intake.DraftContact(req.Username, req.ContactData)
	if err := db.SaveContactWithInteraction(s.db, contact); err != nil {
		storeError(w, "save-contact", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Contact saved successfully",
		"contact": contact,
	})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	contacts, err := db.ListContacts(s.db, username)
	if err != nil {
		storeError(w, "list-contacts", err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"contacts": contacts,
	})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string         `json:"id"`
		Username    string         `json:"username"`
		UpdatedData map[string]any `json:"updatedData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := db.UpdateContact(s.db, req.Username, id, req.UpdatedData); err != nil {
		storeError(w, "update-contact", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAIUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		Prompt     string `json:"prompt"`
		UpdateType string `json:"updateType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Username and prompt are required")
		return
	}
	if req.UpdateType != "reconnection" && req.UpdateType != "details_change" {
		writeError(w, http.StatusBadRequest, "updateType must be \"reconnection\" or \"details_change\"")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	contact, err := db.GetContact(s.db, req.Username, id)
	if err != nil {
		storeError(w, "ai-update", err)
		return
	}
	if contact == nil {
		writeError(w, http.StatusNotFound, "Contact not found or unauthorized")
		return
	}

	contactJSON, err := json.Marshal(contact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize contact")
		return
	}

	var prompt string
	if req.UpdateType == "reconnection" {
		prompt = llm.ReconnectionPrompt(string(contactJSON), req.Prompt)
	} else {
		prompt = llm.DetailsChangePrompt(string(contactJSON), req.Prompt)
	}

	resp, err := s.llm.Complete(r.Context(), llm.IntakeSystem, prompt)
	if err != nil {
		collaboratorError(w, "ai-update", err)
		return
	}

	message, updates, err := intake.ParseUpdate(resp.Content)
	if err != nil {
		collaboratorError(w, "ai-update", err)
		return
	}

	if score, ok := updates["x_score"].(int); ok {
		updates["x_score"] = models.ClampXScore(score)
	}

	now := time.Now()
	if req.UpdateType == "reconnection" {
		// A reconnection refreshes the interaction clock and the y-factor.
		updates["last_interaction_date"] = now
		updates["y_factor_decay"] = 1.0
	}

	if len(updates) > 0 {
		if err := db.UpdateContact(s.db, req.Username, id, updates); err != nil {
			storeError(w, "ai-update", err)
			return
		}
	}

	if req.UpdateType == "reconnection" {
		// Snapshot the refreshed contact into the timeline.
		updated, err := db.GetContact(s.db, req.Username, id)
		if err != nil || updated == nil {
			storeError(w, "ai-update", err)
			return
		}
		interaction := &models.ContactInteraction{
			ContactID:           id,
			Owner:               req.Username,
			InteractionDate:     now,
			ConversationSummary: updated.ConversationSummary,
			PersonDetails:       updated.PersonDetails,
			XScore:              updated.XScore,
			ContactType:         updated.ContactType,
		}
		if err := db.AppendInteraction(s.db, interaction); err != nil {
			storeError(w, "ai-update", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := db.DeleteContact(s.db, username, id); err != nil {
		storeError(w, "delete-contact", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	timeline, err := db.GetTimeline(s.db, username, id)
	if err != nil {
		storeError(w, "timeline", err)
		return
	}
	if timeline == nil {
		timeline = []models.ContactInteraction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"timeline": timeline,
	})
}
