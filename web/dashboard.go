// ABOUTME: Dashboard aggregator and to-do HTTP handlers
// ABOUTME: Combines todos, decay notifications, and outreach templates
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/decay"
	"github.com/harperreed/rolodex/models"
)

// MessageTemplate is one static outreach template for the dashboard.
type MessageTemplate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// outreachTemplates are the canned message starters shown on every
// dashboard load.
var outreachTemplates = []MessageTemplate{
	{
		Title:   "Follow-up after first meeting",
		Content: "Hi [name], great meeting you at [where]! I'd love to continue our conversation about [topic]. Are you free for a quick call this week?",
	},
	{
		Title:   "Reconnect after a while",
		Content: "Hi [name], it's been a while since we last spoke at [where]. A lot has happened on my end — I'd love to catch up and hear what you've been working on.",
	},
	{
		Title:   "Thank you note",
		Content: "Hi [name], thank you for taking the time to talk about [topic]. Your perspective was really valuable. Let's stay in touch!",
	},
}

// handleDashboard builds the single read-model for one owner: to-dos, decay
// notifications, and templates. A failing section degrades to empty rather
// than failing the whole call.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	now := time.Now()
	notifications := []decay.Notification{}

	contacts, err := db.ListContacts(s.db, username)
	if err != nil {
		log.Printf("Dashboard: failed to fetch contacts for %s: %v", username, err)
	} else {
		for i := range contacts {
			c := &contacts[i]
			n := decay.Evaluate(c, now)
			if n == nil {
				continue
			}
			notifications = append(notifications, *n)

			if n.Type == decay.TierReconnect {
				created, err := db.CreateReminderTodo(s.db, username, decay.ReminderDescription(c), c.ID)
				if err != nil {
					log.Printf("Dashboard: failed to create reminder for %s: %v", c.Name, err)
				} else if created {
					log.Printf("Dashboard: created reconnect reminder for %s", c.Name)
				}
			}
		}
	}

	todos, err := db.ListTodos(s.db, username)
	if err != nil {
		log.Printf("Dashboard: failed to fetch todos for %s: %v", username, err)
		todos = nil
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todoList":      todos,
		"notifications": notifications,
		"templates":     outreachTemplates,
	})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID    string `json:"taskId"`
		Completed bool   `json:"completed"`
		Username  string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	id, err := uuid.Parse(req.TaskID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := db.SetTodoCompleted(s.db, req.Username, id, req.Completed); err != nil {
		storeError(w, "update-task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Username and description are required")
		return
	}

	todo := &models.Todo{
		Owner:       req.Username,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if err := db.CreateTodo(s.db, todo); err != nil {
		storeError(w, "add-todo", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"todo":    todo,
	})
}

func (s *Server) handleUpdateDecay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	updated, err := db.RecomputeDecayAll(s.db, req.Username, time.Now())
	if err != nil {
		storeError(w, "update-decay", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": updated,
	})
}
