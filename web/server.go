// ABOUTME: JSON API server and routing
// ABOUTME: Wires the chi router over the store and the LLM collaborator
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/intake"
	"github.com/harperreed/rolodex/llm"
)

type Server struct {
	db     *sql.DB
	llm    llm.Client
	router chi.Router
}

func NewServer(database *sql.DB, client llm.Client) *Server {
	s := &Server{
		db:  database,
		llm: client,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting API server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		// Intake + contacts
		r.Post("/add-contact-ai", s.handleAddContactAI)
		r.Post("/save-contact", s.handleSaveContact)
		r.Get("/contacts", s.handleListContacts)
		r.Post("/contacts/update", s.handleUpdateContact)
		r.Post("/contacts/ai-update", s.handleAIUpdateContact)
		r.Delete("/contacts/delete/{id}", s.handleDeleteContact)
		r.Get("/contacts/timeline/{id}", s.handleTimeline)

		// Dashboard + todos
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/update-task", s.handleUpdateTask)
		r.Post("/add-todo", s.handleAddTodo)
		r.Post("/update-decay", s.handleUpdateDecay)

		// Chat passthrough
		r.Post("/chat", s.handleChat)
		r.Get("/chat/{username}", s.handleChatHistory)
	})

	s.router = r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// storeError maps store failures onto the error taxonomy: zero-row
// owner-scoped mutations are 404 "not found or unauthorized", everything
// else is a logged 500.
func storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Contact not found or unauthorized")
		return
	}
	log.Printf("Store error in %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "A database error occurred")
}

// collaboratorError maps LM failures: schema violations are 502 with the
// raw text surfaced, transport failures are 500.
func collaboratorError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, intake.ErrMalformedResponse) {
		log.Printf("Malformed AI response in %s: %v", op, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	log.Printf("AI collaborator error in %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "An error occurred while processing your request")
}
