// ABOUTME: HTTP API tests over the chi router
// ABOUTME: Exercises the endpoint contracts with a mock LLM collaborator
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/llm"
	"github.com/harperreed/rolodex/models"
)

func setupTestServer(t *testing.T, mock *llm.MockClient) *Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.OpenDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	if mock == nil {
		mock = &llm.MockClient{}
	}
	return NewServer(database, mock)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func seedContact(t *testing.T, s *Server, owner, name string, daysAgo int, yFactor float64) *models.Contact {
	t.Helper()
	contact := &models.Contact{
		Owner:               owner,
		Name:                name,
		HowMet:              "conference intro",
		WhereMet:            "Demo Day",
		ConversationSummary: "seed round timing",
		XScore:              50,
		YFactorDecay:        yFactor,
		LastInteractionDate: time.Now().AddDate(0, 0, -daysAgo),
		ContactType:         models.TypeInvestor,
	}
	require.NoError(t, db.SaveContactWithInteraction(s.db, contact))
	return contact
}

func TestAddContactAITurn(t *testing.T) {
	mock := &llm.MockClient{Responses: []*llm.Response{{
		Provider: "mock",
		Content: `{"aiResponse": "What is their name?",
			"extractedData": {"how_met": "met at a hackathon"},
			"readyToSave": false,
			"missingFields": ["name", "where_met", "conversation_summary"],
			"xScoreAssigned": false}`,
	}}}
	s := setupTestServer(t, mock)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/add-contact-ai", map[string]any{
		"username":             "ada",
		"message":              "met someone at a hackathon",
		"collectedContactData": map[string]any{},
		"questionCount":        0,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, false, payload["readyToSave"])
	assert.Equal(t, float64(1), payload["questionCount"])
	extracted := payload["extractedData"].(map[string]any)
	assert.Equal(t, "met at a hackathon", extracted["how_met"])
}

func TestAddContactAIMalformed(t *testing.T) {
	mock := &llm.MockClient{Responses: []*llm.Response{{
		Provider: "mock",
		Content:  "I could not produce JSON today, sorry.",
	}}}
	s := setupTestServer(t, mock)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/add-contact-ai", map[string]any{
		"username": "ada",
		"message":  "met someone",
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "could not produce JSON", "raw text surfaced")
}

func TestAddContactAIValidation(t *testing.T) {
	s := setupTestServer(t, nil)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/add-contact-ai", map[string]any{
		"username": "ada",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveContactAndList(t *testing.T) {
	s := setupTestServer(t, nil)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/save-contact", map[string]any{
		"username": "ada",
		"contactData": map[string]any{
			"name":      "Grace Hopper",
			"how_met":   "navy symposium",
			"where_met": "DC",
			"x_score":   80,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	contact := payload["contact"].(map[string]any)
	assert.Equal(t, "Grace Hopper", contact["name"])
	assert.Equal(t, "Not specified", contact["conversation_summary"], "defaults substituted")

	rec, payload = doJSON(t, s, http.MethodGet, "/api/contacts?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := payload["contacts"].([]any)
	require.Len(t, contacts, 1)

	// Save also writes the initial interaction.
	id := contact["id"].(string)
	rec, payload = doJSON(t, s, http.MethodGet, "/api/contacts/timeline/"+id+"?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	timeline := payload["timeline"].([]any)
	assert.Len(t, timeline, 1)
}

func TestUpdateContactOwnerScoping(t *testing.T) {
	s := setupTestServer(t, nil)
	contact := seedContact(t, s, "ada", "Grace Hopper", 1, 1.0)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/contacts/update", map[string]any{
		"id":          contact.ID.String(),
		"username":    "mallory",
		"updatedData": map[string]any{"x_score": 1},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/contacts/update", map[string]any{
		"id":          contact.ID.String(),
		"username":    "ada",
		"updatedData": map[string]any{"x_score": 90},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteContactAndTimelineGone(t *testing.T) {
	s := setupTestServer(t, nil)
	contact := seedContact(t, s, "ada", "Grace Hopper", 1, 1.0)
	id := contact.ID.String()

	rec, _ := doJSON(t, s, http.MethodDelete, "/api/contacts/delete/"+id+"?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, s, http.MethodGet, "/api/contacts/timeline/"+id+"?username=ada", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, s, http.MethodDelete, "/api/contacts/delete/"+id+"?username=ada", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "second delete finds nothing")
}

func TestAIUpdateReconnection(t *testing.T) {
	mock := &llm.MockClient{Responses: []*llm.Response{{
		Provider: "mock",
		Content: `{"message": "Updated after your coffee chat.",
			"x_score": 75,
			"conversation_summary": "caught up over coffee about the new fund"}`,
	}}}
	s := setupTestServer(t, mock)
	contact := seedContact(t, s, "ada", "Grace Hopper", 40, 0.4)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/contacts/ai-update", map[string]any{
		"id":         contact.ID.String(),
		"username":   "ada",
		"prompt":     "had coffee with Grace yesterday, talked about her new fund",
		"updateType": "reconnection",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Updated after your coffee chat.", payload["message"])

	got, err := db.GetContact(s.db, "ada", contact.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, got.XScore)
	assert.Equal(t, 1.0, got.YFactorDecay, "reconnection resets freshness")
	assert.WithinDuration(t, time.Now(), got.LastInteractionDate, 5*time.Second)

	timeline, err := db.GetTimeline(s.db, "ada", contact.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 2, "reconnection appends an interaction")
	assert.Equal(t, 75, timeline[0].XScore)
}

func TestAIUpdateDetailsChange(t *testing.T) {
	mock := &llm.MockClient{Responses: []*llm.Response{{
		Provider: "mock",
		Content:  `{"message": "Corrected where you met.", "where_met": "Lisbon Web Summit"}`,
	}}}
	s := setupTestServer(t, mock)
	contact := seedContact(t, s, "ada", "Grace Hopper", 2, 1.0)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/contacts/ai-update", map[string]any{
		"id":         contact.ID.String(),
		"username":   "ada",
		"prompt":     "actually we met at Web Summit in Lisbon",
		"updateType": "details_change",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := db.GetContact(s.db, "ada", contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon Web Summit", got.WhereMet)

	timeline, err := db.GetTimeline(s.db, "ada", contact.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 1, "details change is not an interaction")
}

func TestAIUpdateRejectsUnknownType(t *testing.T) {
	s := setupTestServer(t, nil)
	contact := seedContact(t, s, "ada", "Grace Hopper", 2, 1.0)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/contacts/ai-update", map[string]any{
		"id":         contact.ID.String(),
		"username":   "ada",
		"prompt":     "rescore please",
		"updateType": "full_rewrite",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardReconnectReminderIdempotent(t *testing.T) {
	s := setupTestServer(t, nil)
	// Scenario A: 45 days stale → reconnect tier, reminder created.
	seedContact(t, s, "ada", "Grace Hopper", 45, 0.5)

	rec, payload := doJSON(t, s, http.MethodGet, "/api/dashboard?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	notifications := payload["notifications"].([]any)
	require.Len(t, notifications, 1)
	n := notifications[0].(map[string]any)
	assert.Equal(t, "reconnect", n["type"])

	todoList := payload["todoList"].([]any)
	require.Len(t, todoList, 1)
	todo := todoList[0].(map[string]any)
	assert.Equal(t, "Reconnect with Grace Hopper", todo["description"])

	templates := payload["templates"].([]any)
	assert.Len(t, templates, 3)

	// Second refresh must not duplicate the reminder.
	_, payload = doJSON(t, s, http.MethodGet, "/api/dashboard?username=ada", nil)
	assert.Len(t, payload["todoList"].([]any), 1)
}

func TestDashboardNurtureNoReminder(t *testing.T) {
	s := setupTestServer(t, nil)
	// Scenario B: 10 days, y=0.9 → nurture, no to-do.
	seedContact(t, s, "ada", "Grace Hopper", 10, 0.9)

	rec, payload := doJSON(t, s, http.MethodGet, "/api/dashboard?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	notifications := payload["notifications"].([]any)
	require.Len(t, notifications, 1)
	assert.Equal(t, "nurture", notifications[0].(map[string]any)["type"])
	assert.Empty(t, payload["todoList"])
}

func TestTodoLifecycle(t *testing.T) {
	s := setupTestServer(t, nil)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/add-todo", map[string]any{
		"username":    "ada",
		"description": "Send the deck to Grace",
		"priority":    "medium",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	todo := payload["todo"].(map[string]any)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/update-task", map[string]any{
		"taskId":    todo["id"],
		"completed": true,
		"username":  "ada",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/update-task", map[string]any{
		"taskId":    todo["id"],
		"completed": true,
		"username":  "mallory",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDecayEndpoint(t *testing.T) {
	s := setupTestServer(t, nil)
	seedContact(t, s, "ada", "Stale", 20, 1.0)
	seedContact(t, s, "ada", "Fresh", 0, 1.0)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/update-decay", map[string]any{
		"username": "ada",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(1), payload["updated"])
}

func TestChatPassthroughAndHistory(t *testing.T) {
	mock := &llm.MockClient{Responses: []*llm.Response{{
		Provider: "mock",
		Content:  "Focus on talking to ten users this week.",
	}}}
	s := setupTestServer(t, mock)

	rec, payload := doJSON(t, s, http.MethodPost, "/api/chat", map[string]any{
		"username": "ada",
		"message":  "what should I focus on this week?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	response := payload["response"].(map[string]any)
	assert.Equal(t, "ai", response["type"])
	assert.Equal(t, "Focus on talking to ten users this week.", response["content"])

	rec, payload = doJSON(t, s, http.MethodGet, "/api/chat/ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := payload["chatHistory"].([]any)
	require.Len(t, history, 2, "one user entry and one ai entry")
	assert.Equal(t, "user", history[0].(map[string]any)["type"])
	assert.Equal(t, "ai", history[1].(map[string]any)["type"])
}

func TestChatValidation(t *testing.T) {
	s := setupTestServer(t, nil)
	rec, _ := doJSON(t, s, http.MethodPost, "/api/chat", map[string]any{"username": "ada"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntakeEndToEndForcedSave(t *testing.T) {
	// Three fruitless clarifying turns, then the cap forces readiness.
	turn := func(missing string) *llm.Response {
		return &llm.Response{Provider: "mock", Content: fmt.Sprintf(
			`{"aiResponse": "Could you share the %s?", "extractedData": {},
			"readyToSave": false, "missingFields": ["%s"], "xScoreAssigned": false}`,
			missing, missing)}
	}
	mock := &llm.MockClient{Responses: []*llm.Response{
		turn("name"), turn("name"), turn("name"), turn("name"),
	}}
	s := setupTestServer(t, mock)

	collected := map[string]any{"how_met": "event", "where_met": "Austin", "conversation_summary": "intros"}
	count := 0
	var payload map[string]any
	for i := 0; i < 4; i++ {
		var rec *httptest.ResponseRecorder
		rec, payload = doJSON(t, s, http.MethodPost, "/api/add-contact-ai", map[string]any{
			"username":             "ada",
			"message":              "I don't remember their name",
			"collectedContactData": collected,
			"questionCount":        count,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		count = int(payload["questionCount"].(float64))
		if payload["readyToSave"].(bool) {
			break
		}
	}

	assert.Equal(t, true, payload["readyToSave"], "question cap forces readiness")
	assert.Equal(t, 0, count, "counter resets once ready")
}
