// ABOUTME: AI-guided contact intake state machine
// ABOUTME: Merges extracted fields per turn and decides readiness to persist
package intake

import (
	"context"
	"fmt"

	"github.com/harperreed/rolodex/llm"
	"github.com/harperreed/rolodex/models"
)

// MaxQuestions caps the clarifying-question loop. Once the counter reaches
// the cap, readiness is forced regardless of missing fields.
const MaxQuestions = 3

// finalQuestionNote is appended to the third clarifying question so the
// caller knows the interrogation ends here.
const finalQuestionNote = "\n\nNote: this is my final question. After your reply you can save the contact; anything still missing will use sensible defaults."

// RequiredFields must all be present before a session is naturally ready.
var RequiredFields = []string{"name", "how_met", "where_met", "conversation_summary"}

// TurnRequest carries one conversation turn. Collected is the caller-held
// accumulation from prior turns; the server keeps no session state.
type TurnRequest struct {
	Message       string
	Collected     map[string]any
	QuestionCount int
}

// TurnResult is the advanced session state after one turn.
type TurnResult struct {
	AIResponse     string
	Collected      map[string]any
	ReadyToSave    bool
	MissingFields  []string
	QuestionCount  int
	XScoreAssigned bool
}

// Turn runs one intake turn: delegate extraction to the collaborator, merge
// what came back, and decide readiness. A malformed collaborator response
// returns an error wrapping ErrMalformedResponse and advances nothing.
func Turn(ctx context.Context, client llm.Client, req TurnRequest) (*TurnResult, error) {
	prompt := llm.IntakePrompt(req.Message, req.Collected)

	resp, err := client.Complete(ctx, llm.IntakeSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm intake: %w", err)
	}

	payload, err := parseTurn(resp.Content)
	if err != nil {
		return nil, err
	}

	merged := Merge(req.Collected, payload.Extracted)
	missing := MissingRequired(merged)

	// The collaborator's readyToSave is advisory; readiness derives from
	// the merged data so a confused model cannot strand the session.
	ready := len(missing) == 0

	response := payload.AIResponse
	count := 0
	if !ready {
		if req.QuestionCount >= MaxQuestions {
			// Hard cap reached on a prior turn: force readiness, reset.
			ready = true
		} else {
			count = req.QuestionCount + 1
			if count == MaxQuestions {
				response += finalQuestionNote
			}
		}
	}

	_, scorePresent := merged["x_score"]

	return &TurnResult{
		AIResponse:     response,
		Collected:      merged,
		ReadyToSave:    ready,
		MissingFields:  missing,
		QuestionCount:  count,
		XScoreAssigned: payload.XScoreAssigned || scorePresent,
	}, nil
}

// Merge overlays newly extracted values onto the collected map. New non-null,
// non-empty values overwrite; previously collected fields are never dropped.
func Merge(collected, extracted map[string]any) map[string]any {
	merged := make(map[string]any, len(collected)+len(extracted))
	for k, v := range collected {
		merged[k] = v
	}
	for k, v := range extracted {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// MissingRequired lists required fields absent from the map, in canonical
// order.
func MissingRequired(data map[string]any) []string {
	var missing []string
	for _, field := range RequiredFields {
		v, ok := data[field]
		if !ok || v == nil {
			missing = append(missing, field)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// DraftContact materializes a contact from accumulated intake data,
// substituting defaults for anything the conversation never produced.
func DraftContact(owner string, data map[string]any) *models.Contact {
	c := &models.Contact{
		Owner:        owner,
		Name:         stringField(data, "name", "Unnamed contact"),
		HowMet:       stringField(data, "how_met", "Not specified"),
		WhereMet:     stringField(data, "where_met", "Not specified"),
		XScore:       50,
		XScoreScheme: models.ScoringSchemeWeighted100,
		YFactorDecay: 1.0,
		ContactType:  models.NormalizeContactType(stringField(data, "contact_type", models.TypeOther)),
	}
	c.ConversationSummary = stringField(data, "conversation_summary", "Not specified")
	c.PersonDetails = stringField(data, "person_details", "")

	if score, ok := intField(data, "x_score"); ok {
		c.XScore = models.ClampXScore(score)
	}

	return c
}

func stringField(data map[string]any, key, fallback string) string {
	if v, ok := data[key]; ok {
		if s, isStr := v.(string); isStr && s != "" {
			return s
		}
	}
	return fallback
}

func intField(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
