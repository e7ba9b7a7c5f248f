// ABOUTME: Prompt builders for the contact intake, rescore, and chat flows
// ABOUTME: Each returns a fully rendered prompt string for Client.Complete
package llm

import (
	"encoding/json"
	"fmt"
)

// ChatSystem is the assistant preamble for the /api/chat passthrough.
const ChatSystem = "You are a helpful startup assistant. Provide concise, actionable advice."

// IntakeSystem frames the intake extraction role.
const IntakeSystem = "You are a contact-intake assistant for a founder's CRM. You extract structured relationship data from free-form notes and respond only with JSON."

// scoringRubric is the canonical weighted-100 X-Score rubric. The total is
// 0-100 from three weighted categories.
const scoringRubric = `X-Score rubric (0-100 total):
- Influence and reach (40%): seniority, network, capital access
- Mission alignment (35%): interest in the venture, shared goals
- Engagement quality (25%): depth of the conversation, concrete follow-ups offered
Only assign x_score when the notes carry enough signal; otherwise omit it.`

// IntakePrompt renders one intake turn. collected is the field map
// accumulated across prior turns, serialized for the model's context.
func IntakePrompt(message string, collected map[string]any) string {
	collectedJSON, err := json.Marshal(collected)
	if err != nil || len(collected) == 0 {
		collectedJSON = []byte("{}")
	}

	return fmt.Sprintf(`A user is describing a person they met. Extract contact fields from the new message, in light of what is already collected. Recognize semantic equivalents ("ran into her at the SF demo day" supplies where_met) rather than requiring exact phrasing.

ALREADY COLLECTED:
%s

NEW MESSAGE:
%s

Fields to extract when present: name, how_met, where_met, conversation_summary, person_details, x_score, contact_type.
contact_type is one of: Investor, Volunteer, Mentor, Founding Team, Collaborator, Tech Team, Other.

%s

The four required fields are: name, how_met, where_met, conversation_summary.
If any required field is still missing after this message, produce exactly one clarifying question about the single most critical missing field. If all four are present, acknowledge and confirm.

Return ONLY a JSON object, no other text:
{
  "aiResponse": "your reply or clarifying question",
  "extractedData": { "field": "value", ... },
  "readyToSave": true|false,
  "missingFields": ["field", ...],
  "xScoreAssigned": true|false
}`, collectedJSON, message, scoringRubric)
}

// ReconnectionPrompt renders a rescore request after the user reconnected
// with an existing contact.
func ReconnectionPrompt(contactJSON, userPrompt string) string {
	return fmt.Sprintf(`A user reconnected with an existing contact and describes the new interaction. Re-evaluate the contact's x_score and summarize the new interaction.

EXISTING CONTACT:
%s

NEW INTERACTION:
%s

%s

Return ONLY a JSON object, no other text:
{
  "message": "one-sentence summary of the update for the user",
  "x_score": 0-100,
  "conversation_summary": "updated summary folding in the new interaction",
  "person_details": "updated details, or the existing ones if unchanged"
}`, contactJSON, userPrompt, scoringRubric)
}

// DetailsChangePrompt renders a field-revision request that does not count
// as a new interaction.
func DetailsChangePrompt(contactJSON, userPrompt string) string {
	return fmt.Sprintf(`A user wants to revise stored details for an existing contact. Apply the requested changes to the stored fields. This is a correction, not a new interaction, so do not re-score unless the user explicitly asks.

EXISTING CONTACT:
%s

REQUESTED CHANGES:
%s

Return ONLY a JSON object, no other text. Include only fields that change:
{
  "message": "one-sentence summary of the update for the user",
  "name": "...", "how_met": "...", "where_met": "...",
  "conversation_summary": "...", "person_details": "...",
  "x_score": 0-100, "contact_type": "..."
}`, contactJSON, userPrompt)
}
