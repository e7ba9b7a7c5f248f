// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, ContactInteraction, Todo, and Chat structs
package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoringSchemeWeighted100 is the canonical X-Score scheme: 0-100 total from
// three weighted categories (influence 40%, alignment 35%, engagement 25%).
// Persisted scores record the scheme that produced them so historical rows
// scored under other scales stay comparable.
const ScoringSchemeWeighted100 = "weighted-100"

type Contact struct {
	ID                  uuid.UUID `json:"id"`
	Owner               string    `json:"owner"`
	Name                string    `json:"name"`
	HowMet              string    `json:"how_met,omitempty"`
	WhereMet            string    `json:"where_met,omitempty"`
	ConversationSummary string    `json:"conversation_summary,omitempty"`
	PersonDetails       string    `json:"person_details,omitempty"`
	XScore              int       `json:"x_score"`
	XScoreScheme        string    `json:"x_score_scheme"`
	YFactorDecay        float64   `json:"y_factor_decay"`
	LastInteractionDate time.Time `json:"last_interaction_date"`
	ContactType         string    `json:"contact_type"`
	CreatedAt           time.Time `json:"created_at"`
}

// ContactInteraction is an append-only log entry, one per save or
// reconnection event. Rows are immutable once written.
type ContactInteraction struct {
	ID                  uuid.UUID `json:"id"`
	ContactID           uuid.UUID `json:"contact_id"`
	Owner               string    `json:"owner"`
	InteractionDate     time.Time `json:"interaction_date"`
	ConversationSummary string    `json:"conversation_summary,omitempty"`
	PersonDetails       string    `json:"person_details,omitempty"`
	XScore              int       `json:"x_score"`
	ContactType         string    `json:"contact_type"`
}

type Todo struct {
	ID          uuid.UUID  `json:"id"`
	Owner       string     `json:"owner"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Chat struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactType constants. Anything else normalizes to Other.
const (
	TypeInvestor     = "Investor"
	TypeVolunteer    = "Volunteer"
	TypeMentor       = "Mentor"
	TypeFoundingTeam = "Founding Team"
	TypeCollaborator = "Collaborator"
	TypeTechTeam     = "Tech Team"
	TypeOther        = "Other"
)

// ContactTypes lists the fixed enumeration in display order.
var ContactTypes = []string{
	TypeInvestor, TypeVolunteer, TypeMentor, TypeFoundingTeam,
	TypeCollaborator, TypeTechTeam, TypeOther,
}

// NormalizeContactType maps unknown or empty types to Other.
func NormalizeContactType(t string) string {
	for _, known := range ContactTypes {
		if t == known {
			return t
		}
	}
	return TypeOther
}

// Todo priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DaysSince returns whole days elapsed since the last interaction.
// Negative elapsed time (clock skew, future-dated rows) floors at 0.
func (c *Contact) DaysSince(now time.Time) int {
	days := int(now.Sub(c.LastInteractionDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// RecomputeYFactor returns the decayed y-factor as of now. Higher-scored
// contacts decay slower; the result never increases and never drops below 0.
func (c *Contact) RecomputeYFactor(now time.Time) float64 {
	rate := 0.01 * float64(100-c.XScore) / 100
	y := c.YFactorDecay - rate*float64(c.DaysSince(now))
	if y < 0 {
		return 0
	}
	return y
}

// ClampXScore bounds a score to the weighted-100 scale.
func ClampXScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
