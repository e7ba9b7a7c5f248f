// ABOUTME: Relationship decay engine
// ABOUTME: Derives notification tiers and suggested actions from staleness
package decay

import (
	"fmt"
	"time"

	"github.com/harperreed/rolodex/models"
)

// Tier is the notification severity for one contact.
type Tier string

const (
	TierReconnect Tier = "reconnect"
	TierFollowUp  Tier = "follow-up"
	TierNurture   Tier = "nurture"
	TierNone      Tier = "none"
)

// Thresholds, in whole days since the last interaction.
const (
	reconnectDays = 30
	followUpDays  = 14
	nurtureDays   = 7

	// Below this y-factor a relationship is reconnect-tier regardless of
	// recency.
	reconnectYFloor = 0.3
)

// Notification is one decay-derived alert for the dashboard.
type Notification struct {
	ContactID  string `json:"contact_id"`
	Type       Tier   `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// TierFor selects the notification tier for a contact. Exactly one tier
// applies; evaluation is first-match in descending severity.
func TierFor(c *models.Contact, now time.Time) Tier {
	days := c.DaysSince(now)

	switch {
	case days > reconnectDays || c.YFactorDecay < reconnectYFloor:
		return TierReconnect
	case days > followUpDays:
		return TierFollowUp
	case days > nurtureDays:
		return TierNurture
	default:
		return TierNone
	}
}

// ReminderDescription is the canonical reconnect to-do text. Idempotent
// reminder creation keys on this exact string per owner.
func ReminderDescription(c *models.Contact) string {
	return fmt.Sprintf("Reconnect with %s", c.Name)
}

// Evaluate converts one contact snapshot into a notification, or nil when
// the contact is fresh. Pure: the reconnect tier's reminder side effect
// belongs to the caller.
func Evaluate(c *models.Contact, now time.Time) *Notification {
	tier := TierFor(c, now)
	if tier == TierNone {
		return nil
	}

	days := c.DaysSince(now)
	n := &Notification{ContactID: c.ID.String(), Type: tier}

	switch tier {
	case TierReconnect:
		n.Message = fmt.Sprintf("Your relationship with %s is fading (%d days since last contact)", c.Name, days)
		n.Suggestion = reconnectSuggestion(c)
	case TierFollowUp:
		n.Message = fmt.Sprintf("Time to follow up with %s (%d days since last contact)", c.Name, days)
		n.Suggestion = fmt.Sprintf("Send %s a quick note about how things have progressed since you spoke.", c.Name)
	case TierNurture:
		n.Message = fmt.Sprintf("Keep the momentum with %s (%d days since last contact)", c.Name, days)
		n.Suggestion = fmt.Sprintf("Share something relevant with %s to stay on their radar.", c.Name)
	}

	return n
}

// reconnectSuggestion interpolates the contact's last-known meeting context.
func reconnectSuggestion(c *models.Contact) string {
	switch {
	case c.WhereMet != "" && c.ConversationSummary != "":
		return fmt.Sprintf("Reach out to %s and mention meeting at %s — you talked about: %s", c.Name, c.WhereMet, c.ConversationSummary)
	case c.WhereMet != "":
		return fmt.Sprintf("Reach out to %s and mention meeting at %s.", c.Name, c.WhereMet)
	default:
		return fmt.Sprintf("Reach out to %s and pick up where you left off.", c.Name)
	}
}
