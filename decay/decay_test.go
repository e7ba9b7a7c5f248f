// ABOUTME: Tests for the decay engine
// ABOUTME: Covers tier selection, totality, and notification content
package decay

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rolodex/models"
)

func contactAgedDays(days int, yFactor float64) *models.Contact {
	return &models.Contact{
		ID:                  uuid.New(),
		Owner:               "ada",
		Name:                "Grace Hopper",
		WhereMet:            "Navy research symposium",
		ConversationSummary: "compilers and the future of programming",
		XScore:              50,
		YFactorDecay:        yFactor,
		LastInteractionDate: time.Now().AddDate(0, 0, -days),
	}
}

func TestTierSelection(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		days    int
		yFactor float64
		want    Tier
	}{
		{"fresh contact", 3, 0.9, TierNone},
		{"boundary seven days", 7, 0.9, TierNone},
		{"nurture band", 10, 0.9, TierNurture},
		{"boundary fourteen days", 14, 0.9, TierNurture},
		{"follow-up band", 20, 0.9, TierFollowUp},
		{"boundary thirty days", 30, 0.9, TierFollowUp},
		{"stale by days", 45, 0.5, TierReconnect},
		{"stale by y-factor alone", 2, 0.2, TierReconnect},
		{"y-factor boundary stays fresh", 2, 0.3, TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contactAgedDays(tt.days, tt.yFactor)
			assert.Equal(t, tt.want, TierFor(c, now))
		})
	}
}

// Tier selection must be total and mutually exclusive: every (days, y)
// combination lands on exactly one tier.
func TestTierTotality(t *testing.T) {
	now := time.Now()

	for days := 0; days <= 60; days += 3 {
		for _, y := range []float64{0.0, 0.2, 0.3, 0.5, 1.0} {
			tier := TierFor(contactAgedDays(days, y), now)
			assert.Contains(t, []Tier{TierReconnect, TierFollowUp, TierNurture, TierNone}, tier)
		}
	}
}

func TestEvaluateReconnect(t *testing.T) {
	// Scenario A: 45 days ago, x=50, y=0.5 → reconnect.
	c := contactAgedDays(45, 0.5)
	n := Evaluate(c, time.Now())

	require.NotNil(t, n)
	assert.Equal(t, TierReconnect, n.Type)
	assert.Contains(t, n.Message, "Grace Hopper")
	assert.Contains(t, n.Message, "45 days")
	assert.Contains(t, n.Suggestion, "Navy research symposium")
	assert.Contains(t, n.Suggestion, "compilers")
	assert.Equal(t, "Reconnect with Grace Hopper", ReminderDescription(c))
}

func TestEvaluateNurture(t *testing.T) {
	// Scenario B: 10 days ago, y=0.9 → nurture.
	n := Evaluate(contactAgedDays(10, 0.9), time.Now())

	require.NotNil(t, n)
	assert.Equal(t, TierNurture, n.Type)
}

func TestEvaluateFresh(t *testing.T) {
	assert.Nil(t, Evaluate(contactAgedDays(2, 1.0), time.Now()))
}

func TestReconnectSuggestionWithoutContext(t *testing.T) {
	c := contactAgedDays(45, 0.5)
	c.WhereMet = ""
	c.ConversationSummary = ""

	n := Evaluate(c, time.Now())
	require.NotNil(t, n)
	assert.Contains(t, n.Suggestion, "Grace Hopper")
}
