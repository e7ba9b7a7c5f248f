// ABOUTME: Interaction log database operations
// ABOUTME: Handles append-only interaction snapshots, timelines, and atomic saves
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
)

// AppendInteraction records one immutable interaction snapshot.
func AppendInteraction(db *sql.DB, interaction *models.ContactInteraction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.InteractionDate.IsZero() {
		interaction.InteractionDate = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO contact_interactions (
			id, contact_id, owner, interaction_date,
			conversation_summary, person_details, x_score, contact_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, interaction.ID.String(), interaction.ContactID.String(), interaction.Owner,
		interaction.InteractionDate, interaction.ConversationSummary,
		interaction.PersonDetails, interaction.XScore, interaction.ContactType)

	return err
}

// SaveContactWithInteraction inserts a new contact and its initial
// interaction snapshot in a single transaction. Either both rows land or
// neither does.
func SaveContactWithInteraction(db *sql.DB, contact *models.Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	if contact.LastInteractionDate.IsZero() {
		contact.LastInteractionDate = contact.CreatedAt
	}
	if contact.XScoreScheme == "" {
		contact.XScoreScheme = models.ScoringSchemeWeighted100
	}
	contact.ContactType = models.NormalizeContactType(contact.ContactType)

	_, err = tx.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Owner, contact.Name, contact.HowMet, contact.WhereMet,
		contact.ConversationSummary, contact.PersonDetails, contact.XScore, contact.XScoreScheme,
		contact.YFactorDecay, contact.LastInteractionDate, contact.ContactType, contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO contact_interactions (
			id, contact_id, owner, interaction_date,
			conversation_summary, person_details, x_score, contact_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), contact.ID.String(), contact.Owner, contact.LastInteractionDate,
		contact.ConversationSummary, contact.PersonDetails, contact.XScore, contact.ContactType)
	if err != nil {
		return fmt.Errorf("failed to insert initial interaction: %w", err)
	}

	return tx.Commit()
}

// GetTimeline retrieves a contact's interaction history, newest first.
// Returns ErrNotFound when the contact does not exist for this owner.
func GetTimeline(db *sql.DB, owner string, contactID uuid.UUID) ([]models.ContactInteraction, error) {
	contact, err := GetContact(db, owner, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	rows, err := db.Query(`
		SELECT id, contact_id, owner, interaction_date,
		       conversation_summary, person_details, x_score, contact_type
		FROM contact_interactions
		WHERE contact_id = ? AND owner = ?
		ORDER BY interaction_date DESC
	`, contactID.String(), owner)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var timeline []models.ContactInteraction
	for rows.Next() {
		var i models.ContactInteraction
		var id, cid string
		err := rows.Scan(&id, &cid, &i.Owner, &i.InteractionDate,
			&i.ConversationSummary, &i.PersonDetails, &i.XScore, &i.ContactType)
		if err != nil {
			return nil, err
		}
		i.ID, _ = uuid.Parse(id)
		i.ContactID, _ = uuid.Parse(cid)
		timeline = append(timeline, i)
	}

	return timeline, rows.Err()
}
