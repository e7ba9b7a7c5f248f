// ABOUTME: Contact database operations
// ABOUTME: Handles owner-scoped CRUD, decay persistence, and cascade deletes
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
)

// ErrNotFound is returned when an owner-scoped lookup matches zero rows.
// The owner filter doubles as a coarse access check, so a wrong owner and a
// missing row are deliberately indistinguishable.
var ErrNotFound = errors.New("contact not found or unauthorized")

const contactColumns = `id, owner, name, how_met, where_met, conversation_summary, person_details,
	x_score, x_score_scheme, y_factor_decay, last_interaction_date, contact_type, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var id string
	err := row.Scan(
		&id,
		&c.Owner,
		&c.Name,
		&c.HowMet,
		&c.WhereMet,
		&c.ConversationSummary,
		&c.PersonDetails,
		&c.XScore,
		&c.XScoreScheme,
		&c.YFactorDecay,
		&c.LastInteractionDate,
		&c.ContactType,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	return c, nil
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	if contact.LastInteractionDate.IsZero() {
		contact.LastInteractionDate = contact.CreatedAt
	}
	if contact.XScoreScheme == "" {
		contact.XScoreScheme = models.ScoringSchemeWeighted100
	}
	contact.ContactType = models.NormalizeContactType(contact.ContactType)

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Owner, contact.Name, contact.HowMet, contact.WhereMet,
		contact.ConversationSummary, contact.PersonDetails, contact.XScore, contact.XScoreScheme,
		contact.YFactorDecay, contact.LastInteractionDate, contact.ContactType, contact.CreatedAt)

	return err
}

func GetContact(db *sql.DB, owner string, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`
		SELECT `+contactColumns+`
		FROM contacts WHERE id = ? AND owner = ?
	`, id.String(), owner)

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns every contact belonging to an owner, newest first.
func ListContacts(db *sql.DB, owner string) ([]models.Contact, error) {
	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE owner = ?
		ORDER BY created_at DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

// UpdateContact applies a partial field map to one owner-scoped contact.
// Unknown keys are ignored; zero rows affected reports ErrNotFound.
func UpdateContact(db *sql.DB, owner string, id uuid.UUID, updates map[string]any) error {
	allowed := map[string]bool{
		"name": true, "how_met": true, "where_met": true,
		"conversation_summary": true, "person_details": true,
		"x_score": true, "y_factor_decay": true,
		"last_interaction_date": true, "contact_type": true,
	}

	setClause := ""
	var args []any
	for _, col := range []string{
		"name", "how_met", "where_met", "conversation_summary", "person_details",
		"x_score", "y_factor_decay", "last_interaction_date", "contact_type",
	} {
		val, ok := updates[col]
		if !ok || !allowed[col] {
			continue
		}
		if col == "contact_type" {
			if s, isStr := val.(string); isStr {
				val = models.NormalizeContactType(s)
			}
		}
		if setClause != "" {
			setClause += ", "
		}
		setClause += col + " = ?"
		args = append(args, val)
	}
	if setClause == "" {
		return fmt.Errorf("no updatable fields supplied")
	}

	args = append(args, id.String(), owner)
	res, err := db.Exec(`UPDATE contacts SET `+setClause+` WHERE id = ? AND owner = ?`, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact and all of its interactions in one
// transaction. The interaction delete is explicit rather than relying on
// the cascade so the owner filter applies to both tables.
func DeleteContact(db *sql.DB, owner string, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`DELETE FROM contact_interactions WHERE contact_id = ? AND owner = ?`,
		id.String(), owner)
	if err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM contacts WHERE id = ? AND owner = ?`, id.String(), owner)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// TouchContact refreshes the interaction clock after a reconnection: the
// last-interaction date moves to now and the y-factor resets to fresh.
func TouchContact(db *sql.DB, owner string, id uuid.UUID, now time.Time) error {
	res, err := db.Exec(`
		UPDATE contacts
		SET last_interaction_date = ?, y_factor_decay = 1.0
		WHERE id = ? AND owner = ?
	`, now, id.String(), owner)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecomputeDecayAll recomputes y_factor_decay for every contact of an owner
// and persists the result. Returns the number of contacts updated.
func RecomputeDecayAll(db *sql.DB, owner string, now time.Time) (int, error) {
	contacts, err := ListContacts(db, owner)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range contacts {
		c := &contacts[i]
		newY := c.RecomputeYFactor(now)
		if newY == c.YFactorDecay {
			continue
		}
		_, err := db.Exec(`
			UPDATE contacts SET y_factor_decay = ? WHERE id = ? AND owner = ?
		`, newY, c.ID.String(), owner)
		if err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}
