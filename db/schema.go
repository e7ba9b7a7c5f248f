// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	how_met TEXT,
	where_met TEXT,
	conversation_summary TEXT,
	person_details TEXT,
	x_score INTEGER NOT NULL DEFAULT 50,
	x_score_scheme TEXT NOT NULL DEFAULT 'weighted-100',
	y_factor_decay REAL NOT NULL DEFAULT 1.0,
	last_interaction_date DATETIME NOT NULL,
	contact_type TEXT NOT NULL DEFAULT 'Other' CHECK(contact_type IN ('Investor', 'Volunteer', 'Mentor', 'Founding Team', 'Collaborator', 'Tech Team', 'Other')),
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner);
CREATE INDEX IF NOT EXISTS idx_contacts_owner_type ON contacts(owner, contact_type);

CREATE TABLE IF NOT EXISTS contact_interactions (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	owner TEXT NOT NULL,
	interaction_date DATETIME NOT NULL,
	conversation_summary TEXT,
	person_details TEXT,
	x_score INTEGER NOT NULL DEFAULT 0,
	contact_type TEXT NOT NULL DEFAULT 'Other',
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_interactions_contact ON contact_interactions(contact_id, interaction_date DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_owner ON contact_interactions(owner);

CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	description TEXT NOT NULL,
	priority TEXT NOT NULL DEFAULT 'low' CHECK(priority IN ('low', 'medium', 'high')),
	completed INTEGER NOT NULL DEFAULT 0,
	contact_id TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner, completed);

-- One open reminder per (owner, description). Closes the check-then-insert
-- race between concurrent dashboard refreshes.
CREATE UNIQUE INDEX IF NOT EXISTS idx_todos_open_unique ON todos(owner, description) WHERE completed = 0;

CREATE TABLE IF NOT EXISTS chats (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	message TEXT NOT NULL,
	response TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chats_username_time ON chats(username, timestamp DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
