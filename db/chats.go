// ABOUTME: Chat history database operations
// ABOUTME: Persists assistant exchanges per username for history replay
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
)

func SaveChat(db *sql.DB, chat *models.Chat) error {
	chat.ID = uuid.New()
	if chat.Timestamp.IsZero() {
		chat.Timestamp = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO chats (id, username, message, response, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, chat.ID.String(), chat.Username, chat.Message, chat.Response, chat.Timestamp)

	return err
}

// GetChatHistory returns the most recent exchanges for a username,
// newest first.
func GetChatHistory(db *sql.DB, username string, limit int) ([]models.Chat, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, username, message, response, timestamp
		FROM chats
		WHERE username = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, username, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var chats []models.Chat
	for rows.Next() {
		var c models.Chat
		var id string
		if err := rows.Scan(&id, &c.Username, &c.Message, &c.Response, &c.Timestamp); err != nil {
			return nil, err
		}
		c.ID, _ = uuid.Parse(id)
		chats = append(chats, c)
	}

	return chats, rows.Err()
}
