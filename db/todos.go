// ABOUTME: To-do database operations
// ABOUTME: Handles owner-scoped todo CRUD and idempotent reminder creation
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
)

func CreateTodo(db *sql.DB, todo *models.Todo) error {
	todo.ID = uuid.New()
	todo.CreatedAt = time.Now()
	if todo.Priority == "" {
		todo.Priority = models.PriorityLow
	}

	var contactID *string
	if todo.ContactID != nil {
		s := todo.ContactID.String()
		contactID = &s
	}

	_, err := db.Exec(`
		INSERT INTO todos (id, owner, description, priority, completed, contact_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, todo.ID.String(), todo.Owner, todo.Description, todo.Priority,
		todo.Completed, contactID, todo.CreatedAt)

	return err
}

// CreateReminderTodo inserts an open reminder unless one with the same
// description is already open for this owner. The partial unique index on
// (owner, description) makes the insert itself the idempotency check, so
// two concurrent dashboard refreshes cannot double-insert. Returns true if
// a new reminder was created.
func CreateReminderTodo(db *sql.DB, owner, description string, contactID uuid.UUID) (bool, error) {
	cid := contactID.String()
	res, err := db.Exec(`
		INSERT OR IGNORE INTO todos (id, owner, description, priority, completed, contact_id, created_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, uuid.New().String(), owner, description, models.PriorityHigh, cid, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListTodos returns an owner's todos, open items first, newest first within
// each group.
func ListTodos(db *sql.DB, owner string) ([]models.Todo, error) {
	rows, err := db.Query(`
		SELECT id, owner, description, priority, completed, contact_id, created_at
		FROM todos
		WHERE owner = ?
		ORDER BY completed ASC, created_at DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		var id string
		var contactID sql.NullString
		err := rows.Scan(&id, &t.Owner, &t.Description, &t.Priority,
			&t.Completed, &contactID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		t.ID, _ = uuid.Parse(id)
		if contactID.Valid {
			cid, err := uuid.Parse(contactID.String)
			if err == nil {
				t.ContactID = &cid
			}
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

// SetTodoCompleted flips one owner-scoped todo.
func SetTodoCompleted(db *sql.DB, owner string, id uuid.UUID, completed bool) error {
	res, err := db.Exec(`
		UPDATE todos SET completed = ? WHERE id = ? AND owner = ?
	`, completed, id.String(), owner)
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
