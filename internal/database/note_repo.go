package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"noteboard-backend/internal/models"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepo handles note database operations
type NoteRepo struct{}

// NewNoteRepo creates a new note repository
func NewNoteRepo() *NoteRepo {
	return &NoteRepo{}
}

// Create creates a new note
func (r *NoteRepo) Create(note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = time.Now()

	_, err := DB.Exec(`
		INSERT INTO notes (id, author_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, note.AuthorID, note.Title, note.Body, note.CreatedAt)
	return err
}

// GetByID retrieves a note by ID, including the author's username
func (r *NoteRepo) GetByID(id string) (*models.Note, error) {
	note := &models.Note{}

	err := DB.QueryRow(`
		SELECT n.id, n.author_id, u.username, n.title, n.body, n.created_at
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = ?
	`, id).Scan(&note.ID, &note.AuthorID, &note.Author, &note.Title, &note.Body, &note.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

// List returns all notes, newest first
func (r *NoteRepo) List() ([]*models.Note, error) {
	rows, err := DB.Query(`
		SELECT n.id, n.author_id, u.username, n.title, n.body, n.created_at
		FROM notes n
		JOIN users u ON u.id = n.author_id
		ORDER BY n.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		err := rows.Scan(&note.ID, &note.AuthorID, &note.Author, &note.Title, &note.Body, &note.CreatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Delete deletes a note by ID
func (r *NoteRepo) Delete(id string) error {
	result, err := DB.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}
