package database

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"noteboard-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepo handles session database operations
type SessionRepo struct{}

// NewSessionRepo creates a new session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{}
}

// Create creates a new anonymous session and returns the plain token
func (r *SessionRepo) Create() (string, *models.Session, error) {
	// Generate random token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Hash the token for storage
	tokenHash := hashToken(token)

	now := time.Now()
	session := &models.Session{
		TokenHash: tokenHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := DB.Exec(`
		INSERT INTO sessions (token_hash, created_at, updated_at)
		VALUES (?, ?, ?)
	`, session.TokenHash, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return "", nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", nil, err
	}
	session.ID = id

	return token, session, nil
}

// GetByToken retrieves a session by its plain token
func (r *SessionRepo) GetByToken(token string) (*models.Session, error) {
	session := &models.Session{}
	var userID sql.NullInt64

	err := DB.QueryRow(`
		SELECT id, token_hash, user_id, created_at, updated_at
		FROM sessions WHERE token_hash = ?
	`, hashToken(token)).Scan(
		&session.ID, &session.TokenHash, &userID,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		session.UserID = &userID.Int64
	}

	return session, nil
}

// BindUser associates a session with a user
func (r *SessionRepo) BindUser(id, userID int64) error {
	result, err := DB.Exec(
		"UPDATE sessions SET user_id = ?, updated_at = ? WHERE id = ?",
		userID, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// ClearUser resets a session to anonymous. The token stays valid and keeps
// resolving to the same (now anonymous) session.
func (r *SessionRepo) ClearUser(id int64) error {
	result, err := DB.Exec(
		"UPDATE sessions SET user_id = NULL, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete deletes a session by ID
func (r *SessionRepo) Delete(id int64) error {
	_, err := DB.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
