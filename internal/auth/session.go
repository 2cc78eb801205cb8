package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/database"
	"noteboard-backend/internal/models"
)

// SessionCookieName is the cookie carrying the opaque session token
const SessionCookieName = "session_token"

// ContextKeySession caches the resolved session for the request's duration,
// so session state changes are visible immediately to the same request
const ContextKeySession = "session"

// SessionManager resolves the request's server-side session from its client
// token, creating an anonymous session on first contact.
type SessionManager struct {
	sessionRepo *database.SessionRepo
}

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessionRepo: database.NewSessionRepo(),
	}
}

// Current returns the session for the request's token. A missing or unknown
// token yields a fresh anonymous session, and the cookie is set so later
// requests resolve to the same session.
func (m *SessionManager) Current(c echo.Context) (*models.Session, error) {
	if session, ok := c.Get(ContextKeySession).(*models.Session); ok {
		return session, nil
	}

	if token := getTokenFromRequest(c); token != "" {
		session, err := m.sessionRepo.GetByToken(token)
		if err == nil {
			c.Set(ContextKeySession, session)
			return session, nil
		}
		if !errors.Is(err, database.ErrSessionNotFound) {
			return nil, err
		}
	}

	token, session, err := m.sessionRepo.Create()
	if err != nil {
		return nil, err
	}
	m.setCookie(c, token)
	c.Set(ContextKeySession, session)

	return session, nil
}

// Clear resets a session to anonymous, discarding any prior identity binding.
// Must run before Bind on login so a stale identity never carries into the
// new one (session fixation guard).
func (m *SessionManager) Clear(session *models.Session) error {
	if err := m.sessionRepo.ClearUser(session.ID); err != nil {
		return err
	}
	session.UserID = nil
	return nil
}

// Bind associates a session with an authenticated user
func (m *SessionManager) Bind(session *models.Session, userID int64) error {
	if err := m.sessionRepo.BindUser(session.ID, userID); err != nil {
		return err
	}
	session.UserID = &userID
	return nil
}

// Destroy resets a session to anonymous. The token stays usable; a request
// reusing it after logout resolves to an anonymous identity.
func (m *SessionManager) Destroy(session *models.Session) error {
	return m.Clear(session)
}

func (m *SessionManager) setCookie(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil, // Secure if HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}

// getTokenFromRequest extracts the session token from the request
func getTokenFromRequest(c echo.Context) string {
	// Try Authorization header first (Bearer token)
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Try cookie
	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
