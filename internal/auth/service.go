package auth

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/database"
	"noteboard-backend/internal/models"
)

// Service handles authentication logic
type Service struct {
	userRepo *database.UserRepo
	sessions *SessionManager
}

// NewService creates a new auth service
func NewService() *Service {
	return &Service{
		userRepo: database.NewUserRepo(),
		sessions: NewSessionManager(),
	}
}

// Register creates a new account. Checks run in a fixed order and
// short-circuit on the first violated rule, so callers always see exactly one
// message. Registration does not log the user in; the credentials must come
// back through Login before a session is bound.
func (s *Service) Register(username, password string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Message: "Username is required."}
	}
	if password == "" {
		return nil, &ValidationError{Message: "Password is required."}
	}

	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{Message: fmt.Sprintf("User %s is already registered.", username)}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		// The pre-check races against concurrent inserts; the UNIQUE
		// constraint on username is the authority.
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return nil, &ConflictError{Message: fmt.Sprintf("User %s is already registered.", username)}
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and binds the request's session to the user.
// The session is cleared before binding so no prior identity lingers into
// the new login.
func (s *Service) Login(c echo.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, &AuthenticationError{Message: "Incorrect username."}
		}
		return nil, err
	}

	valid, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, &AuthenticationError{Message: "Incorrect password."}
	}

	session, err := s.sessions.Current(c)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Clear(session); err != nil {
		return nil, err
	}
	if err := s.sessions.Bind(session, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout resets the request's session to anonymous
func (s *Service) Logout(c echo.Context) error {
	session, err := s.sessions.Current(c)
	if err != nil {
		return err
	}
	return s.sessions.Destroy(session)
}

// ResolveIdentity builds the per-request identity snapshot from the session.
// A nil user_id means anonymous; a user_id whose user no longer exists also
// degrades to anonymous rather than erroring.
func (s *Service) ResolveIdentity(c echo.Context) (models.Identity, error) {
	session, err := s.sessions.Current(c)
	if err != nil {
		return models.Anonymous(), err
	}

	if session.UserID == nil {
		return models.Anonymous(), nil
	}

	user, err := s.userRepo.GetByID(*session.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return models.Anonymous(), nil
		}
		return models.Anonymous(), err
	}

	return models.Authenticated(user), nil
}
