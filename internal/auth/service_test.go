package auth_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard-backend/internal/auth"
	"noteboard-backend/internal/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.Open(database.Config{Path: path}))
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
}

// newContext builds an echo context for a fresh inbound request, carrying any
// cookies collected from earlier responses.
func newContext(e *echo.Echo, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterValidationOrder(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()

	// Empty username wins over empty password
	_, err := svc.Register("", "")
	require.EqualError(t, err, "Username is required.")
	var validationErr *auth.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.Register("alice", "")
	require.EqualError(t, err, "Password is required.")
	assert.ErrorAs(t, err, &validationErr)
}

func TestRegisterAndDuplicate(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()

	user, err := svc.Register("alice", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	_, err = svc.Register("alice", "pw2")
	require.EqualError(t, err, "User alice is already registered.")
	var conflictErr *auth.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	_, err := svc.Register("alice", "pw1")
	require.NoError(t, err)

	c, _ := newContext(e)
	identity, err := svc.ResolveIdentity(c)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())
}

func TestLoginUnknownUsername(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	c, _ := newContext(e)
	_, err := svc.Login(c, "nobody", "pw")
	require.EqualError(t, err, "Incorrect username.")
	var authErr *auth.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestLoginWrongPasswordLeavesAnonymous(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	_, err := svc.Register("alice", "pw1")
	require.NoError(t, err)

	c, rec := newContext(e)
	_, err = svc.Login(c, "alice", "wrong")
	require.EqualError(t, err, "Incorrect password.")
	var authErr *auth.AuthenticationError
	assert.ErrorAs(t, err, &authErr)

	// Whatever session the request may have acquired stays anonymous
	c2, _ := newContext(e, rec.Result().Cookies()...)
	identity, err := svc.ResolveIdentity(c2)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())
}

func TestLoginSuccess(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	registered, err := svc.Register("alice", "pw1")
	require.NoError(t, err)

	c, rec := newContext(e)
	user, err := svc.Login(c, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// The session cookie from the login response authenticates later requests
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	c2, _ := newContext(e, cookies...)
	identity, err := svc.ResolveIdentity(c2)
	require.NoError(t, err)
	require.True(t, identity.IsAuthenticated())
	assert.Equal(t, "alice", identity.User.Username)
}

func TestLoginRebindsExistingSession(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	sessions := database.NewSessionRepo()
	e := echo.New()

	_, err := svc.Register("alice", "pw1")
	require.NoError(t, err)
	bob, err := svc.Register("bob", "pw2")
	require.NoError(t, err)

	c, rec := newContext(e)
	_, err = svc.Login(c, "alice", "pw1")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	token := cookies[0].Value

	before, err := sessions.GetByToken(token)
	require.NoError(t, err)

	// A second login on the same token clears the old binding first, then
	// binds the new user to the same session
	c2, _ := newContext(e, cookies...)
	_, err = svc.Login(c2, "bob", "pw2")
	require.NoError(t, err)

	after, err := sessions.GetByToken(token)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	require.NotNil(t, after.UserID)
	assert.Equal(t, bob.ID, *after.UserID)
}

func TestLogoutResetsToAnonymous(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	_, err := svc.Register("alice", "pw1")
	require.NoError(t, err)

	c, rec := newContext(e)
	_, err = svc.Login(c, "alice", "pw1")
	require.NoError(t, err)
	cookies := rec.Result().Cookies()

	c2, _ := newContext(e, cookies...)
	require.NoError(t, svc.Logout(c2))

	// Reusing the old token after logout yields an anonymous identity
	c3, _ := newContext(e, cookies...)
	identity, err := svc.ResolveIdentity(c3)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())
}

func TestResolveIdentityStaleUserDegrades(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	sessions := database.NewSessionRepo()
	e := echo.New()

	token, session, err := sessions.Create()
	require.NoError(t, err)
	// Dangling reference: no such user
	require.NoError(t, sessions.BindUser(session.ID, 9999))

	c, _ := newContext(e, &http.Cookie{Name: auth.SessionCookieName, Value: token})
	identity, err := svc.ResolveIdentity(c)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())
}

func TestResolveIdentityFirstContactCreatesSession(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	c, rec := newContext(e)
	identity, err := svc.ResolveIdentity(c)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())

	// An anonymous session was issued and its cookie set
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestResolveIdentityIdempotentWithinRequest(t *testing.T) {
	setupTestDB(t)
	svc := auth.NewService()
	e := echo.New()

	_, err := svc.Register("alice", "pw1")
	require.NoError(t, err)

	c, rec := newContext(e)
	_, err = svc.Login(c, "alice", "pw1")
	require.NoError(t, err)

	c2, _ := newContext(e, rec.Result().Cookies()...)
	first, err := svc.ResolveIdentity(c2)
	require.NoError(t, err)
	second, err := svc.ResolveIdentity(c2)
	require.NoError(t, err)
	assert.Equal(t, first.IsAuthenticated(), second.IsAuthenticated())
	assert.Equal(t, first.User.ID, second.User.ID)
}
