package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/repository"
	"github.com/avoskan/taskboard/internal/utils"
)

const (
	accessSecret  = "access-secret"
	refreshSecret = "refresh-secret"
)

// stubUserStore resolves a single fixed user by username or email.
type stubUserStore struct {
	user *model.User
}

func (s *stubUserStore) GetByID(context.Context, uint64) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (s *stubUserStore) GetByUsername(context.Context, string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (s *stubUserStore) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (s *stubUserStore) GetByUsernameOrEmail(_ context.Context, identifier string) (*model.User, error) {
	if s.user != nil && (identifier == s.user.Username || identifier == s.user.Email) {
		cp := *s.user
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}
func (s *stubUserStore) Create(context.Context, *model.User) error { return nil }
func (s *stubUserStore) UpdateLastLogin(context.Context, uint64, time.Time) error {
	return nil
}
func (s *stubUserStore) SoftDelete(context.Context, uint64) error { return nil }

// resolve runs a request with the given Authorization header through
// AccessAuth and a probe handler echoing the resolved username.
func resolve(t *testing.T, store *stubUserStore, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	mw := AccessAuth(accessSecret, store)
	h := mw(func(c echo.Context) error {
		u, ok := UserFrom(c)
		require.True(t, ok)
		return c.String(http.StatusOK, u.Username)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestAccessAuth_ValidToken(t *testing.T) {
	store := &stubUserStore{user: &model.User{ID: 1, Username: "alice", Email: "alice@example.com"}}
	tok, err := utils.NewToken(accessSecret, "alice", 10*time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAccessAuth_SubjectMayBeEmail(t *testing.T) {
	// Google logins embed the email as subject; lookup is by
	// username-or-email so it still resolves.
	store := &stubUserStore{user: &model.User{ID: 1, Username: "alice", Email: "alice@example.com"}}
	tok, err := utils.NewToken(accessSecret, "alice@example.com", 10*time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessAuth_MissingHeader(t *testing.T) {
	store := &stubUserStore{}
	rec := resolve(t, store, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAccessAuth_ExpiredToken_DistinctMessage(t *testing.T) {
	store := &stubUserStore{user: &model.User{ID: 1, Username: "alice"}}
	tok, err := utils.NewToken(accessSecret, "alice", -time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAccessAuth_RefreshSignedTokenRejected(t *testing.T) {
	store := &stubUserStore{user: &model.User{ID: 1, Username: "alice"}}
	tok, err := utils.NewToken(refreshSecret, "alice", 10*time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestAccessAuth_UnknownSubject(t *testing.T) {
	store := &stubUserStore{}
	tok, err := utils.NewToken(accessSecret, "ghost", 10*time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestAccessAuth_SoftDeletedUser(t *testing.T) {
	// A token that was perfectly valid yesterday: the account has since
	// been soft-deleted, so resolution must fail as inactive rather than
	// with the generic message.
	store := &stubUserStore{user: &model.User{ID: 1, Username: "alice", IsDeleted: true}}
	tok, err := utils.NewToken(accessSecret, "alice", 10*time.Minute)
	require.NoError(t, err)

	rec := resolve(t, store, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user is not active")
}
