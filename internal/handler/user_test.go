package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	users := newMemUserStore()
	h := NewUserHandler(testConfig(), users)

	c, rec := postJSON(echo.New(), "/v1/auth/register",
		`{"name":"Ada Lovelace","email":"Ada@X.com","username":"ada","password":"s3cret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp userResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada", resp.Username)
	assert.Equal(t, "ada@x.com", resp.Email) // stored lowercase
	assert.NotEmpty(t, resp.GUID)
	// Hash must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "password")

	// The stored password verifies.
	u, err := users.GetByUsername(context.Background(), "ada")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	users := newMemUserStore()
	seedUser(t, users, "ada", "ada@x.com", "s3cret")
	h := NewUserHandler(testConfig(), users)

	c, rec := postJSON(echo.New(), "/v1/auth/register",
		`{"name":"Other","email":"other@x.com","username":"ada","password":"pw"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")

	c, rec = postJSON(echo.New(), "/v1/auth/register",
		`{"name":"Other","email":"ADA@x.com","username":"other","password":"pw"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already exists")

	// Nothing was written on either conflict.
	assert.Equal(t, 1, users.count())
}

func TestRegister_MissingFields(t *testing.T) {
	users := newMemUserStore()
	h := NewUserHandler(testConfig(), users)

	c, rec := postJSON(echo.New(), "/v1/auth/register", `{"username":"ada"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe_ReturnsResolvedIdentity(t *testing.T) {
	users := newMemUserStore()
	u := seedUser(t, users, "ada", "ada@x.com", "s3cret")
	h := NewUserHandler(testConfig(), users)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user", u)

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, u.GUID, resp.GUID)
	assert.Equal(t, "ada", resp.Username)
}

func TestDeleteMe_SoftDeletes(t *testing.T) {
	users := newMemUserStore()
	u := seedUser(t, users, "ada", "ada@x.com", "s3cret")
	h := NewUserHandler(testConfig(), users)

	req := httptest.NewRequest(http.MethodDelete, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user", u)

	require.NoError(t, h.DeleteMe(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The row survives but is flagged; identity resolution will now
	// reject the account.
	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
}

func TestMe_MissingIdentity(t *testing.T) {
	h := NewUserHandler(testConfig(), newMemUserStore())
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
