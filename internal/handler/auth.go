package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoskan/taskboard/internal/auth"
	"github.com/avoskan/taskboard/internal/config"
	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/repository"
	"github.com/avoskan/taskboard/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints: login with a
// password, login with a Google access token, and refresh. Tokens are
// stateless JWTs, so none of these endpoints persist anything beyond
// the occasional last-login stamp or federated signup.
type AuthHandler struct {
	Cfg    config.Config
	Users  repository.UserStore
	Google *auth.GoogleVerifier
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, google *auth.GoogleVerifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Google: google}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type googleLoginReq struct {
	AccessToken string `json:"access_token"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// issuePair signs an access+refresh pair for the subject. The two
// tokens are signed with disjoint secrets so neither can stand in for
// the other.
func (h *AuthHandler) issuePair(subject string, accessTTLMin, refreshTTLMin int) (tokenPairResp, error) {
	access, err := utils.NewToken(h.Cfg.JWTAccessSecret, subject, time.Duration(accessTTLMin)*time.Minute)
	if err != nil {
		return tokenPairResp{}, err
	}
	refresh, err := utils.NewToken(h.Cfg.JWTRefreshSecret, subject, time.Duration(refreshTTLMin)*time.Minute)
	if err != nil {
		return tokenPairResp{}, err
	}
	return tokenPairResp{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}, nil
}

// Login authenticates a username-or-email plus password and returns a
// token pair with the default TTLs. Unknown identifiers and wrong
// passwords produce the same generic 401 so the endpoint cannot be used
// to enumerate accounts. The soft-delete flag is intentionally not
// consulted here; deactivated accounts are stopped at identity
// resolution instead.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsernameOrEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unauthorized(c, "incorrect username or password")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return unauthorized(c, "incorrect username or password")
	}

	pair, err := h.issuePair(u.Username, h.Cfg.AccessTTLMin, h.Cfg.RefreshTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// GoogleLogin verifies a client-obtained Google access token and signs
// the holder in, creating the account on first contact. The created
// account gets username=email and an unrecoverable random password hash;
// it can only ever log in through Google. The token subject is the raw
// (lowercased) email, which identity resolution accepts because it looks
// up by username-or-email.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AccessToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "access_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	info, err := h.Google.Verify(ctx, req.AccessToken)
	if err != nil {
		return unauthorized(c, "could not verify google credentials")
	}
	// Email is case-insensitive; the store holds only the lowercase form.
	email := strings.ToLower(info.Email)

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := h.Users.UpdateLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update last login failed"})
		}
	case errors.Is(err, repository.ErrUserNotFound):
		if _, err := h.createGoogleUser(ctx, email, info.GivenName, info.FamilyName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	pair, err := h.issuePair(email, h.Cfg.AccessTTLMin, h.Cfg.RefreshTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// createGoogleUser provisions an account from verified Google identity
// fields. The random password only exists to satisfy the not-null hash
// column; its plaintext is discarded immediately.
func (h *AuthHandler) createGoogleUser(ctx context.Context, email, given, family string) (*model.User, error) {
	random, err := utils.RandomHex(32)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(random, h.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     email, // google accounts use the email as username
		Email:        email,
		Name:         given + " " + family,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The
// renewed pair uses the extended TTLs, giving post-refresh sessions a
// longer runway than fresh logins. The presented refresh token is not
// invalidated; it stays usable until its own expiry.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	subject, err := utils.ParseSubject(h.Cfg.JWTRefreshSecret, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return unauthorized(c, "token expired")
		}
		return unauthorized(c, "could not validate credentials")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsernameOrEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unauthorized(c, "could not validate credentials")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.IsDeleted {
		return unauthorized(c, "user is not active")
	}

	pair, err := h.issuePair(subject, h.Cfg.NewAccessTTLMin, h.Cfg.NewRefreshTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	pair.TokenType = "" // refresh responses carry the bare pair
	return c.JSON(http.StatusOK, pair)
}

// unauthorized writes a 401 with the bearer challenge header.
func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}
