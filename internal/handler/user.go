package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoskan/taskboard/internal/config"
	"github.com/avoskan/taskboard/internal/middleware"
	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/repository"
	"github.com/avoskan/taskboard/internal/utils"
)

// UserHandler serves registration and account endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewUserHandler(cfg config.Config, users repository.UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResp exposes only safe fields; the password hash never leaves the
// repository layer.
type userResp struct {
	GUID      string     `json:"guid"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserResp(u *model.User) userResp {
	return userResp{
		GUID:      u.GUID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a password-credentialed account. Username and email are
// each pre-checked for duplicates so the conflict surfaces as a clean
// 409 before any write is attempted rather than as a caught constraint
// violation.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Me returns the resolved identity's safe fields.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// DeleteMe soft-deletes the caller's account. The row stays in storage;
// existing tokens keep decoding but identity resolution rejects them as
// inactive from this point on.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
