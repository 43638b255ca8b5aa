// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avoskan/taskboard/internal/config"
	"github.com/avoskan/taskboard/internal/handler"
	"github.com/avoskan/taskboard/internal/middleware"
	"github.com/avoskan/taskboard/internal/repository"
)

// Deps collects everything route registration needs.
type Deps struct {
	Cfg   config.Config
	Users repository.UserStore
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Task  *handler.TaskHandler
	Redis *redis.Client
}

// Register sets up all routes. Unauthenticated auth operations live
// under /v1/auth behind the rate limiter; every other endpoint under
// /v1 requires a valid access token, resolved to a full user before any
// handler runs.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Login, registration and refresh are the brute-force surface, so
	// the token-bucket limiter fronts this group.
	auth := e.Group("/v1/auth")
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	auth.POST("/register", d.User.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/google", d.Auth.GoogleLogin)
	auth.POST("/refresh", d.Auth.Refresh)

	// Protected group: AccessAuth decodes the bearer token and loads the
	// owning user into the request context.
	v1 := e.Group("/v1")
	v1.Use(middleware.AccessAuth(d.Cfg.JWTAccessSecret, d.Users))
	v1.GET("/me", d.User.Me)
	v1.DELETE("/me", d.User.DeleteMe)
	v1.POST("/tasks", d.Task.Create)
	v1.GET("/tasks", d.Task.List)
	v1.PATCH("/tasks/order", d.Task.UpdateOrder)
	v1.PATCH("/tasks/:id", d.Task.Update)
	v1.DELETE("/tasks/:id", d.Task.Delete)
}
