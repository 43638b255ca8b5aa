package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avoskan/taskboard/internal/auth"
	"github.com/avoskan/taskboard/internal/config"
	"github.com/avoskan/taskboard/internal/database"
	"github.com/avoskan/taskboard/internal/handler"
	"github.com/avoskan/taskboard/internal/queue"
	"github.com/avoskan/taskboard/internal/repository"
	"github.com/avoskan/taskboard/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tasks := repository.NewTaskRepo(db)
	google := auth.NewGoogleVerifier(cfg.GoogleUserInfoURL)

	// Redis is optional: a nil client disables rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	// Background consumer writing task activity to logs/activity.log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, router.Deps{
		Cfg:   cfg,
		Users: users,
		Auth:  handler.NewAuthHandler(cfg, users, google),
		User:  handler.NewUserHandler(cfg, users),
		Task:  handler.NewTaskHandler(tasks),
		Redis: rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
