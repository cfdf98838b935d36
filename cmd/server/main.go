package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/auth"
	"github.com/iliyamo/task-management-system/internal/config"
	"github.com/iliyamo/task-management-system/internal/database"
	"github.com/iliyamo/task-management-system/internal/handler"
	"github.com/iliyamo/task-management-system/internal/middleware"
	"github.com/iliyamo/task-management-system/internal/queue"
	"github.com/iliyamo/task-management-system/internal/repository"
	"github.com/iliyamo/task-management-system/internal/router"
)

func main() {
	// Load .env in development; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tasks := repository.NewTaskRepo(db)
	creds := auth.NewCredentialStore(users, cfg.BcryptCost)

	// Redis is optional: without it the limiter and cache become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	guard := middleware.Authenticate(cfg.JWTSecret, users)

	// Background consumer for task.completed events; reconnects on its own.
	go func() {
		if err := queue.StartTaskEventConsumer(); err != nil {
			log.Printf("task-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, creds), limiter, guard)
	router.RegisterTasks(e, handler.NewTaskHandler(tasks, users), guard, cache)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, tasks), guard)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
