package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/oritang/bookstore-auth/internal/config"
	"github.com/oritang/bookstore-auth/internal/database"
	"github.com/oritang/bookstore-auth/internal/directory"
	"github.com/oritang/bookstore-auth/internal/handler"
	"github.com/oritang/bookstore-auth/internal/middleware"
	"github.com/oritang/bookstore-auth/internal/queue"
	"github.com/oritang/bookstore-auth/internal/repository"
	"github.com/oritang/bookstore-auth/internal/router"
	"github.com/oritang/bookstore-auth/internal/service"
	"github.com/oritang/bookstore-auth/internal/token"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	rdb := config.NewRedisClient()
	if rdb == nil {
		// The refresh token store has no fallback; without Redis no
		// session can be established or revoked.
		log.Fatal("redis unavailable, cannot start without the token store")
	}

	var dir directory.Directory
	switch cfg.DirectoryBackend {
	case config.DirectoryMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open directory database: %v", err)
		}
		dir = directory.NewSQLDirectory(db)
	default:
		dir = directory.NewHTTPDirectory(cfg.DirectoryURL)
	}

	codec := token.NewCodec(cfg.JWTSecret)
	tokens := repository.NewRefreshTokenStore(rdb)
	verifier := service.NewVerifier(dir, nil)
	auth := service.NewAuthService(codec, verifier, tokens,
		queue.PublishSessionEvent, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	go queue.StartSessionConsumer()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth),
		middleware.LoginThrottle(config.LoadThrottleConfig(), rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, directory=%s)", addr, cfg.Env, cfg.DirectoryBackend)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
