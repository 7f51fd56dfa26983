package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/ludo-board-api/internal/auth"
	"github.com/iliyamo/ludo-board-api/internal/config"
	"github.com/iliyamo/ludo-board-api/internal/database"
	"github.com/iliyamo/ludo-board-api/internal/handler"
	"github.com/iliyamo/ludo-board-api/internal/middleware"
	"github.com/iliyamo/ludo-board-api/internal/queue"
	"github.com/iliyamo/ludo-board-api/internal/repository"
	"github.com/iliyamo/ludo-board-api/internal/router"
	queue_publisher "github.com/iliyamo/ludo-board-api/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Everything below is explicit dependency injection: the stores, the
	// hasher cost, and the token issuer are constructed once here and handed
	// to the handlers. No package-level singletons.
	players := repository.NewPlayerRepo(db)
	games := repository.NewGameRepo(db)
	moves := repository.NewMoveRepo(db)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	authHandler := handler.NewAuthHandler(players, issuer, cfg.BcryptCost)
	playerHandler := handler.NewPlayerHandler(players)
	gameHandler := handler.NewGameHandler(games)
	moveHandler := handler.NewMoveHandler(moves, players, games)
	moveHandler.Publish = queue_publisher.PublishMoveRecorded

	// Redis is optional: when unreachable the limiter and cache become
	// pass-throughs and the API runs without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	rateLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, issuer)
	responseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// The move consumer reconnects forever in the background; a missing
	// broker never blocks the API itself.
	go func() {
		if err := queue.StartMoveConsumer(); err != nil {
			log.Printf("move consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(rateLimiter)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterResources(e, playerHandler, gameHandler, moveHandler, issuer, responseCache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
