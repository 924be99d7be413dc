package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/restaurant-finder/internal/config"
	"github.com/iliyamo/restaurant-finder/internal/database"
	"github.com/iliyamo/restaurant-finder/internal/handler"
	"github.com/iliyamo/restaurant-finder/internal/places"
	"github.com/iliyamo/restaurant-finder/internal/queue"
	"github.com/iliyamo/restaurant-finder/internal/repository"
	"github.com/iliyamo/restaurant-finder/internal/router"
	queue_publisher "github.com/iliyamo/restaurant-finder/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionTokenRepo(db)
	searches := repository.NewSearchRepo(db)

	finder, err := places.NewGoogleFinder(cfg.MapsAPIKey)
	if err != nil {
		log.Fatalf("places client: %v", err)
	}
	// Redis is optional: a nil client simply disables the lookup cache.
	cached := places.NewCachedFinder(finder, config.NewRedisClient(), config.LoadCacheConfig())

	auth := handler.NewAuthHandler(cfg, users, sessions)
	restaurants := handler.NewRestaurantHandler(cached, searches, queue_publisher.PublishSearchPerformed)
	history := handler.NewHistoryHandler(searches)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth)
	router.RegisterProtected(e, cfg.JWTSecret, sessions, restaurants, history)

	// Background consumer mirrors search events into logs/search.log.
	go func() {
		if err := queue.StartSearchConsumer(); err != nil {
			log.Printf("search consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
