package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/handler"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
	"github.com/iliyamo/library-seat-reservation/internal/router"
	"github.com/iliyamo/library-seat-reservation/internal/service"
	"github.com/iliyamo/library-seat-reservation/internal/view"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	catalog := repository.NewFloorCatalog()
	repo := repository.NewReservationRepo()
	svc := service.NewReservationService(repo, catalog, clockwork.NewRealClock(), queue.NewPublisher())

	// The consumer keeps retrying the broker in the background; the
	// server does not depend on it.
	go queue.StartSeatEventConsumer()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Renderer = view.NewRenderer()

	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg),
		handler.NewReservationHandler(svc, catalog),
		cfg, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
