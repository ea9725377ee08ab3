// Package router defines how HTTP routes are registered for the
// application.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/handler"
	"github.com/iliyamo/library-seat-reservation/internal/middleware"
)

// RegisterRoutes wires every route of the application onto the Echo
// instance.  The session middleware runs on all routes so any handler
// can look up the caller's identity; the rate limiter guards only the
// endpoints that mutate state or establish sessions.  rdb may be nil,
// in which case rate limiting is disabled.
func RegisterRoutes(e *echo.Echo, auth *handler.AuthHandler, res *handler.ReservationHandler, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(middleware.Session(cfg.JWTSecret))
	limited := middleware.RateLimit(rlCfg, rdb)

	// Pages.
	e.GET("/", auth.Home)
	e.GET("/home", auth.Home)
	e.GET("/about/:username", auth.About)
	e.GET("/login", auth.LoginForm)
	e.POST("/login", auth.Login, limited)
	e.GET("/logout", auth.Logout)
	e.GET("/seat-matrix", res.SeatMatrix)

	// Reservation API.
	e.POST("/reserve-seat", res.ReserveSeat, limited)
	e.POST("/cancel-reservation", res.CancelReservation, limited)
	e.GET("/get-user-reservation", res.GetUserReservation)

	// Operational endpoints.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
