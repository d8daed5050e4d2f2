// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticket-booking/internal/config"
	"github.com/iliyamo/ticket-booking/internal/handler"
	"github.com/iliyamo/ticket-booking/internal/middleware"
)

// Deps collects everything route registration needs.
type Deps struct {
	Cfg      config.Config
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Account  *handler.AccountHandler
	Events   *handler.EventHandler
	Redis    *redis.Client
}

// RegisterRoutes mounts the public and protected route groups.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)

	// Auth: registration and login are rate limited, the rest are not.
	auth := e.Group("/v1/auth")
	auth.POST("/register", d.Auth.Register, limiter)
	auth.POST("/login", d.Auth.Login, limiter)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// Event catalog: reads are public and cached, writes are admin-only.
	e.GET("/v1/events", d.Events.List, cached)
	e.GET("/v1/events/:id", d.Events.Get, cached)

	protected := e.Group("/v1", middleware.JWTAuth(d.Cfg.JWTSecret))
	protected.GET("/me", d.Auth.Me)

	protected.POST("/events", d.Events.Create, middleware.RequireRole("ADMIN"))

	// Booking flow requires an authenticated customer or admin.
	booking := protected.Group("", middleware.RequireRole("CUSTOMER", "ADMIN"))
	booking.POST("/bookings", d.Bookings.Book, limiter)
	booking.DELETE("/tickets/:id", d.Bookings.Cancel)
	booking.GET("/events/:id/tickets", d.Bookings.ListByEvent)
	booking.GET("/account", d.Account.Balance)
	booking.POST("/account/refill", d.Account.Refill)
}
