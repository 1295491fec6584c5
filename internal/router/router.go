// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/config"
	"github.com/iliyamo/facility-booking/internal/handler"
	"github.com/iliyamo/facility-booking/internal/middleware"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Bookings   *handler.BookingHandler
	Facilities *handler.FacilityHandler
	Stats      *handler.StatsHandler
}

// RegisterRoutes registers the whole API surface. The unauthenticated
// surface is the health check and the auth endpoints; everything else
// sits behind JWT auth plus a role gate. rdb may be nil, which
// disables rate limiting and response caching.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// The facilities listing is identical for every caller and shares
	// one cache entry; stats bodies depend on who is asking, so that
	// cache keys on the subject claim as well.
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	userCfg := cacheCfg
	userCfg.KeyStrategy = "route_query_user"
	userCache := middleware.NewRedisCache(userCfg, rdb)

	// Unauthenticated: register, login, token exchange.
	auth := e.Group("/v1/auth", rl)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Authenticated surface shared by both roles. The limiter runs
	// after JWTAuth so its per-user key dimension sees the subject
	// claim instead of falling back to the anonymous bucket.
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), rl,
		middleware.RequireRole(booking.RoleAdmin, booking.RoleStaff))
	v1.GET("/me", h.Auth.Me)
	v1.GET("/stats", h.Stats.Get, userCache)
	v1.GET("/facilities", h.Facilities.Browse, cache)

	// Self-service booking lifecycle. Ownership checks happen in the
	// service; the role gate here only keeps the surface staff-shaped.
	v1.POST("/bookings", h.Bookings.Create)
	v1.GET("/bookings", h.Bookings.My)
	v1.GET("/bookings/upcoming", h.Bookings.Upcoming)
	v1.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	// Admin-only management surface.
	admin := v1.Group("/admin", middleware.RequireRole(booking.RoleAdmin))
	admin.GET("/bookings", h.Bookings.List)
	admin.GET("/bookings/recent", h.Bookings.Recent)
	admin.POST("/bookings/:id/approve", h.Bookings.Approve)
	admin.POST("/bookings/:id/reject", h.Bookings.Reject)
	admin.GET("/facilities", h.Facilities.ListAll)
	admin.POST("/facilities", h.Facilities.Create)
	admin.PUT("/facilities/:id", h.Facilities.Update)
	admin.DELETE("/facilities/:id", h.Facilities.Delete)
}
