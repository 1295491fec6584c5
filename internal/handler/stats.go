package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/service"
)

// StatsHandler serves the dashboard aggregates. The response shape
// depends on the caller's role: admins see global counts plus the
// active facility count, staff see their own totals.
type StatsHandler struct {
	Bookings *service.BookingService
}

func NewStatsHandler(s *service.BookingService) *StatsHandler {
	if s == nil {
		panic("nil service passed to NewStatsHandler")
	}
	return &StatsHandler{Bookings: s}
}

// Get handles GET /v1/stats.
func (h *StatsHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if getRole(c) == booking.RoleAdmin {
		stats, facilities, err := h.Bookings.AdminStats(ctx)
		if err != nil {
			return writeDomainErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"total":      stats.Total,
			"pending":    stats.Pending,
			"approved":   stats.Approved,
			"rejected":   stats.Rejected,
			"facilities": facilities,
		})
	}

	stats, err := h.Bookings.StatsFor(ctx, userID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
