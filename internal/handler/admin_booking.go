package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-booking/internal/booking"
)

// List handles GET /v1/admin/bookings?status=. It returns every
// booking with user and facility names, optionally filtered by status.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.AllBookings(ctx, c.QueryParam("status"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingResps(list)})
}

// Recent handles GET /v1/admin/bookings/recent?limit=n, the dashboard
// widget showing the newest requests.
func (h *BookingHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.Recent(ctx, limit)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingResps(list)})
}

// Approve handles POST /v1/admin/bookings/:id/approve. The transition
// only succeeds while the booking is pending; approving a booking that
// already reached a terminal state is a 409, not a silent overwrite.
func (h *BookingHandler) Approve(c echo.Context) error {
	return h.adminTransition(c, booking.StatusApproved)
}

// Reject handles POST /v1/admin/bookings/:id/reject.
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.adminTransition(c, booking.StatusRejected)
}

func (h *BookingHandler) adminTransition(c echo.Context, target string) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Transition(ctx, id, target, actorID, getRole(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": target})
}
