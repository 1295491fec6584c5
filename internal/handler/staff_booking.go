package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle to staff (create, list,
// upcoming, cancel) and to admins (listing, approve, reject). All role
// gating beyond ownership happens in middleware; ownership and
// transition conditions live in the service.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(s *service.BookingService) *BookingHandler {
	if s == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: s}
}

// Create handles POST /v1/bookings. The date and times are parsed at
// this boundary into the internal forms; every rule violation comes
// back as an itemized fields map so the client can re-present the form.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		FacilityID  uint64 `json:"facility_id"`
		BookingDate string `json:"booking_date"` // YYYY-MM-DD
		StartTime   string `json:"start_time"`   // HH:MM
		EndTime     string `json:"end_time"`     // HH:MM
		Purpose     string `json:"purpose"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	fields := booking.FieldErrors{}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(body.BookingDate), time.UTC)
	if err != nil {
		fields["booking_date"] = "date must be YYYY-MM-DD"
	}
	start, err := booking.ParseClock(body.StartTime)
	if err != nil {
		fields["start_time"] = "time must be HH:MM"
	}
	end, err := booking.ParseClock(body.EndTime)
	if err != nil {
		fields["end_time"] = "time must be HH:MM"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Create(ctx, userID, booking.CreateRequest{
		FacilityID: body.FacilityID,
		Date:       date,
		Start:      start,
		End:        end,
		Purpose:    strings.TrimSpace(body.Purpose),
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// My handles GET /v1/bookings and returns the caller's bookings,
// newest first.
func (h *BookingHandler) My(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.MyBookings(ctx, userID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingResps(list)})
}

// Upcoming handles GET /v1/bookings/upcoming?limit=n.
func (h *BookingHandler) Upcoming(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.Upcoming(ctx, userID, limit)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingResps(list)})
}

// Cancel handles POST /v1/bookings/:id/cancel. Only the owning user
// may cancel, and only while the booking is still pending.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Transition(ctx, id, booking.StatusCancelled, userID, getRole(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": booking.StatusCancelled})
}
