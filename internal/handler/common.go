package handler // handler defines http handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/model"
	"github.com/iliyamo/facility-booking/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims decode as float64, so several runtime
// types are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// writeDomainErr maps the domain error kinds onto HTTP responses:
// field-scoped validation errors become 400 with an itemized fields
// map, authorization errors 403, missing rows 404, state conflicts
// 409. Anything else is a persistence failure: it is logged here and
// surfaced as an opaque 500 so low-level detail never reaches the
// client.
func writeDomainErr(c echo.Context, err error) error {
	var fe booking.FieldErrors
	switch {
	case errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fe})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrFacilityNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
	case errors.Is(err, repository.ErrOverlap):
		return c.JSON(http.StatusConflict, echo.Map{"error": "requested slot overlaps an existing booking"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict with current state"})
	default:
		log.Printf("handler: %s %s failed: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// bookingResp is the wire shape of a booking. Times render as "HH:MM",
// the date as ISO.
type bookingResp struct {
	ID           uint64    `json:"booking_id"`
	FacilityID   uint64    `json:"facility_id"`
	FacilityName string    `json:"facility_name,omitempty"`
	UserID       uint64    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	Date         string    `json:"booking_date"`
	Start        string    `json:"start_time"`
	End          string    `json:"end_time"`
	Status       string    `json:"status"`
	Purpose      string    `json:"purpose,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	r := bookingResp{
		ID:           b.ID,
		FacilityID:   b.FacilityID,
		FacilityName: b.FacilityName,
		UserID:       b.UserID,
		UserName:     b.UserName,
		Date:         b.Date.Format("2006-01-02"),
		Start:        b.Start.String(),
		End:          b.End.String(),
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
	if b.Purpose != nil {
		r.Purpose = *b.Purpose
	}
	return r
}

func toBookingResps(bs []model.Booking) []bookingResp {
	out := make([]bookingResp, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingResp(b))
	}
	return out
}

// facilityResp is the wire shape of a facility.
type facilityResp struct {
	ID          uint64    `json:"facility_id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFacilityResp(f model.Facility) facilityResp {
	return facilityResp{
		ID:          f.ID,
		Name:        f.Name,
		Capacity:    f.Capacity,
		Status:      f.Status,
		Description: f.Description,
		Image:       f.Image,
		CreatedAt:   f.CreatedAt,
	}
}
