package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-booking/internal/model"
	"github.com/iliyamo/facility-booking/internal/service"
)

// FacilityHandler exposes facility browsing to every authenticated
// user and facility management to admins.
type FacilityHandler struct {
	Facilities *service.FacilityService
}

func NewFacilityHandler(s *service.FacilityService) *FacilityHandler {
	if s == nil {
		panic("nil service passed to NewFacilityHandler")
	}
	return &FacilityHandler{Facilities: s}
}

type facilityReq struct {
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Image       *string `json:"image"` // stored reference; nil keeps the current one on update
}

func (r facilityReq) input() service.FacilityInput {
	return service.FacilityInput{
		Name:        r.Name,
		Capacity:    r.Capacity,
		Description: r.Description,
		Status:      strings.ToLower(strings.TrimSpace(r.Status)),
		Image:       r.Image,
	}
}

// Browse handles GET /v1/facilities: the active facilities any staff
// member can request a slot on.
func (h *FacilityHandler) Browse(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Facilities.List(ctx, false)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": facilityResps(list)})
}

// ListAll handles GET /v1/admin/facilities, including inactive rows.
func (h *FacilityHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Facilities.List(ctx, true)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": facilityResps(list)})
}

// Create handles POST /v1/admin/facilities.
func (h *FacilityHandler) Create(c echo.Context) error {
	var body facilityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Facilities.Create(ctx, body.input())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, toFacilityResp(f))
}

// Update handles PUT /v1/admin/facilities/:id. The request resupplies
// every field; an omitted image keeps the stored reference.
func (h *FacilityHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body facilityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Facilities.Update(ctx, id, body.input())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toFacilityResp(f))
}

// Delete handles DELETE /v1/admin/facilities/:id. Deletion is refused
// with 409 while pending or approved bookings reference the facility.
func (h *FacilityHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Facilities.Delete(ctx, id); err != nil {
		return writeDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func facilityResps(fs []model.Facility) []facilityResp {
	out := make([]facilityResp, 0, len(fs))
	for _, f := range fs {
		out = append(out, toFacilityResp(f))
	}
	return out
}
