package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/middleware"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/service"
)

// CreateBooking handles POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.services.Bookings.Reserve(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings
func (h *Handlers) MyBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	bookings, err := h.services.Bookings.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid booking id"))
		return
	}

	booking, err := h.services.Bookings.GetByID(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking handles PUT /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid booking id"))
		return
	}

	booking, err := h.services.Bookings.Release(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidatePNR(c.Request.Context(), booking.PNRNumber); err != nil {
			slog.Warn("Failed to invalidate PNR cache",
				"pnr", booking.PNRNumber,
				"error", err.Error(),
			)
		}
	}

	c.JSON(http.StatusOK, booking)
}

// LookupByPNR handles GET /api/bookings/pnr/:pnrNumber. This route is
// public so anyone holding a PNR can check the booking status.
func (h *Handlers) LookupByPNR(c *gin.Context) {
	ctx := c.Request.Context()
	pnr := c.Param("pnrNumber")

	if !service.IsValidPNR(pnr) {
		respondError(c, apperr.E(apperr.InvalidArgument, "PNR must be a 10-digit number"))
		return
	}

	if h.cache != nil {
		if raw, err := h.cache.GetBookingByPNRRaw(ctx, pnr); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
	}

	booking, err := h.services.Bookings.LookupByPNR(ctx, pnr)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetBookingByPNR(ctx, pnr, booking); err != nil {
			slog.Warn("Failed to cache PNR lookup", "pnr", pnr, "error", err.Error())
		}
	}

	c.JSON(http.StatusOK, booking)
}

// ListAllBookings handles GET /api/bookings/all (admin)
func (h *Handlers) ListAllBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	bookings, err := h.services.Bookings.ListAll(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// DownloadTicket handles GET /api/bookings/:id/ticket and streams the
// e-ticket PDF for a booking the caller may see.
func (h *Handlers) DownloadTicket(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid booking id"))
		return
	}

	booking, err := h.services.Bookings.GetByID(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, filename, err := service.BuildETicket(booking)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
