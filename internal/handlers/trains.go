package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

// ListTrains handles GET /api/trains. The active-train list is the hottest
// read in the system, so it is served from Redis when available.
func (h *Handlers) ListTrains(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if raw, err := h.cache.GetTrainsListRaw(ctx); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
	}

	trains, err := h.services.Trains.ListActive(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetTrainsList(ctx, trains); err != nil {
			slog.Warn("Failed to cache train list", "error", err.Error())
		}
	}

	c.JSON(http.StatusOK, trains)
}

// SearchTrains handles POST /api/trains/search
func (h *Handlers) SearchTrains(c *gin.Context) {
	var req models.SearchTrainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	trains, err := h.services.Trains.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trains)
}

// GetTrain handles GET /api/trains/:id
func (h *Handlers) GetTrain(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid train id"))
		return
	}

	train, err := h.services.Trains.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, train)
}

// CreateTrain handles POST /api/trains (admin)
func (h *Handlers) CreateTrain(c *gin.Context) {
	var req models.CreateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	train, err := h.services.Trains.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateTrainsCache(c)
	c.JSON(http.StatusCreated, train)
}

// UpdateTrain handles PUT /api/trains/:id (admin)
func (h *Handlers) UpdateTrain(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid train id"))
		return
	}

	var req models.UpdateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	train, err := h.services.Trains.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateTrainsCache(c)
	c.JSON(http.StatusOK, train)
}

// DeleteTrain handles DELETE /api/trains/:id (admin). Trains are retired,
// not removed, so existing bookings keep their snapshot.
func (h *Handlers) DeleteTrain(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, apperr.E(apperr.InvalidArgument, "invalid train id"))
		return
	}

	if err := h.services.Trains.Retire(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateTrainsCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Train deleted successfully"})
}

func (h *Handlers) invalidateTrainsCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateTrains(c.Request.Context()); err != nil {
		slog.Warn("Failed to invalidate train cache", "error", err.Error())
	}
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
