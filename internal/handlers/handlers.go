package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/cache"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/service"
)

// Handlers holds HTTP handlers for all API routes.
type Handlers struct {
	services *service.Services
	cache    *cache.Client // nil when Redis is not configured
}

// NewHandlers creates handlers backed by the given services.
func NewHandlers(services *service.Services, cacheClient *cache.Client) *Handlers {
	return &Handlers{
		services: services,
		cache:    cacheClient,
	}
}

// respondError maps a service error to an HTTP status by its kind and
// writes the JSON error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.InvalidArgument:
		status = http.StatusBadRequest
	case apperr.CapacityExceeded, apperr.InvalidState:
		status = http.StatusConflict
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.Unavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		slog.Error("Request failed",
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)
	}

	// The kinded message is written for clients; any wrapped cause stays
	// in the logs only.
	message := "Internal server error"
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.Unknown {
		message = e.Message
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
